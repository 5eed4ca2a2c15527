package postgres

import (
	"context"
	"errors"
	"time"

	orgDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/sales-crm/internal/organization"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.RepositoryAPI {
	return &OrganizationRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return organization.ErrNotFound
	}
	return err
}

func (r *OrganizationRepository) GetUser(ctx context.Context, userID string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *OrganizationRepository) GetOrganization(ctx context.Context, orgID string) (*orgDatamodel.Organization, error) {
	var o orgDatamodel.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", orgID).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *OrganizationRepository) ListOrganizations(ctx context.Context) ([]*orgDatamodel.Organization, error) {
	var orgs []*orgDatamodel.Organization
	err := r.db.WithContext(ctx).Order("name ASC").Find(&orgs).Error
	return orgs, err
}

func (r *OrganizationRepository) GetMember(ctx context.Context, orgID, userID string) (*orgDatamodel.Member, error) {
	var m orgDatamodel.Member
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *OrganizationRepository) FirstMembership(ctx context.Context, userID string) (*orgDatamodel.Member, error) {
	var m orgDatamodel.Member
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *OrganizationRepository) ListMembers(ctx context.Context, orgID string) ([]organization.MemberRecord, error) {
	var records []organization.MemberRecord
	err := r.db.WithContext(ctx).
		Table("organization_members AS m").
		Select("m.user_id, u.email, u.name, m.role, u.is_active").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.organization_id = ?", orgID).
		Order("u.name ASC").
		Scan(&records).Error
	return records, err
}

func (r *OrganizationRepository) UpdateMemberRole(ctx context.Context, orgID, userID, role string) error {
	return r.db.WithContext(ctx).
		Model(&orgDatamodel.Member{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		}).Error
}

func (r *OrganizationRepository) ListModules(ctx context.Context, orgID string) ([]*orgDatamodel.Module, error) {
	var modules []*orgDatamodel.Module
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("slug ASC").
		Find(&modules).Error
	return modules, err
}

func (r *OrganizationRepository) UpsertModule(ctx context.Context, orgID, slug string, enabled bool) error {
	row := &orgDatamodel.Module{
		OrganizationID: orgID,
		Slug:           slug,
		Enabled:        enabled,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}, {Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(row).Error
}

func (r *OrganizationRepository) ListMemberPermissions(ctx context.Context, orgID, userID string) ([]*orgDatamodel.MemberPermission, error) {
	var rows []*orgDatamodel.MemberPermission
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Find(&rows).Error
	return rows, err
}

// ReplaceMemberPermissions swaps the member's override rows in one
// transaction; readers never observe a half-written set.
func (r *OrganizationRepository) ReplaceMemberPermissions(ctx context.Context, orgID, userID string, rows []*orgDatamodel.MemberPermission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ? AND user_id = ?", orgID, userID).
			Delete(&orgDatamodel.MemberPermission{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *OrganizationRepository) DeleteMemberPermissions(ctx context.Context, orgID, userID string) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&orgDatamodel.MemberPermission{}).Error
}
