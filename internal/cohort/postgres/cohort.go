package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/sales-crm/internal/cohort"
	cohortDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/cohort"
	"gorm.io/gorm"
)

type CohortRepository struct {
	db *gorm.DB
}

func NewCohortRepository(db *gorm.DB) cohort.RepositoryAPI {
	return &CohortRepository{db: db}
}

func (r *CohortRepository) ListCohortTypes(ctx context.Context, orgID string) ([]*cohortDatamodel.CohortType, error) {
	var types []*cohortDatamodel.CohortType
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *CohortRepository) GetCohortTypeBySlug(ctx context.Context, orgID, slug string) (*cohortDatamodel.CohortType, error) {
	var ct cohortDatamodel.CohortType
	err := r.db.WithContext(ctx).Where("organization_id = ? AND slug = ?", orgID, slug).First(&ct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cohort.ErrNotFound
		}
		return nil, err
	}
	return &ct, nil
}

func (r *CohortRepository) CreateCohortType(ctx context.Context, c *cohortDatamodel.CohortType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&cohortDatamodel.CohortType{}).
			Where("organization_id = ? AND slug = ?", c.OrganizationID, c.Slug).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return cohort.ErrDuplicateSlug
		}
		return tx.Create(c).Error
	})
}

func (r *CohortRepository) ListBatches(ctx context.Context, orgID, cohortTypeID string) ([]*cohortDatamodel.CohortBatch, error) {
	var batches []*cohortDatamodel.CohortBatch
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND cohort_type_id = ?", orgID, cohortTypeID).
		Order("start_date DESC").
		Find(&batches).Error
	return batches, err
}

func (r *CohortRepository) GetBatch(ctx context.Context, orgID, batchID string) (*cohortDatamodel.CohortBatch, error) {
	var b cohortDatamodel.CohortBatch
	err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID, batchID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cohort.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
