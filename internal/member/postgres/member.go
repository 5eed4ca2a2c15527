package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/sales-crm/internal/member"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) member.Repository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByID(ctx context.Context, userID string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "name", "is_active", "is_super_admin", "created_at", "updated_at").
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
