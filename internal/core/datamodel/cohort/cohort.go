package cohort

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CohortType struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:idx_org_cohort_slug"`
	Name           string    `gorm:"column:name;not null"`
	Slug           string    `gorm:"column:slug;not null;uniqueIndex:idx_org_cohort_slug"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CohortType) TableName() string {
	return "cohort_types"
}

func (c *CohortType) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CohortBatch struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index"`
	CohortTypeID   string    `gorm:"column:cohort_type_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	StartDate      time.Time `gorm:"column:start_date;type:date"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CohortBatch) TableName() string {
	return "cohort_batches"
}

func (c *CohortBatch) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
