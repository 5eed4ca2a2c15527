package emi

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index"`
	StudentID      string    `gorm:"column:student_id;type:uuid;not null;index"`
	Amount         int64     `gorm:"column:amount;not null"`
	Reference      string    `gorm:"column:reference;uniqueIndex;not null"`
	Note           string    `gorm:"column:note"`
	PaidAt         time.Time `gorm:"column:paid_at;not null"`
	RecordedBy     string    `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Payment) TableName() string {
	return "emi_payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
