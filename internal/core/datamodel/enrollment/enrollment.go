package enrollment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CohortStudent is one enrollment in a cohort batch. DueAmount is stored and
// kept equal to max(0, offer_amount - cash_received) by every writer.
type CohortStudent struct {
	ID               string     `gorm:"primaryKey;type:uuid"`
	OrganizationID   string     `gorm:"column:organization_id;type:uuid;not null;index"`
	BatchID          string     `gorm:"column:batch_id;type:uuid;not null;index"`
	ContactName      string     `gorm:"column:contact_name;not null"`
	Email            string     `gorm:"column:email"`
	Phone            *string    `gorm:"column:phone"`
	Status           string     `gorm:"column:status;not null"`
	OfferAmount      int64      `gorm:"column:offer_amount;not null;default:0"`
	CashReceived     int64      `gorm:"column:cash_received;not null;default:0"`
	DueAmount        int64      `gorm:"column:due_amount;not null;default:0"`
	PayAfterEarning  bool       `gorm:"column:pay_after_earning;not null;default:false"`
	NextFollowUpDate *time.Time `gorm:"column:next_follow_up_date"`
	CloserID         *string    `gorm:"column:closer_id;type:uuid"`
	ConvertedAt      time.Time  `gorm:"column:converted_at;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CohortStudent) TableName() string {
	return "cohort_students"
}

func (s *CohortStudent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type CallAppointment struct {
	ID               string     `gorm:"primaryKey;type:uuid"`
	OrganizationID   string     `gorm:"column:organization_id;type:uuid;not null;index"`
	ContactName      string     `gorm:"column:contact_name;not null"`
	Email            string     `gorm:"column:email"`
	Phone            *string    `gorm:"column:phone"`
	Status           string     `gorm:"column:status;not null"`
	ScheduledDate    time.Time  `gorm:"column:scheduled_date;not null"`
	OfferAmount      int64      `gorm:"column:offer_amount;not null;default:0"`
	CashReceived     int64      `gorm:"column:cash_received;not null;default:0"`
	DueAmount        int64      `gorm:"column:due_amount;not null;default:0"`
	PayAfterEarning  bool       `gorm:"column:pay_after_earning;not null;default:false"`
	NextFollowUpDate *time.Time `gorm:"column:next_follow_up_date"`
	CloserID         *string    `gorm:"column:closer_id;type:uuid"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (CallAppointment) TableName() string {
	return "call_appointments"
}

func (a *CallAppointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
