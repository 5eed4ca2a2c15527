package enrollment

import (
	"time"

	"github.com/frahmantamala/sales-crm/internal/roster"
)

// StudentRow is a cohort_students row joined with its closer's name.
type StudentRow struct {
	ID               string     `gorm:"column:id"`
	ContactName      string     `gorm:"column:contact_name"`
	Email            string     `gorm:"column:email"`
	Phone            *string    `gorm:"column:phone"`
	Status           string     `gorm:"column:status"`
	OfferAmount      int64      `gorm:"column:offer_amount"`
	CashReceived     int64      `gorm:"column:cash_received"`
	DueAmount        int64      `gorm:"column:due_amount"`
	PayAfterEarning  bool       `gorm:"column:pay_after_earning"`
	NextFollowUpDate *time.Time `gorm:"column:next_follow_up_date"`
	CloserID         *string    `gorm:"column:closer_id"`
	CloserName       *string    `gorm:"column:closer_name"`
	ConvertedAt      time.Time  `gorm:"column:converted_at"`
}

func (r StudentRow) Record() roster.Record {
	return roster.Record{
		ID:               r.ID,
		ContactName:      r.ContactName,
		Email:            r.Email,
		Phone:            r.Phone,
		Status:           roster.Status(r.Status),
		OfferAmount:      r.OfferAmount,
		CashReceived:     r.CashReceived,
		DueAmount:        r.DueAmount,
		PayAfterEarning:  r.PayAfterEarning,
		NextFollowUpDate: r.NextFollowUpDate,
		CloserID:         r.CloserID,
		CloserName:       r.CloserName,
		Date:             r.ConvertedAt,
	}
}

// AppointmentRow is a call_appointments row joined with its closer's name.
type AppointmentRow struct {
	ID               string     `gorm:"column:id"`
	ContactName      string     `gorm:"column:contact_name"`
	Email            string     `gorm:"column:email"`
	Phone            *string    `gorm:"column:phone"`
	Status           string     `gorm:"column:status"`
	ScheduledDate    time.Time  `gorm:"column:scheduled_date"`
	OfferAmount      int64      `gorm:"column:offer_amount"`
	CashReceived     int64      `gorm:"column:cash_received"`
	DueAmount        int64      `gorm:"column:due_amount"`
	PayAfterEarning  bool       `gorm:"column:pay_after_earning"`
	NextFollowUpDate *time.Time `gorm:"column:next_follow_up_date"`
	CloserID         *string    `gorm:"column:closer_id"`
	CloserName       *string    `gorm:"column:closer_name"`
}

func (r AppointmentRow) Record() roster.Record {
	return roster.Record{
		ID:               r.ID,
		ContactName:      r.ContactName,
		Email:            r.Email,
		Phone:            r.Phone,
		Status:           roster.Status(r.Status),
		OfferAmount:      r.OfferAmount,
		CashReceived:     r.CashReceived,
		DueAmount:        r.DueAmount,
		PayAfterEarning:  r.PayAfterEarning,
		NextFollowUpDate: r.NextFollowUpDate,
		CloserID:         r.CloserID,
		CloserName:       r.CloserName,
		Date:             r.ScheduledDate,
	}
}

// StatusChange reports a refund or discontinue transition.
type StatusChange struct {
	StudentID string        `json:"student_id"`
	From      roster.Status `json:"from"`
	To        roster.Status `json:"to"`
}
