package roster

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive                Status = "active"
	StatusConverted             Status = "converted"
	StatusConvertedBeginner     Status = "converted_beginner"
	StatusConvertedIntermediate Status = "converted_intermediate"
	StatusConvertedAdvance      Status = "converted_advance"
	StatusScheduled             Status = "scheduled"
	StatusRescheduled           Status = "rescheduled"
	StatusPending               Status = "pending"
	StatusNoShow                Status = "no_show"
	StatusNotConverted          Status = "not_converted"
	StatusBookingAmount         Status = "booking_amount"
	StatusRefunded              Status = "refunded"
	StatusDiscontinued          Status = "discontinued"
)

// StatusAll disables the status filter.
const StatusAll Status = "all"

var knownStatuses = map[Status]bool{
	StatusActive: true, StatusConverted: true, StatusConvertedBeginner: true,
	StatusConvertedIntermediate: true, StatusConvertedAdvance: true, StatusScheduled: true,
	StatusRescheduled: true, StatusPending: true, StatusNoShow: true, StatusNotConverted: true,
	StatusBookingAmount: true, StatusRefunded: true, StatusDiscontinued: true,
}

func (s Status) IsKnown() bool {
	return knownStatuses[s]
}

// IsConverted matches "converted" and every "converted_*" variant.
func (s Status) IsConverted() bool {
	return s == StatusConverted || strings.HasPrefix(string(s), string(StatusConverted)+"_")
}

// IsClosed is true for records that no longer count toward revenue.
func (s Status) IsClosed() bool {
	return s == StatusRefunded || s == StatusDiscontinued
}

// Record is one student or appointment as the roster sees it. Amounts are
// whole currency units. DueAmount is stored by whoever writes the record.
type Record struct {
	ID               string     `json:"id"`
	ContactName      string     `json:"contact_name"`
	Email            string     `json:"email"`
	Phone            *string    `json:"phone,omitempty"`
	Status           Status     `json:"status"`
	OfferAmount      int64      `json:"offer_amount"`
	CashReceived     int64      `json:"cash_received"`
	DueAmount        int64      `json:"due_amount"`
	PayAfterEarning  bool       `json:"pay_after_earning"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date,omitempty"`
	CloserID         *string    `json:"closer_id,omitempty"`
	CloserName       *string    `json:"closer_name,omitempty"`
	Date             time.Time  `json:"date"`
}

// ComputeDue is the single rule for a record's outstanding balance.
func ComputeDue(offer, cash int64) int64 {
	if due := offer - cash; due > 0 {
		return due
	}
	return 0
}

func (r Record) IsFullPayment() bool {
	return r.DueAmount == 0 && r.CashReceived > 0 && !r.Status.IsClosed()
}

// HasRemainingDue excludes pay-after-earning balances.
func (r Record) HasRemainingDue() bool {
	return r.DueAmount > 0 && !r.PayAfterEarning && !r.Status.IsClosed()
}

func (r Record) IsPayAfterEarningDue() bool {
	return r.DueAmount > 0 && r.PayAfterEarning && !r.Status.IsClosed()
}

func (r Record) HasFollowUpOn(day time.Time, cal Calendar) bool {
	if r.NextFollowUpDate == nil {
		return false
	}
	return cal.DayOf(*r.NextFollowUpDate).Equal(day)
}
