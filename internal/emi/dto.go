package emi

import (
	"strings"
	"time"
)

type RecordInstallmentRequest struct {
	Amount int64      `json:"amount"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	Note   string     `json:"note,omitempty"`
}

// Normalize trims the note and fills a missing payment time with now.
func (r RecordInstallmentRequest) Normalize(now time.Time) RecordInstallmentRequest {
	r.Note = strings.TrimSpace(r.Note)
	if r.PaidAt == nil {
		r.PaidAt = &now
	}
	return r
}

type InstallmentsResponse struct {
	Installments []*Installment `json:"installments"`
	CashReceived int64          `json:"cash_received"`
	DueAmount    int64          `json:"due_amount"`
}
