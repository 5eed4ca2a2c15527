package emi

import (
	mathrand "math/rand"
	"sync"
	"time"

	emiDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/emi"
	"github.com/oklog/ulid/v2"
)

// Installment is one EMI payment recorded against a student.
type Installment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Amount     int64     `json:"amount"`
	Reference  string    `json:"reference"`
	Note       string    `json:"note,omitempty"`
	PaidAt     time.Time `json:"paid_at"`
	RecordedBy string    `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Receipt is the result of recording an installment.
type Receipt struct {
	Installment  *Installment `json:"installment"`
	CashReceived int64        `json:"cash_received"`
	DueAmount    int64        `json:"due_amount"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewReference returns a sortable receipt reference.
func NewReference(at time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "EMI-" + ulid.MustNew(ulid.Timestamp(at), entropy).String()
}

func FromDataModel(p *emiDatamodel.Payment) *Installment {
	return &Installment{
		ID:         p.ID,
		StudentID:  p.StudentID,
		Amount:     p.Amount,
		Reference:  p.Reference,
		Note:       p.Note,
		PaidAt:     p.PaidAt,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}

func FromDataModelSlice(rows []*emiDatamodel.Payment) []*Installment {
	out := make([]*Installment, len(rows))
	for i, p := range rows {
		out[i] = FromDataModel(p)
	}
	return out
}
