package postgres

import (
	"context"
	"errors"
	"time"

	emiDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/emi"
	enrollmentDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/enrollment"
	"github.com/frahmantamala/sales-crm/internal/emi"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EMIRepository struct {
	db *gorm.DB
}

func NewEMIRepository(db *gorm.DB) emi.Repository {
	return &EMIRepository{db: db}
}

func (r *EMIRepository) GetStudent(ctx context.Context, orgID, studentID string) (*enrollmentDatamodel.CohortStudent, error) {
	return findStudent(r.db.WithContext(ctx), orgID, studentID)
}

func (r *EMIRepository) ListPayments(ctx context.Context, orgID, studentID string) ([]*emiDatamodel.Payment, error) {
	var rows []*emiDatamodel.Payment
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND student_id = ?", orgID, studentID).
		Order("paid_at DESC").Order("reference DESC").
		Find(&rows).Error
	return rows, err
}

// RecordPayment locks the student row for the length of the transaction.
func (r *EMIRepository) RecordPayment(ctx context.Context, orgID, studentID string, apply emi.ApplyFunc) (*emiDatamodel.Payment, *enrollmentDatamodel.CohortStudent, error) {
	var (
		payment *emiDatamodel.Payment
		student *enrollmentDatamodel.CohortStudent
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		student, err = findStudent(tx.Clauses(clause.Locking{Strength: "UPDATE"}), orgID, studentID)
		if err != nil {
			return err
		}

		payment, err = apply(student)
		if err != nil {
			return err
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		return tx.Model(&enrollmentDatamodel.CohortStudent{}).
			Where("organization_id = ? AND id = ?", orgID, studentID).
			Updates(map[string]interface{}{
				"cash_received": student.CashReceived,
				"due_amount":    student.DueAmount,
				"updated_at":    time.Now(),
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, student, nil
}

func findStudent(db *gorm.DB, orgID, studentID string) (*enrollmentDatamodel.CohortStudent, error) {
	var s enrollmentDatamodel.CohortStudent
	if err := db.Where("organization_id = ? AND id = ?", orgID, studentID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emi.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
