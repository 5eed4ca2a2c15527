package postgres

import (
	"context"
	"errors"
	"time"

	enrollmentDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/enrollment"
	"github.com/frahmantamala/sales-crm/internal/enrollment"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) enrollment.Repository {
	return &EnrollmentRepository{db: db}
}

// ListByBatch returns the batch's students newest conversion first. A non-nil
// closerID limits the list to that closer's students.
func (r *EnrollmentRepository) ListByBatch(ctx context.Context, orgID, batchID string, closerID *string) ([]enrollment.StudentRow, error) {
	q := r.db.WithContext(ctx).
		Table("cohort_students AS s").
		Select("s.id, s.contact_name, s.email, s.phone, s.status, s.offer_amount, s.cash_received, s.due_amount, " +
			"s.pay_after_earning, s.next_follow_up_date, s.closer_id, u.name AS closer_name, s.converted_at").
		Joins("LEFT JOIN users u ON u.id = s.closer_id").
		Where("s.organization_id = ? AND s.batch_id = ?", orgID, batchID)
	if closerID != nil {
		q = q.Where("s.closer_id = ?", *closerID)
	}

	var rows []enrollment.StudentRow
	err := q.Order("s.converted_at DESC").Order("s.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *EnrollmentRepository) ListAppointments(ctx context.Context, orgID string, closerID *string) ([]enrollment.AppointmentRow, error) {
	q := r.db.WithContext(ctx).
		Table("call_appointments AS a").
		Select("a.id, a.contact_name, a.email, a.phone, a.status, a.scheduled_date, a.offer_amount, a.cash_received, " +
			"a.due_amount, a.pay_after_earning, a.next_follow_up_date, a.closer_id, u.name AS closer_name").
		Joins("LEFT JOIN users u ON u.id = a.closer_id").
		Where("a.organization_id = ?", orgID)
	if closerID != nil {
		q = q.Where("a.closer_id = ?", *closerID)
	}

	var rows []enrollment.AppointmentRow
	err := q.Order("a.scheduled_date DESC").Order("a.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *EnrollmentRepository) GetStudent(ctx context.Context, orgID, studentID string) (*enrollmentDatamodel.CohortStudent, error) {
	var s enrollmentDatamodel.CohortStudent
	err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID, studentID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, enrollment.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateStudentStatus only succeeds while the row still has status from.
func (r *EnrollmentRepository) UpdateStudentStatus(ctx context.Context, orgID, studentID, from, to string) error {
	res := r.db.WithContext(ctx).
		Model(&enrollmentDatamodel.CohortStudent{}).
		Where("organization_id = ? AND id = ? AND status = ?", orgID, studentID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return enrollment.ErrStatusChanged
	}
	return nil
}
