package emi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/auth"
	"github.com/frahmantamala/sales-crm/internal/core/common/validation"
	emiDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/emi"
	enrollmentDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/enrollment"
	"github.com/frahmantamala/sales-crm/internal/core/events"
	"github.com/frahmantamala/sales-crm/internal/roster"
)

var ErrNotFound = errors.New("student not found")

// ApplyFunc receives the locked student, updates its balance in place and
// returns the payment row to insert.
type ApplyFunc func(student *enrollmentDatamodel.CohortStudent) (*emiDatamodel.Payment, error)

type Repository interface {
	GetStudent(ctx context.Context, orgID, studentID string) (*enrollmentDatamodel.CohortStudent, error)
	ListPayments(ctx context.Context, orgID, studentID string) ([]*emiDatamodel.Payment, error)
	// RecordPayment runs apply and stores the payment together with the
	// student's new balance in one transaction.
	RecordPayment(ctx context.Context, orgID, studentID string, apply ApplyFunc) (*emiDatamodel.Payment, *enrollmentDatamodel.CohortStudent, error)
}

type Service struct {
	repo      Repository
	policy    auth.RecordPolicy
	publisher events.Publisher
	logger    *slog.Logger
	Now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		Now:       time.Now,
	}
}

func (s *Service) RecordInstallment(ctx context.Context, subject access.Subject, studentID string, req RecordInstallmentRequest) (*Receipt, error) {
	now := s.Now()
	req = req.Normalize(now)
	if appErr := validation.ValidateNote(req.Note); appErr != nil {
		return nil, appErr
	}

	payment, student, err := s.repo.RecordPayment(ctx, subject.OrganizationID, studentID, func(st *enrollmentDatamodel.CohortStudent) (*emiDatamodel.Payment, error) {
		if err := s.policy.CanActOn(subject, st.CloserID); err != nil {
			return nil, err
		}
		if roster.Status(st.Status).IsClosed() {
			return nil, internal.NewValidationError("Student is closed and cannot take payments", internal.ErrCodeInvalidStatusTransition)
		}
		if appErr := validation.ValidateInstallment(req.Amount, st.DueAmount, *req.PaidAt, now); appErr != nil {
			return nil, appErr
		}

		st.CashReceived += req.Amount
		st.DueAmount = roster.ComputeDue(st.OfferAmount, st.CashReceived)

		return &emiDatamodel.Payment{
			OrganizationID: subject.OrganizationID,
			StudentID:      st.ID,
			Amount:         req.Amount,
			Reference:      NewReference(now),
			Note:           req.Note,
			PaidAt:         *req.PaidAt,
			RecordedBy:     subject.UserID,
		}, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrStudentNotFound
		}
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to record installment", "error", err, "org_id", subject.OrganizationID, "student_id", studentID)
		return nil, fmt.Errorf("record installment: %w", err)
	}

	s.logger.Info("installment recorded",
		"org_id", subject.OrganizationID,
		"student_id", studentID,
		"reference", payment.Reference,
		"amount", payment.Amount,
		"due_amount", student.DueAmount)

	if s.publisher != nil {
		e := events.NewEMIRecordedEvent(subject.OrganizationID, studentID, payment.Reference, payment.Amount, student.CashReceived, student.DueAmount)
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
		}
	}

	return &Receipt{
		Installment:  FromDataModel(payment),
		CashReceived: student.CashReceived,
		DueAmount:    student.DueAmount,
	}, nil
}

func (s *Service) ListInstallments(ctx context.Context, subject access.Subject, studentID string) (*InstallmentsResponse, error) {
	student, err := s.repo.GetStudent(ctx, subject.OrganizationID, studentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	if err := s.policy.CanActOn(subject, student.CloserID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListPayments(ctx, subject.OrganizationID, studentID)
	if err != nil {
		s.logger.Error("failed to list installments", "error", err, "student_id", studentID)
		return nil, fmt.Errorf("list installments: %w", err)
	}

	return &InstallmentsResponse{
		Installments: FromDataModelSlice(rows),
		CashReceived: student.CashReceived,
		DueAmount:    student.DueAmount,
	}, nil
}
