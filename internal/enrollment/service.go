package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/auth"
	"github.com/frahmantamala/sales-crm/internal/cohort"
	enrollmentDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/enrollment"
	"github.com/frahmantamala/sales-crm/internal/core/events"
	"github.com/frahmantamala/sales-crm/internal/roster"
)

var (
	ErrNotFound = errors.New("student not found")
	// ErrStatusChanged is returned when the row no longer has the expected status.
	ErrStatusChanged = errors.New("student status changed concurrently")
)

type Repository interface {
	ListByBatch(ctx context.Context, orgID, batchID string, closerID *string) ([]StudentRow, error)
	ListAppointments(ctx context.Context, orgID string, closerID *string) ([]AppointmentRow, error)
	GetStudent(ctx context.Context, orgID, studentID string) (*enrollmentDatamodel.CohortStudent, error)
	UpdateStudentStatus(ctx context.Context, orgID, studentID, from, to string) error
}

type BatchLookup interface {
	GetBatch(ctx context.Context, orgID, batchID string) (*cohort.Batch, error)
}

type CalendarSource interface {
	Calendar(ctx context.Context, orgID string) (roster.Calendar, error)
}

type RosterObserver interface {
	ObserveRosterFiltered(n int)
}

type Service struct {
	repo      Repository
	batches   BatchLookup
	calendars CalendarSource
	policy    auth.RecordPolicy
	publisher events.Publisher
	observer  RosterObserver
	logger    *slog.Logger
}

func NewService(repo Repository, batches BatchLookup, calendars CalendarSource, publisher events.Publisher, observer RosterObserver, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		batches:   batches,
		calendars: calendars,
		publisher: publisher,
		observer:  observer,
		logger:    logger,
	}
}

func (s *Service) closerScope(subject access.Subject) *string {
	if s.policy.ScopedToCloser(subject) {
		id := subject.UserID
		return &id
	}
	return nil
}

// Roster returns the batch's students matching q plus totals over every
// student the subject may see.
func (s *Service) Roster(ctx context.Context, subject access.Subject, batchID string, q RosterQuery) (*RosterResponse, error) {
	if _, err := s.batches.GetBatch(ctx, subject.OrganizationID, batchID); err != nil {
		return nil, err
	}

	cal, params, err := s.prepare(ctx, subject.OrganizationID, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByBatch(ctx, subject.OrganizationID, batchID, s.closerScope(subject))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	records := make([]roster.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}

	return s.respond(records, params, cal), nil
}

// Appointments is the roster view over call appointments.
func (s *Service) Appointments(ctx context.Context, subject access.Subject, q RosterQuery) (*RosterResponse, error) {
	cal, params, err := s.prepare(ctx, subject.OrganizationID, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAppointments(ctx, subject.OrganizationID, s.closerScope(subject))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	records := make([]roster.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}

	return s.respond(records, params, cal), nil
}

func (s *Service) prepare(ctx context.Context, orgID string, q RosterQuery) (roster.Calendar, roster.FilterParams, error) {
	cal, err := s.calendars.Calendar(ctx, orgID)
	if err != nil {
		return roster.Calendar{}, roster.FilterParams{}, err
	}
	params, err := q.FilterParams(cal)
	if err != nil {
		return roster.Calendar{}, roster.FilterParams{}, err
	}
	return cal, params, nil
}

func (s *Service) respond(records []roster.Record, params roster.FilterParams, cal roster.Calendar) *RosterResponse {
	filtered := roster.Filter(records, params, cal)
	if s.observer != nil {
		s.observer.ObserveRosterFiltered(len(filtered))
	}
	return &RosterResponse{
		Records: filtered,
		Count:   len(filtered),
		Totals:  roster.ComputeTotals(records, cal),
	}
}

func (s *Service) Refund(ctx context.Context, subject access.Subject, studentID string) (*StatusChange, error) {
	return s.transition(ctx, subject, studentID, roster.StatusRefunded)
}

func (s *Service) Discontinue(ctx context.Context, subject access.Subject, studentID string) (*StatusChange, error) {
	return s.transition(ctx, subject, studentID, roster.StatusDiscontinued)
}

// transition moves an open student to a closed status. Closed students never
// transition again.
func (s *Service) transition(ctx context.Context, subject access.Subject, studentID string, to roster.Status) (*StatusChange, error) {
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

	from := roster.Status(student.Status)
	if from.IsClosed() {
		return nil, internal.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStudentStatus(ctx, subject.OrganizationID, studentID, string(from), string(to)); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, internal.ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("update student status: %w", err)
	}

	s.logger.Info("student status changed",
		"org_id", subject.OrganizationID,
		"student_id", studentID,
		"from", from,
		"to", to,
		"changed_by", subject.UserID)

	if s.publisher != nil {
		e := events.NewStudentStatusChangedEvent(subject.OrganizationID, studentID, string(from), string(to), subject.UserID)
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
		}
	}

	return &StatusChange{StudentID: studentID, From: from, To: to}, nil
}
