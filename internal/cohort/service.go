package cohort

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/core/common/validation"
	cohortDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/cohort"
)

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSlug is returned when the organization already has the slug.
	ErrDuplicateSlug = errors.New("duplicate cohort type slug")
)

type RepositoryAPI interface {
	ListCohortTypes(ctx context.Context, orgID string) ([]*cohortDatamodel.CohortType, error)
	GetCohortTypeBySlug(ctx context.Context, orgID, slug string) (*cohortDatamodel.CohortType, error)
	CreateCohortType(ctx context.Context, c *cohortDatamodel.CohortType) error
	ListBatches(ctx context.Context, orgID, cohortTypeID string) ([]*cohortDatamodel.CohortBatch, error)
	GetBatch(ctx context.Context, orgID, batchID string) (*cohortDatamodel.CohortBatch, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListCohortTypes returns the organization's active cohort types by name.
func (s *Service) ListCohortTypes(ctx context.Context, orgID string) ([]*CohortType, error) {
	rows, err := s.repo.ListCohortTypes(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list cohort types: %w", err)
	}
	out := make([]*CohortType, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// MenuCohortTypes feeds the dynamic children of the cohort menu.
func (s *Service) MenuCohortTypes(ctx context.Context, orgID string) ([]access.CohortType, error) {
	types, err := s.ListCohortTypes(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]access.CohortType, 0, len(types))
	for _, t := range types {
		out = append(out, t.MenuItem())
	}
	return out, nil
}

func (s *Service) CreateCohortType(ctx context.Context, subject access.Subject, name string) (*CohortType, error) {
	if !access.NewResolver(subject, nil, s.logger).CanManageCohorts() {
		return nil, internal.ErrPermissionDenied
	}

	ct := NewCohortType(subject.OrganizationID, name)

	v := validation.NewValidator()
	v.Field("name", ct.Name).Required().MaxLength(120)
	v.Field("slug", ct.Slug).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	row := ToDataModel(ct)
	if err := s.repo.CreateCohortType(ctx, row); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return nil, internal.NewConflictError("cohort type already exists", internal.ErrCodeValidationFailed)
		}
		return nil, fmt.Errorf("create cohort type: %w", err)
	}

	s.logger.Info("cohort type created", "org_id", subject.OrganizationID, "slug", row.Slug)
	return FromDataModel(row), nil
}

func (s *Service) ListBatches(ctx context.Context, orgID, slug string) ([]*Batch, error) {
	ct, err := s.repo.GetCohortTypeBySlug(ctx, orgID, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("Cohort type not found", internal.ErrCodeBatchNotFound)
		}
		return nil, fmt.Errorf("get cohort type: %w", err)
	}

	rows, err := s.repo.ListBatches(ctx, orgID, ct.ID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	out := make([]*Batch, 0, len(rows))
	for _, row := range rows {
		out = append(out, BatchFromDataModel(row))
	}
	return out, nil
}

// GetBatch returns the batch only if it belongs to orgID.
func (s *Service) GetBatch(ctx context.Context, orgID, batchID string) (*Batch, error) {
	row, err := s.repo.GetBatch(ctx, orgID, batchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return BatchFromDataModel(row), nil
}
