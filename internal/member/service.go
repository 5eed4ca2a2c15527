package member

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	userDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/user"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, userID string) (*userDatamodel.User, error)
}

// CohortSource supplies the live cohort types for the dynamic menu.
type CohortSource interface {
	MenuCohortTypes(ctx context.Context, orgID string) ([]access.CohortType, error)
}

type Service struct {
	repo    Repository
	cohorts CohortSource
	routes  access.RouteTable
	menu    []access.MenuEntry
	logger  *slog.Logger
}

func NewService(repo Repository, cohorts CohortSource, routes access.RouteTable, logger *slog.Logger) *Service {
	if routes == nil {
		routes = access.DefaultRoutes()
	}
	return &Service{
		repo:    repo,
		cohorts: cohorts,
		routes:  routes,
		menu:    access.DefaultMenu(),
		logger:  logger,
	}
}

func (s *Service) resolver(subject access.Subject) *access.Resolver {
	return access.NewResolver(subject, s.routes, s.logger)
}

// Me builds the member's profile, effective keys, menu and landing route.
func (s *Service) Me(ctx context.Context, subject access.Subject) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, subject.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	menu, err := s.Menu(ctx, subject)
	if err != nil {
		return nil, err
	}

	r := s.resolver(subject)
	return &Profile{
		UserID:         u.ID,
		Email:          u.Email,
		Name:           u.Name,
		OrganizationID: subject.OrganizationID,
		Role:           subject.Role,
		IsSuperAdmin:   subject.IsSuperAdmin,
		Permissions:    r.EffectiveKeys(),
		Modules:        subject.Modules.Slugs(),
		Menu:           menu,
		Landing:        r.LandingRoute(),
	}, nil
}

// Menu merges the live cohort types into the default menu and prunes it for
// the subject.
func (s *Service) Menu(ctx context.Context, subject access.Subject) ([]access.MenuEntry, error) {
	r := s.resolver(subject)

	var types []access.CohortType
	if subject.OrganizationID != "" && s.cohorts != nil {
		var err error
		types, err = s.cohorts.MenuCohortTypes(ctx, subject.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("load cohort types: %w", err)
		}
	}

	children := access.CohortTypeEntries(types, r.CanManageCohorts())
	def := access.MergeDynamic(s.menu, access.DynamicCohortTypes, children, nil)
	return r.BuildMenu(def), nil
}

func (s *Service) ResolveRoute(subject access.Subject, path string) RouteResponse {
	return RouteResponse{
		RouteDecision: s.resolver(subject).ResolveAccessibleRoute(path),
		From:          path,
	}
}
