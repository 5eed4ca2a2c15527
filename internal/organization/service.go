package organization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	orgDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/sales-crm/internal/core/events"
	"github.com/frahmantamala/sales-crm/internal/roster"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

type RepositoryAPI interface {
	GetUser(ctx context.Context, userID string) (*userDatamodel.User, error)
	GetOrganization(ctx context.Context, orgID string) (*orgDatamodel.Organization, error)
	ListOrganizations(ctx context.Context) ([]*orgDatamodel.Organization, error)
	GetMember(ctx context.Context, orgID, userID string) (*orgDatamodel.Member, error)
	FirstMembership(ctx context.Context, userID string) (*orgDatamodel.Member, error)
	ListMembers(ctx context.Context, orgID string) ([]MemberRecord, error)
	UpdateMemberRole(ctx context.Context, orgID, userID, role string) error
	ListModules(ctx context.Context, orgID string) ([]*orgDatamodel.Module, error)
	UpsertModule(ctx context.Context, orgID, slug string, enabled bool) error
	ListMemberPermissions(ctx context.Context, orgID, userID string) ([]*orgDatamodel.MemberPermission, error)
	ReplaceMemberPermissions(ctx context.Context, orgID, userID string, rows []*orgDatamodel.MemberPermission) error
	DeleteMemberPermissions(ctx context.Context, orgID, userID string) error
}

type Service struct {
	repo            RepositoryAPI
	publisher       events.Publisher
	defaultTimezone string
	logger          *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, defaultTimezone string, logger *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		publisher:       publisher,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// LoadSubject assembles everything the access resolver needs for userID acting
// in orgID. Super admins do not need a membership.
func (s *Service) LoadSubject(ctx context.Context, orgID, userID string) (access.Subject, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return access.Subject{}, internal.ErrMemberNotFound
		}
		return access.Subject{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return access.Subject{}, internal.ErrUserInactive
	}

	subject := access.Subject{
		OrganizationID: orgID,
		UserID:         user.ID,
		Email:          user.Email,
		IsSuperAdmin:   user.IsSuperAdmin,
	}
	if orgID == "" {
		if !user.IsSuperAdmin {
			return access.Subject{}, internal.ErrMemberNotFound
		}
		return subject, nil
	}

	member, err := s.repo.GetMember(ctx, orgID, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		if !user.IsSuperAdmin {
			return access.Subject{}, internal.ErrMemberNotFound
		}
	case err != nil:
		return access.Subject{}, fmt.Errorf("load membership: %w", err)
	default:
		subject.Role = access.ParseRole(member.Role)
	}

	rows, err := s.repo.ListMemberPermissions(ctx, orgID, userID)
	if err != nil {
		return access.Subject{}, fmt.Errorf("load member permissions: %w", err)
	}
	subject.Grant = access.ResolveGrant(permissionSource(subject.Role, rows))

	modules, err := s.enabledModules(ctx, orgID)
	if err != nil {
		return access.Subject{}, err
	}
	subject.Modules = modules

	return subject, nil
}

func (s *Service) enabledModules(ctx context.Context, orgID string) (access.ModuleSet, error) {
	rows, err := s.repo.ListModules(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	var slugs []string
	for _, row := range rows {
		if row.Enabled {
			slugs = append(slugs, row.Slug)
		}
	}
	return access.NewModuleSet(slugs...), nil
}

// DefaultOrganization picks the organization a user lands in after login.
// Super admins without a membership get an empty id.
func (s *Service) DefaultOrganization(ctx context.Context, userID string) (string, error) {
	member, err := s.repo.FirstMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find membership: %w", err)
	}
	return member.OrganizationID, nil
}

// Calendar returns the organization-local calendar used for follow-up and
// date-range filtering.
func (s *Service) Calendar(ctx context.Context, orgID string) (roster.Calendar, error) {
	zone := s.defaultTimezone
	if orgID != "" {
		org, err := s.repo.GetOrganization(ctx, orgID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return roster.Calendar{}, fmt.Errorf("load organization: %w", err)
		}
		if org != nil && org.Timezone != "" {
			zone = org.Timezone
		}
	}
	return roster.LoadCalendar(zone), nil
}

func (s *Service) ListMembers(ctx context.Context, orgID string) ([]*Member, error) {
	records, err := s.repo.ListMembers(ctx, orgID)
	if err != nil {
		s.logger.Error("failed to list members", "error", err, "org_id", orgID)
		return nil, err
	}

	members := make([]*Member, 0, len(records))
	for _, rec := range records {
		rows, err := s.repo.ListMemberPermissions(ctx, orgID, rec.UserID)
		if err != nil {
			return nil, fmt.Errorf("load member permissions: %w", err)
		}
		role := access.ParseRole(rec.Role)
		members = append(members, &Member{
			UserID:   rec.UserID,
			Email:    rec.Email,
			Name:     rec.Name,
			Role:     role,
			IsActive: rec.IsActive,
			Override: len(rows) > 0,
			Keys:     access.ResolveGrant(permissionSource(role, rows)).Keys(),
		})
	}
	return members, nil
}

// ReplaceMemberPermissions stores keys as the member's complete enabled set.
// The override replaces the role default; it is never merged with it.
func (s *Service) ReplaceMemberPermissions(ctx context.Context, orgID, userID string, keys []string) error {
	parsed, appErr := parseKeys(keys)
	if appErr != nil {
		return appErr
	}

	if _, err := s.member(ctx, orgID, userID); err != nil {
		return err
	}

	if err := s.repo.ReplaceMemberPermissions(ctx, orgID, userID, overrideRows(orgID, userID, parsed)); err != nil {
		s.logger.Error("failed to replace member permissions", "error", err, "org_id", orgID, "user_id", userID)
		return err
	}

	s.logger.Info("member permissions replaced", "org_id", orgID, "user_id", userID, "keys", keys)
	s.publish(ctx, events.NewMemberPermissionsUpdatedEvent(orgID, userID, keyStrings(parsed), false))
	return nil
}

// ResetMemberPermissions drops the override so the role default applies again.
func (s *Service) ResetMemberPermissions(ctx context.Context, orgID, userID string) error {
	if _, err := s.member(ctx, orgID, userID); err != nil {
		return err
	}

	if err := s.repo.DeleteMemberPermissions(ctx, orgID, userID); err != nil {
		s.logger.Error("failed to reset member permissions", "error", err, "org_id", orgID, "user_id", userID)
		return err
	}

	s.logger.Info("member permissions reset to role default", "org_id", orgID, "user_id", userID)
	s.publish(ctx, events.NewMemberPermissionsUpdatedEvent(orgID, userID, nil, true))
	return nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, orgID, userID, role string) error {
	parsed := access.ParseRole(role)
	if !parsed.IsKnown() {
		return internal.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", role), internal.ErrCodeInvalidRole)
	}

	if _, err := s.member(ctx, orgID, userID); err != nil {
		return err
	}

	if err := s.repo.UpdateMemberRole(ctx, orgID, userID, string(parsed)); err != nil {
		s.logger.Error("failed to update member role", "error", err, "org_id", orgID, "user_id", userID)
		return err
	}

	s.logger.Info("member role updated", "org_id", orgID, "user_id", userID, "role", parsed)
	s.publish(ctx, events.NewMemberRoleUpdatedEvent(orgID, userID, string(parsed)))
	return nil
}

func (s *Service) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	orgs, err := s.repo.ListOrganizations(ctx)
	if err != nil {
		s.logger.Error("failed to list organizations", "error", err)
		return nil, err
	}
	return FromDataModelSlice(orgs), nil
}

// ListModules reports every known module for orgID, including ones that were
// never toggled.
func (s *Service) ListModules(ctx context.Context, orgID string) ([]Module, error) {
	if err := s.organizationExists(ctx, orgID); err != nil {
		return nil, err
	}
	enabled, err := s.enabledModules(ctx, orgID)
	if err != nil {
		return nil, err
	}

	all := access.AllModules()
	modules := make([]Module, len(all))
	for i, slug := range all {
		modules[i] = Module{Slug: slug, Enabled: enabled.Enabled(slug)}
	}
	return modules, nil
}

func (s *Service) SetModule(ctx context.Context, orgID, slug string, enabled bool) error {
	if !access.IsKnownModule(slug) {
		return internal.NewValidationError(fmt.Sprintf("unknown module %q", slug), internal.ErrCodeModuleUnknown)
	}
	if err := s.organizationExists(ctx, orgID); err != nil {
		return err
	}

	if err := s.repo.UpsertModule(ctx, orgID, slug, enabled); err != nil {
		s.logger.Error("failed to toggle module", "error", err, "org_id", orgID, "slug", slug)
		return err
	}

	s.logger.Info("module toggled", "org_id", orgID, "slug", slug, "enabled", enabled)
	s.publish(ctx, events.NewModuleToggledEvent(orgID, slug, enabled))
	return nil
}

func (s *Service) member(ctx context.Context, orgID, userID string) (*orgDatamodel.Member, error) {
	m, err := s.repo.GetMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, fmt.Errorf("load membership: %w", err)
	}
	return m, nil
}

func (s *Service) organizationExists(ctx context.Context, orgID string) error {
	if _, err := s.repo.GetOrganization(ctx, orgID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrOrganizationNotFound
		}
		return fmt.Errorf("load organization: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func parseKeys(keys []string) ([]access.Key, *internal.AppError) {
	parsed := make([]access.Key, 0, len(keys))
	for _, k := range keys {
		key := access.Key(k)
		if !access.IsKnownKey(key) {
			return nil, internal.NewValidationFieldError("keys", fmt.Sprintf("unknown permission key %q", k), internal.ErrCodeInvalidPermissionKey)
		}
		parsed = append(parsed, key)
	}
	return parsed, nil
}

func keyStrings(keys []access.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
