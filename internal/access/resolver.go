package access

import (
	"errors"
	"log/slog"

	"github.com/frahmantamala/sales-crm/pkg/logger"
)

// ErrNoAccessibleRoute is the terminal state reached when a member cannot open
// any route in the table. Callers should render a safe empty state.
var ErrNoAccessibleRoute = errors.New("no accessible route")

type Outcome string

const (
	OutcomeStay              Outcome = "stay"
	OutcomeRedirect          Outcome = "redirect"
	OutcomeNoAccessibleRoute Outcome = "no_accessible_route"
)

type RouteDecision struct {
	Outcome Outcome `json:"outcome"`
	Path    string  `json:"path,omitempty"`
}

// Target returns the path to show and false when no route is reachable.
func (d RouteDecision) Target() (string, bool) {
	if d.Outcome == OutcomeNoAccessibleRoute {
		return "", false
	}
	return d.Path, true
}

func (d RouteDecision) Err() error {
	if d.Outcome == OutcomeNoAccessibleRoute {
		return ErrNoAccessibleRoute
	}
	return nil
}

// Resolver answers permission, menu and redirect questions for one subject.
type Resolver struct {
	subject Subject
	routes  RouteTable
	logger  *slog.Logger
}

func NewResolver(subject Subject, routes RouteTable, lg *slog.Logger) *Resolver {
	if routes == nil {
		routes = DefaultRoutes()
	}
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Resolver{subject: subject, routes: routes, logger: lg}
}

func (r *Resolver) Subject() Subject {
	return r.subject
}

// HasPermission reports whether the subject may use key. Super admins and
// organization admins pass every check; everyone else needs the key in their
// grant. Unknown keys and unknown roles are denied.
func (r *Resolver) HasPermission(key Key) bool {
	if r.subject.IsSuperAdmin {
		return true
	}
	if r.subject.Role == RoleAdmin {
		return true
	}
	if !r.subject.Role.IsKnown() || !IsKnownKey(key) {
		return false
	}
	return r.subject.Grant.Allows(key)
}

// ModuleEnabled reports whether the subject's organization has slug switched on.
func (r *Resolver) ModuleEnabled(slug string) bool {
	return r.subject.Modules.Enabled(slug)
}

// EffectiveKeys lists every key that HasPermission allows, in AllKeys order.
func (r *Resolver) EffectiveKeys() []Key {
	out := make([]Key, 0, len(allKeys))
	for _, k := range allKeys {
		if r.HasPermission(k) {
			out = append(out, k)
		}
	}
	return out
}

// CanManageCohorts is true for members allowed to create cohort types.
func (r *Resolver) CanManageCohorts() bool {
	if r.subject.IsSuperAdmin {
		return true
	}
	return r.subject.Role == RoleAdmin || r.subject.Role == RoleManager
}

// CanManageOrganization is true for members allowed to edit roles, member
// permissions and organization settings.
func (r *Resolver) CanManageOrganization() bool {
	return r.subject.IsSuperAdmin || r.subject.Role == RoleAdmin
}

// ResolveAccessibleRoute decides where the subject should be when they are on
// currentPath. Unmapped or permitted paths stay put. Otherwise the route table
// is scanned in order and the first permitted route wins.
func (r *Resolver) ResolveAccessibleRoute(currentPath string) RouteDecision {
	key, mapped := r.routes.Lookup(currentPath)
	if !mapped || r.HasPermission(key) {
		return RouteDecision{Outcome: OutcomeStay, Path: currentPath}
	}
	return r.firstAccessible(currentPath)
}

// LandingRoute is the route a freshly signed-in subject should open.
func (r *Resolver) LandingRoute() RouteDecision {
	if r.subject.IsSuperAdmin {
		return RouteDecision{Outcome: OutcomeRedirect, Path: SuperAdminRoute}
	}
	return r.firstAccessible("")
}

func (r *Resolver) firstAccessible(from string) RouteDecision {
	for _, rule := range r.routes {
		if r.HasPermission(rule.Key) {
			return RouteDecision{Outcome: OutcomeRedirect, Path: rule.Path}
		}
	}

	r.logger.Warn("no accessible route for member",
		"organization_id", r.subject.OrganizationID,
		"user_id", r.subject.UserID,
		"role", r.subject.Role,
		"from", from)

	return RouteDecision{Outcome: OutcomeNoAccessibleRoute}
}
