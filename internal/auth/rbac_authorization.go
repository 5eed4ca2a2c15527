package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/transport"
)

// DenialRecorder receives the key of every request the gate rejects.
type DenialRecorder interface {
	ObserveDenied(key string)
}

type RBACAuthorization struct {
	*transport.BaseHandler
	checker PermissionChecker
	denials DenialRecorder
}

func NewRBACAuthorization(checker PermissionChecker, denials DenialRecorder, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		checker:     checker,
		denials:     denials,
	}
}

func (ra *RBACAuthorization) gate(label string, denied *internal.AppError, allow func(access.Subject) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := ra.Subject(w, r)
			if !ok {
				ra.Logger.Warn("authorization check failed: subject not found in context")
				return
			}

			if !allow(subject) {
				ra.Logger.WarnContext(r.Context(), "access denied",
					"organization_id", subject.OrganizationID,
					"user_id", subject.UserID,
					"role", subject.Role,
					"required", label)
				if ra.denials != nil {
					ra.denials.ObserveDenied(label)
				}
				ra.WriteAppError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Require gates a route on a permission key, the same key the menu uses.
func (ra *RBACAuthorization) Require(key access.Key) func(http.Handler) http.Handler {
	return ra.gate(string(key), internal.ErrPermissionDenied, func(s access.Subject) bool {
		return ra.checker.HasPermission(s, key)
	})
}

// RequireModule rejects requests when the organization has slug switched off.
func (ra *RBACAuthorization) RequireModule(slug string) func(http.Handler) http.Handler {
	return ra.gate("module:"+slug, internal.ErrModuleDisabled, func(s access.Subject) bool {
		return ra.checker.ModuleEnabled(s, slug)
	})
}

func (ra *RBACAuthorization) RequireSuperAdmin() func(http.Handler) http.Handler {
	return ra.gate("super_admin", internal.ErrPermissionDenied, func(s access.Subject) bool {
		return s.IsSuperAdmin
	})
}

// RequireOrganizationAdmin gates member and permission administration.
func (ra *RBACAuthorization) RequireOrganizationAdmin() func(http.Handler) http.Handler {
	return ra.gate("organization_admin", internal.ErrPermissionDenied, func(s access.Subject) bool {
		return ra.checker.CanManageOrganization(s)
	})
}
