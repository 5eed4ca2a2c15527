package auth

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

// RecordPolicy decides which roster records a member may see and act on.
// Sales reps are closers: they only work their own records.
type RecordPolicy struct{}

// ScopedToCloser reports whether subject only sees records they closed.
func (RecordPolicy) ScopedToCloser(s access.Subject) bool {
	return !s.IsSuperAdmin && s.Role == access.RoleSalesRep
}

// CanActOn checks a single record whose closer is closerID.
func (p RecordPolicy) CanActOn(s access.Subject, closerID *string) error {
	if s.UserID == "" && !s.IsSuperAdmin {
		return internal.ErrUnauthorizedAccess
	}
	if !p.ScopedToCloser(s) {
		return nil
	}
	if closerID != nil && *closerID == s.UserID {
		return nil
	}
	return internal.ErrUnauthorizedAccess
}

// RequireRecordAccess runs check against the authenticated subject before the
// handler. AppErrors from check are rendered as-is.
func RequireRecordAccess(check func(s access.Subject, r *http.Request) error) func(next http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := base.Subject(w, r)
			if !ok {
				return
			}
			if err := check(s, r); err != nil {
				base.HandleServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCanActOnStudent looks up the student's closer and applies the policy.
// Students outside the subject's organization are reported as not found.
func RequireCanActOnStudent(db *sqlx.DB, policy RecordPolicy) func(next http.Handler) http.Handler {
	return RequireRecordAccess(func(s access.Subject, r *http.Request) error {
		id := chi.URLParam(r, "id")
		if id == "" {
			return internal.ErrStudentNotFound
		}

		var closerID sql.NullString
		err := db.GetContext(r.Context(), &closerID,
			"SELECT closer_id FROM cohort_students WHERE id = $1 AND organization_id = $2", id, s.OrganizationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return internal.ErrStudentNotFound
			}
			return err
		}

		var closer *string
		if closerID.Valid {
			closer = &closerID.String
		}
		return policy.CanActOn(s, closer)
	})
}
