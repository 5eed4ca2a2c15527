package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/sales-crm/internal/access"
)

type ctxKey string

const ContextSubjectKey ctxKey = "subject"

// SubjectFromContext returns the access subject the auth middleware attached
// to the request.
func SubjectFromContext(ctx context.Context) (access.Subject, bool) {
	if ctx == nil {
		return access.Subject{}, false
	}
	s, ok := ctx.Value(ContextSubjectKey).(access.Subject)
	return s, ok
}

func ContextWithSubject(ctx context.Context, s access.Subject) context.Context {
	return context.WithValue(ctx, ContextSubjectKey, s)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
