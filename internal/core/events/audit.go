package events

import (
	"context"
	"log/slog"
)

// AuditedEventTypes are the CRM events written to the audit log.
var AuditedEventTypes = []string{
	EventTypeMemberPermissionsUpdated,
	EventTypeMemberRoleUpdated,
	EventTypeModuleToggled,
	EventTypeStudentStatusChanged,
	EventTypeEMIRecorded,
}

// SubscribeAuditLog logs every audited event with its organization and payload.
func SubscribeAuditLog(bus *EventBus, lg *slog.Logger) {
	for _, t := range AuditedEventTypes {
		bus.Subscribe(t, auditHandler(lg))
	}
}

func auditHandler(lg *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		attrs := []any{
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload(),
		}
		if o, ok := event.(interface{ Organization() string }); ok {
			attrs = append(attrs, "org_id", o.Organization())
		}
		lg.InfoContext(ctx, "audit", attrs...)
		return nil
	}
}
