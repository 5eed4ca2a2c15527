package events_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sales-crm/internal/core/events"
)

var _ = Describe("SubscribeAuditLog", func() {
	It("should log audited events with their organization", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

		events.SubscribeAuditLog(bus, lg)
		for _, t := range events.AuditedEventTypes {
			Expect(bus.HandlerCount(t)).To(Equal(1))
		}

		e := events.NewStudentStatusChangedEvent("org-1", "s-1", "active", "refunded", "u-1")
		Expect(bus.PublishSync(context.Background(), e)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring(`"msg":"audit"`))
		Expect(buf.String()).To(ContainSubstring(`"org_id":"org-1"`))
		Expect(buf.String()).To(ContainSubstring(`"event_type":"student.status_changed"`))
	})
})
