package roster_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sales-crm/internal/roster"
)

var _ = Describe("Totals", func() {
	var (
		cal   roster.Calendar
		today time.Time
	)

	BeforeEach(func() {
		cal = roster.NewCalendar(time.UTC)
		cal.Now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
		today = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	})

	Context("with a pay-after-earning balance", func() {
		It("should keep it out of due but count it in the PAE amount", func() {
			records := []roster.Record{
				{ID: "1", Status: roster.StatusActive, OfferAmount: 1000, CashReceived: 500, DueAmount: 500, PayAfterEarning: true},
			}

			g := roster.ComputeGlobalTotals(records, cal)

			Expect(g.Due).To(Equal(int64(0)))
			Expect(g.PAEAmount).To(Equal(int64(500)))
			Expect(g.PAECount).To(Equal(1))
			Expect(g.DueCount).To(Equal(0))
		})
	})

	Describe("CloserBreakdown", func() {
		var records []roster.Record

		BeforeEach(func() {
			records = []roster.Record{
				{ID: "1", Status: roster.StatusConverted, CloserID: strPtr("c1"), CloserName: strPtr("Asha"), OfferAmount: 1000, CashReceived: 400, DueAmount: 600},
				{ID: "2", Status: roster.StatusActive, CloserID: strPtr("c2"), CloserName: strPtr("Vikram"), OfferAmount: 2000, CashReceived: 2000},
				{ID: "3", Status: roster.StatusActive, CloserID: strPtr("c1"), CloserName: strPtr("Asha"), OfferAmount: 1500, CashReceived: 500, DueAmount: 1000, PayAfterEarning: true},
				{ID: "4", Status: roster.StatusActive, OfferAmount: 800, CashReceived: 300, DueAmount: 500},
				{ID: "5", Status: roster.StatusRefunded, CloserID: strPtr("c2"), OfferAmount: 5000, CashReceived: 5000},
				{ID: "6", Status: roster.StatusDiscontinued, CloserID: strPtr("c3"), OfferAmount: 700, CashReceived: 100, DueAmount: 600},
			}
		})

		It("should group open records by closer and sort by cash received", func() {
			buckets := roster.CloserBreakdown(records)

			Expect(buckets).To(HaveLen(3))
			Expect(buckets[0]).To(Equal(roster.CloserBucket{CloserID: "c2", Label: "Vikram", Count: 1, Offered: 2000, Received: 2000, Due: 0}))
			Expect(buckets[1]).To(Equal(roster.CloserBucket{CloserID: "c1", Label: "Asha", Count: 2, Offered: 2500, Received: 900, Due: 600}))
			Expect(buckets[2]).To(Equal(roster.CloserBucket{CloserID: roster.ManualCloserID, Label: roster.ManualCloserLabel, Count: 1, Offered: 800, Received: 300, Due: 500}))
		})

		It("should sum to the global totals", func() {
			buckets := roster.CloserBreakdown(records)
			g := roster.ComputeGlobalTotals(records, cal)

			var offered, received, due int64
			for _, b := range buckets {
				offered += b.Offered
				received += b.Received
				due += b.Due
			}

			Expect(offered).To(Equal(g.Offered))
			Expect(received).To(Equal(g.Received))
			Expect(due).To(Equal(g.Due))
		})

		It("should keep first-seen order on ties", func() {
			tied := []roster.Record{
				{ID: "1", Status: roster.StatusActive, CloserID: strPtr("b"), CashReceived: 100},
				{ID: "2", Status: roster.StatusActive, CloserID: strPtr("a"), CashReceived: 100},
			}
			buckets := roster.CloserBreakdown(tied)
			Expect(buckets[0].CloserID).To(Equal("b"))
			Expect(buckets[1].CloserID).To(Equal("a"))
		})

		It("should label a closer by id when the name is missing", func() {
			buckets := roster.CloserBreakdown([]roster.Record{{Status: roster.StatusActive, CloserID: strPtr("c9")}})
			Expect(buckets[0].Label).To(Equal("c9"))
		})
	})

	Describe("ComputeGlobalTotals", func() {
		It("should count every bucket and follow-ups across all records", func() {
			records := []roster.Record{
				{ID: "paid", Status: roster.StatusConvertedAdvance, OfferAmount: 1000, CashReceived: 1000},
				{ID: "due", Status: roster.StatusActive, OfferAmount: 1000, CashReceived: 200, DueAmount: 800, NextFollowUpDate: timePtr(today.Add(3 * time.Hour))},
				{ID: "refunded", Status: roster.StatusRefunded, OfferAmount: 900, CashReceived: 900, NextFollowUpDate: timePtr(today)},
				{ID: "discontinued", Status: roster.StatusDiscontinued, OfferAmount: 600, DueAmount: 600},
				{ID: "pae", Status: roster.StatusActive, OfferAmount: 400, DueAmount: 400, PayAfterEarning: true},
			}

			g := roster.ComputeGlobalTotals(records, cal)

			Expect(g).To(Equal(roster.GlobalTotals{
				Offered:            2400,
				Received:           1200,
				Due:                800,
				FullPaymentCount:   1,
				DueCount:           1,
				RefundedCount:      1,
				DiscontinuedCount:  1,
				PAECount:           1,
				PAEAmount:          400,
				TodayFollowUpCount: 2,
			}))
		})

		It("should return zero totals for no records", func() {
			Expect(roster.ComputeTotals(nil, cal)).To(Equal(roster.Totals{CloserBreakdown: []roster.CloserBucket{}}))
		})
	})
})
