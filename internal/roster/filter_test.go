package roster_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sales-crm/internal/roster"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func recordIDs(records []roster.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

var _ = Describe("Filter", func() {
	var (
		kolkata *time.Location
		cal     roster.Calendar
		today   time.Time
	)

	BeforeEach(func() {
		var err error
		kolkata, err = time.LoadLocation("Asia/Kolkata")
		Expect(err).NotTo(HaveOccurred())

		cal = roster.NewCalendar(kolkata)
		cal.Now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, kolkata) }
		today = time.Date(2026, 10, 17, 0, 0, 0, 0, kolkata)
	})

	Describe("full payment toggle", func() {
		It("should return only the fully paid record", func() {
			// Given
			records := []roster.Record{
				{ID: "a", Status: roster.StatusConvertedBeginner, OfferAmount: 1000, CashReceived: 1000, DueAmount: 0},
				{ID: "b", Status: roster.StatusActive, OfferAmount: 1000, CashReceived: 500, DueAmount: 500},
			}
			var params roster.FilterParams
			params.Activate(roster.ToggleFullPayment)

			// When
			result := roster.Filter(records, params, cal)
			totals := roster.ComputeGlobalTotals(records, cal)

			// Then
			Expect(recordIDs(result)).To(Equal([]string{"a"}))
			Expect(totals.FullPaymentCount).To(Equal(1))
		})

		It("should exclude refunded records and records with no cash", func() {
			records := []roster.Record{
				{ID: "refunded", Status: roster.StatusRefunded, CashReceived: 1000},
				{ID: "nothing-paid", Status: roster.StatusActive},
			}
			var params roster.FilterParams
			params.Activate(roster.ToggleFullPayment)

			Expect(roster.Filter(records, params, cal)).To(BeEmpty())
		})
	})

	Describe("toggle mutual exclusion", func() {
		It("should clear the previous toggle when another is activated", func() {
			var params roster.FilterParams
			params.Activate(roster.ToggleRefunded)
			params.Activate(roster.ToggleDueRemaining)

			Expect(params.Active()).To(Equal(roster.ToggleDueRemaining))

			params.Deactivate()
			Expect(params.Active()).To(Equal(roster.ToggleNone))
		})
	})

	Describe("due classification", func() {
		It("should put every open record with a balance in exactly one due bucket", func() {
			records := []roster.Record{
				{ID: "due", Status: roster.StatusActive, DueAmount: 300, PayAfterEarning: false},
				{ID: "pae", Status: roster.StatusActive, DueAmount: 500, PayAfterEarning: true},
			}
			for _, r := range records {
				Expect(r.HasRemainingDue()).NotTo(Equal(r.IsPayAfterEarningDue()))
			}

			var due, pae roster.FilterParams
			due.Activate(roster.ToggleDueRemaining)
			pae.Activate(roster.TogglePayAfterEarning)

			Expect(recordIDs(roster.Filter(records, due, cal))).To(Equal([]string{"due"}))
			Expect(recordIDs(roster.Filter(records, pae, cal))).To(Equal([]string{"pae"}))
		})
	})

	Describe("date range", func() {
		var records []roster.Record

		BeforeEach(func() {
			records = []roster.Record{
				{ID: "before", Date: time.Date(2026, 10, 9, 23, 0, 0, 0, kolkata)},
				{ID: "from", Date: time.Date(2026, 10, 10, 0, 0, 0, 0, kolkata)},
				{ID: "middle", Date: time.Date(2026, 10, 12, 14, 0, 0, 0, kolkata)},
				{ID: "to", Date: time.Date(2026, 10, 15, 23, 59, 0, 0, kolkata)},
				{ID: "after", Date: time.Date(2026, 10, 16, 0, 1, 0, 0, kolkata)},
			}
		})

		It("should include both bounds and exclude one day outside", func() {
			params := roster.FilterParams{
				DateFrom: timePtr(time.Date(2026, 10, 10, 18, 0, 0, 0, kolkata)),
				DateTo:   timePtr(time.Date(2026, 10, 15, 8, 0, 0, 0, kolkata)),
			}

			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"from", "middle", "to"}))
		})

		It("should treat a missing bound as unbounded", func() {
			params := roster.FilterParams{DateFrom: timePtr(time.Date(2026, 10, 12, 0, 0, 0, 0, kolkata))}
			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"middle", "to", "after"}))

			params = roster.FilterParams{DateTo: timePtr(time.Date(2026, 10, 10, 0, 0, 0, 0, kolkata))}
			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"before", "from"}))
		})

		It("should judge days in the organization's zone", func() {
			// 20:00 UTC on the 9th is already the 10th in Kolkata.
			records := []roster.Record{{ID: "late-utc", Date: time.Date(2026, 10, 9, 20, 0, 0, 0, time.UTC)}}
			params := roster.FilterParams{DateFrom: timePtr(time.Date(2026, 10, 10, 0, 0, 0, 0, kolkata))}

			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"late-utc"}))
		})
	})

	Describe("search", func() {
		var records []roster.Record

		BeforeEach(func() {
			records = []roster.Record{
				{ID: "1", ContactName: "Priya Sharma", Email: "priya@example.com", Phone: strPtr("+91 98765 43210")},
				{ID: "2", ContactName: "Rahul Verma", Email: "RAHUL@EXAMPLE.COM"},
				{ID: "3", ContactName: "Anil", Email: "anil@example.com", Phone: nil},
			}
		})

		It("should match name, email or phone case-insensitively", func() {
			Expect(recordIDs(roster.Filter(records, roster.FilterParams{SearchQuery: "PRIYA"}, cal))).To(Equal([]string{"1"}))
			Expect(recordIDs(roster.Filter(records, roster.FilterParams{SearchQuery: "rahul@"}, cal))).To(Equal([]string{"2"}))
			Expect(recordIDs(roster.Filter(records, roster.FilterParams{SearchQuery: "98765"}, cal))).To(Equal([]string{"1"}))
		})

		It("should match everything with an empty query", func() {
			Expect(roster.Filter(records, roster.FilterParams{}, cal)).To(HaveLen(3))
		})

		It("should treat whitespace in the query literally", func() {
			records = append(records, roster.Record{ID: "4", ContactName: "Ann Lee"}, roster.Record{ID: "5", ContactName: "Straße", Email: "s@x.de"})

			Expect(recordIDs(roster.Filter(records, roster.FilterParams{SearchQuery: " "}, cal))).To(Equal([]string{"1", "2", "4"}))
			Expect(roster.Filter(records, roster.FilterParams{SearchQuery: "n l "}, cal)).To(BeEmpty())
			Expect(recordIDs(roster.Filter(records, roster.FilterParams{SearchQuery: "ann lee"}, cal))).To(Equal([]string{"4"}))
		})

		It("should lowercase without folding", func() {
			records = append(records, roster.Record{ID: "5", ContactName: "Straße"})

			Expect(roster.Filter(records, roster.FilterParams{SearchQuery: "ss"}, cal)).To(BeEmpty())
			Expect(recordIDs(roster.Filter(records, roster.FilterParams{SearchQuery: "STRAßE"}, cal))).To(Equal([]string{"5"}))
		})

		It("should not fail on records without a phone", func() {
			Expect(roster.Filter(records, roster.FilterParams{SearchQuery: "43210"}, cal)).To(HaveLen(1))
		})
	})

	Describe("status", func() {
		var records []roster.Record

		BeforeEach(func() {
			records = []roster.Record{
				{ID: "c", Status: roster.StatusConverted},
				{ID: "cb", Status: roster.StatusConvertedBeginner},
				{ID: "s", Status: roster.StatusScheduled},
				{ID: "x", Status: "converted-ish"},
			}
		})

		It("should match every converted variant for converted", func() {
			params := roster.FilterParams{Status: roster.StatusConverted}
			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"c", "cb"}))
		})

		It("should match exactly for other statuses", func() {
			params := roster.FilterParams{Status: roster.StatusConvertedBeginner}
			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"cb"}))
		})

		It("should bypass with all", func() {
			params := roster.FilterParams{Status: roster.StatusAll}
			Expect(roster.Filter(records, params, cal)).To(HaveLen(4))
		})
	})

	Describe("today's follow-up", func() {
		It("should match records whose follow-up falls on today's local date", func() {
			records := []roster.Record{
				{ID: "today", NextFollowUpDate: timePtr(today.Add(20 * time.Hour))},
				{ID: "tomorrow", NextFollowUpDate: timePtr(today.AddDate(0, 0, 1))},
				{ID: "none"},
			}
			var params roster.FilterParams
			params.Activate(roster.ToggleTodayFollowUp)

			Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"today"}))
		})
	})

	It("should preserve input order and leave the input untouched", func() {
		records := []roster.Record{
			{ID: "3", Status: roster.StatusActive},
			{ID: "1", Status: roster.StatusRefunded},
			{ID: "2", Status: roster.StatusActive},
		}
		params := roster.FilterParams{Status: roster.StatusActive}

		Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"3", "2"}))
		Expect(recordIDs(records)).To(Equal([]string{"3", "1", "2"}))
	})

	It("should combine search, status and toggle", func() {
		records := []roster.Record{
			{ID: "1", ContactName: "Meera", Status: roster.StatusActive, DueAmount: 100},
			{ID: "2", ContactName: "Meera", Status: roster.StatusScheduled, DueAmount: 100},
			{ID: "3", ContactName: "Kiran", Status: roster.StatusActive, DueAmount: 100},
		}
		params := roster.FilterParams{SearchQuery: "meera", Status: roster.StatusActive}
		params.Activate(roster.ToggleDueRemaining)

		Expect(recordIDs(roster.Filter(records, params, cal))).To(Equal([]string{"1"}))
	})

	DescribeTable("ParseToggle",
		func(in string, want roster.Toggle, ok bool) {
			got, valid := roster.ParseToggle(in)
			Expect(valid).To(Equal(ok))
			Expect(got).To(Equal(want))
		},
		Entry("empty", "", roster.ToggleNone, true),
		Entry("full payment", "full_payment", roster.ToggleFullPayment, true),
		Entry("unknown", "vip", roster.ToggleNone, false),
	)
})

var _ = Describe("ComputeDue", func() {
	It("should never go below zero", func() {
		Expect(roster.ComputeDue(1000, 400)).To(Equal(int64(600)))
		Expect(roster.ComputeDue(1000, 1200)).To(Equal(int64(0)))
	})
})
