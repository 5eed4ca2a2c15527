package roster

import "sort"

// ManualCloserID buckets records that have no closer attached.
const (
	ManualCloserID    = "manual"
	ManualCloserLabel = "Added Manually"
)

type CloserBucket struct {
	CloserID string `json:"closer_id"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Offered  int64  `json:"offered"`
	Received int64  `json:"received"`
	// Due leaves out pay-after-earning balances.
	Due int64 `json:"due"`
}

type GlobalTotals struct {
	Offered            int64 `json:"offered"`
	Received           int64 `json:"received"`
	Due                int64 `json:"due"`
	FullPaymentCount   int   `json:"full_payment_count"`
	DueCount           int   `json:"due_count"`
	RefundedCount      int   `json:"refunded_count"`
	DiscontinuedCount  int   `json:"discontinued_count"`
	PAECount           int   `json:"pae_count"`
	PAEAmount          int64 `json:"pae_amount"`
	TodayFollowUpCount int   `json:"today_follow_up_count"`
}

type Totals struct {
	CloserBreakdown []CloserBucket `json:"closer_breakdown"`
	Global          GlobalTotals   `json:"global"`
}

func ComputeTotals(records []Record, cal Calendar) Totals {
	return Totals{
		CloserBreakdown: CloserBreakdown(records),
		Global:          ComputeGlobalTotals(records, cal),
	}
}

// CloserBreakdown groups non-closed records by closer and sorts the buckets by
// cash received, highest first. Ties keep first-seen order.
func CloserBreakdown(records []Record) []CloserBucket {
	index := map[string]int{}
	buckets := make([]CloserBucket, 0)

	for _, r := range records {
		if r.Status.IsClosed() {
			continue
		}

		id, label := closerOf(r)
		i, ok := index[id]
		if !ok {
			i = len(buckets)
			index[id] = i
			buckets = append(buckets, CloserBucket{CloserID: id, Label: label})
		}

		b := &buckets[i]
		b.Count++
		b.Offered += r.OfferAmount
		b.Received += r.CashReceived
		if !r.PayAfterEarning && r.DueAmount > 0 {
			b.Due += r.DueAmount
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Received > buckets[j].Received
	})
	return buckets
}

func closerOf(r Record) (string, string) {
	if r.CloserID == nil || *r.CloserID == "" {
		return ManualCloserID, ManualCloserLabel
	}
	label := *r.CloserID
	if r.CloserName != nil && *r.CloserName != "" {
		label = *r.CloserName
	}
	return *r.CloserID, label
}

// ComputeGlobalTotals summarizes the whole, unfiltered record set. Follow-ups
// due today are counted over every record, closed ones included.
func ComputeGlobalTotals(records []Record, cal Calendar) GlobalTotals {
	var g GlobalTotals
	today := cal.Today()

	for _, r := range records {
		if r.HasFollowUpOn(today, cal) {
			g.TodayFollowUpCount++
		}

		switch r.Status {
		case StatusRefunded:
			g.RefundedCount++
			continue
		case StatusDiscontinued:
			g.DiscontinuedCount++
			continue
		}

		g.Offered += r.OfferAmount
		g.Received += r.CashReceived

		switch {
		case r.IsFullPayment():
			g.FullPaymentCount++
		case r.HasRemainingDue():
			g.DueCount++
			g.Due += r.DueAmount
		case r.IsPayAfterEarningDue():
			g.PAECount++
			g.PAEAmount += r.DueAmount
		}
	}
	return g
}
