package roster

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Toggle is one of the narrowing switches on the roster screen. At most one is
// active at a time.
type Toggle string

const (
	ToggleNone            Toggle = ""
	ToggleRefunded        Toggle = "refunded"
	ToggleDiscontinued    Toggle = "discontinued"
	ToggleFullPayment     Toggle = "full_payment"
	ToggleDueRemaining    Toggle = "due_remaining"
	ToggleTodayFollowUp   Toggle = "today_follow_up"
	TogglePayAfterEarning Toggle = "pay_after_earning"
)

func ParseToggle(s string) (Toggle, bool) {
	switch t := Toggle(s); t {
	case ToggleNone, ToggleRefunded, ToggleDiscontinued, ToggleFullPayment,
		ToggleDueRemaining, ToggleTodayFollowUp, TogglePayAfterEarning:
		return t, true
	default:
		return ToggleNone, false
	}
}

// FilterParams bundles the roster filters. Search, status and date range are
// independent; the toggle slot holds a single value so activating one toggle
// clears any other.
type FilterParams struct {
	SearchQuery string
	Status      Status
	DateFrom    *time.Time
	DateTo      *time.Time

	toggle Toggle
}

// Activate switches t on and every other toggle off.
func (p *FilterParams) Activate(t Toggle) {
	p.toggle = t
}

func (p *FilterParams) Deactivate() {
	p.toggle = ToggleNone
}

func (p FilterParams) Active() Toggle {
	return p.toggle
}

// Filter returns the records matching params in their original order. The
// input slice is not modified.
func Filter(records []Record, params FilterParams, cal Calendar) []Record {
	lower := cases.Lower(language.Und)
	query := lower.String(params.SearchQuery)

	var from, to time.Time
	if params.DateFrom != nil {
		from = cal.DayOf(*params.DateFrom)
	}
	if params.DateTo != nil {
		to = cal.DayOf(*params.DateTo)
	}
	today := cal.Today()

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if query != "" && !matchesSearch(lower, r, query) {
			continue
		}
		if !matchesStatus(r.Status, params.Status) {
			continue
		}
		if params.DateFrom != nil || params.DateTo != nil {
			day := cal.DayOf(r.Date)
			if params.DateFrom != nil && day.Before(from) {
				continue
			}
			if params.DateTo != nil && day.After(to) {
				continue
			}
		}
		if !matchesToggle(r, params.toggle, today, cal) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesSearch is a plain substring test on the lowercased fields. Whitespace
// in the query is significant.
func matchesSearch(lower cases.Caser, r Record, query string) bool {
	if strings.Contains(lower.String(r.ContactName), query) {
		return true
	}
	if strings.Contains(lower.String(r.Email), query) {
		return true
	}
	return r.Phone != nil && strings.Contains(lower.String(*r.Phone), query)
}

func matchesStatus(s, want Status) bool {
	switch {
	case want == "" || want == StatusAll:
		return true
	case want == StatusConverted:
		return s.IsConverted()
	default:
		return s == want
	}
}

func matchesToggle(r Record, t Toggle, today time.Time, cal Calendar) bool {
	switch t {
	case ToggleRefunded:
		return r.Status == StatusRefunded
	case ToggleDiscontinued:
		return r.Status == StatusDiscontinued
	case ToggleFullPayment:
		return r.IsFullPayment()
	case ToggleDueRemaining:
		return r.HasRemainingDue()
	case TogglePayAfterEarning:
		return r.IsPayAfterEarningDue()
	case ToggleTodayFollowUp:
		return r.HasFollowUpOn(today, cal)
	default:
		return true
	}
}
