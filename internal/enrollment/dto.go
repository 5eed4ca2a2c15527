package enrollment

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/core/common/validation"
	"github.com/frahmantamala/sales-crm/internal/roster"
)

const dateLayout = "2006-01-02"

// RosterQuery is the raw query string of a roster request.
type RosterQuery struct {
	Search string
	Status string
	From   string
	To     string
	Toggle string
}

func RosterQueryFromURL(q url.Values) RosterQuery {
	return RosterQuery{
		Search: q.Get("search"),
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Toggle: q.Get("toggle"),
	}
}

// FilterParams turns the query into roster filters. Dates are calendar days in
// the organization's zone.
func (q RosterQuery) FilterParams(cal roster.Calendar) (roster.FilterParams, error) {
	params := roster.FilterParams{SearchQuery: q.Search}

	status := roster.Status(strings.TrimSpace(q.Status))
	if status != "" && status != roster.StatusAll && !status.IsKnown() {
		return params, internal.NewValidationFieldError("status", fmt.Sprintf("unknown status %q", q.Status), internal.ErrCodeInvalidFilter)
	}
	params.Status = status

	toggle, ok := roster.ParseToggle(strings.TrimSpace(q.Toggle))
	if !ok {
		return params, internal.NewValidationFieldError("toggle", fmt.Sprintf("unknown toggle %q", q.Toggle), internal.ErrCodeInvalidFilter)
	}
	if toggle != roster.ToggleNone {
		params.Activate(toggle)
	}

	var err error
	if params.DateFrom, err = parseDay("from", q.From, cal); err != nil {
		return params, err
	}
	if params.DateTo, err = parseDay("to", q.To, cal); err != nil {
		return params, err
	}
	if appErr := validation.ValidateDateRange(params.DateFrom, params.DateTo); appErr != nil {
		return params, appErr
	}
	return params, nil
}

func parseDay(field, value string, cal roster.Calendar) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	loc := cal.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, internal.NewValidationFieldError(field, field+" must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
	}
	return &t, nil
}

type RosterResponse struct {
	Records []roster.Record `json:"records"`
	Count   int             `json:"count"`
	// Totals cover every record the member can see, not only the filtered ones.
	Totals roster.Totals `json:"totals"`
}
