package cohort

import (
	"strings"
	"time"
	"unicode"

	"github.com/frahmantamala/sales-crm/internal/access"
	cohortDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/cohort"
)

type CohortType struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"-"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type Batch struct {
	ID           string    `json:"id"`
	CohortTypeID string    `json:"cohort_type_id"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
}

// MenuItem is the slice of a cohort type the navigation menu shows.
func (c *CohortType) MenuItem() access.CohortType {
	return access.CohortType{Slug: c.Slug, Name: c.Name}
}

func NewCohortType(orgID, name string) *CohortType {
	return &CohortType{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(name),
		Slug:           Slugify(name),
		IsActive:       true,
	}
}

// Slugify lowercases name and joins its letter and digit runs with hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func ToDataModel(c *CohortType) *cohortDatamodel.CohortType {
	return &cohortDatamodel.CohortType{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Slug:           c.Slug,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
}

func FromDataModel(c *cohortDatamodel.CohortType) *CohortType {
	return &CohortType{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Slug:           c.Slug,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
}

func BatchFromDataModel(b *cohortDatamodel.CohortBatch) *Batch {
	return &Batch{
		ID:           b.ID,
		CohortTypeID: b.CohortTypeID,
		Name:         b.Name,
		StartDate:    b.StartDate,
	}
}
