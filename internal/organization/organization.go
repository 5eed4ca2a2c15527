package organization

import (
	"time"

	"github.com/frahmantamala/sales-crm/internal/access"
	orgDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/organization"
)

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberRecord is a membership joined with the user it belongs to.
type MemberRecord struct {
	UserID   string `gorm:"column:user_id"`
	Email    string `gorm:"column:email"`
	Name     string `gorm:"column:name"`
	Role     string `gorm:"column:role"`
	IsActive bool   `gorm:"column:is_active"`
}

// Member is what the members page shows: the role plus the keys the member
// effectively holds.
type Member struct {
	UserID   string       `json:"user_id"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Role     access.Role  `json:"role"`
	IsActive bool         `json:"is_active"`
	Override bool         `json:"has_override"`
	Keys     []access.Key `json:"permissions"`
}

type Module struct {
	Slug    string `json:"slug"`
	Enabled bool   `json:"enabled"`
}

func FromDataModel(o *orgDatamodel.Organization) *Organization {
	return &Organization{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Timezone:  o.Timezone,
		CreatedAt: o.CreatedAt,
	}
}

func FromDataModelSlice(orgs []*orgDatamodel.Organization) []*Organization {
	result := make([]*Organization, len(orgs))
	for i, o := range orgs {
		result[i] = FromDataModel(o)
	}
	return result
}

// permissionSource turns stored override rows into a permission source. No
// rows means the member follows the role default.
func permissionSource(role access.Role, rows []*orgDatamodel.MemberPermission) access.PermissionSource {
	if len(rows) == 0 {
		return access.RoleDefault{Role: role}
	}
	keys := make(map[access.Key]bool, len(rows))
	for _, row := range rows {
		keys[access.Key(row.PermissionKey)] = row.Enabled
	}
	return access.ExplicitOverride{Keys: keys}
}

// overrideRows expands an enabled key set into one row per known key, so an
// override that enables nothing is still distinguishable from no override.
func overrideRows(orgID, userID string, enabled []access.Key) []*orgDatamodel.MemberPermission {
	set := make(map[access.Key]bool, len(enabled))
	for _, k := range enabled {
		set[k] = true
	}
	all := access.AllKeys()
	rows := make([]*orgDatamodel.MemberPermission, 0, len(all))
	for _, k := range all {
		rows = append(rows, &orgDatamodel.MemberPermission{
			OrganizationID: orgID,
			UserID:         userID,
			PermissionKey:  string(k),
			Enabled:        set[k],
		})
	}
	return rows
}
