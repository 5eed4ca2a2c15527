package access

import "sort"

// Role is a member's function inside one organization.
type Role string

const (
	RoleUnknown  Role = ""
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleSalesRep Role = "sales_rep"
	RoleViewer   Role = "viewer"
)

// ParseRole maps a stored role string to a Role. Anything outside the known
// set becomes RoleUnknown, which holds no permissions.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleSalesRep, RoleViewer:
		return Role(s)
	default:
		return RoleUnknown
	}
}

func (r Role) IsKnown() bool {
	return r != RoleUnknown && ParseRole(string(r)) == r
}

// Key identifies one navigable feature area. The same constants gate the menu
// and the HTTP routes.
type Key string

const (
	KeyDashboard Key = "dashboard"
	KeyLeads     Key = "leads"
	KeyCalls     Key = "calls"
	KeySales     Key = "sales"
	KeyCustomers Key = "customers"
	KeyCohorts   Key = "cohorts"
	KeyWorkshops Key = "workshops"
	KeyFunnel    Key = "funnel"
	KeyPayments  Key = "payments"
	KeyReports   Key = "reports"
	KeyWhatsApp  Key = "whatsapp"
	KeyMembers   Key = "members"
	KeySettings  Key = "settings"
)

var allKeys = []Key{
	KeyDashboard,
	KeyLeads,
	KeyCalls,
	KeySales,
	KeyCustomers,
	KeyCohorts,
	KeyWorkshops,
	KeyFunnel,
	KeyPayments,
	KeyReports,
	KeyWhatsApp,
	KeyMembers,
	KeySettings,
}

// AllKeys returns every permission key in a fixed order.
func AllKeys() []Key {
	out := make([]Key, len(allKeys))
	copy(out, allKeys)
	return out
}

func IsKnownKey(k Key) bool {
	for _, known := range allKeys {
		if known == k {
			return true
		}
	}
	return false
}

// Module slugs an organization can switch on or off.
const (
	ModuleCohortManagement = "cohort-management"
	ModuleWorkshops        = "workshops"
	ModuleOneToOneFunnel   = "one-to-one-funnel"
	ModuleWhatsAppInbox    = "whatsapp-inbox"
	ModuleEMITracking      = "emi-tracking"
)

var allModules = []string{
	ModuleCohortManagement,
	ModuleWorkshops,
	ModuleOneToOneFunnel,
	ModuleWhatsAppInbox,
	ModuleEMITracking,
}

func AllModules() []string {
	out := make([]string, len(allModules))
	copy(out, allModules)
	return out
}

func IsKnownModule(slug string) bool {
	for _, m := range allModules {
		if m == slug {
			return true
		}
	}
	return false
}

// Grant is the effective set of enabled keys for one member. A key that is
// missing from the map is denied.
type Grant map[Key]bool

func (g Grant) Allows(k Key) bool {
	if g == nil {
		return false
	}
	return g[k]
}

// Keys returns the enabled keys in AllKeys order.
func (g Grant) Keys() []Key {
	out := make([]Key, 0, len(g))
	for _, k := range allKeys {
		if g[k] {
			out = append(out, k)
		}
	}
	return out
}

// PermissionSource says where a member's grant comes from: either the static
// defaults of their role or an explicit override stored by an admin.
type PermissionSource interface {
	permissionSource()
}

type RoleDefault struct {
	Role Role
}

// ExplicitOverride fully replaces the role default. Keys set to false, or left
// out, are denied.
type ExplicitOverride struct {
	Keys map[Key]bool
}

func (RoleDefault) permissionSource()      {}
func (ExplicitOverride) permissionSource() {}

var roleDefaults = map[Role][]Key{
	RoleAdmin: allKeys,
	RoleManager: {
		KeyDashboard, KeyLeads, KeyCalls, KeySales, KeyCustomers, KeyCohorts,
		KeyWorkshops, KeyFunnel, KeyPayments, KeyReports, KeyWhatsApp,
	},
	RoleSalesRep: {
		KeyDashboard, KeyLeads, KeyCalls, KeySales, KeyCustomers, KeyWhatsApp,
	},
	RoleViewer: {
		KeyDashboard, KeySales, KeyReports,
	},
}

// RoleDefaults returns the default keys of a role. Unknown roles get none.
func RoleDefaults(r Role) []Key {
	keys := roleDefaults[r]
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// ResolveGrant turns a permission source into a plain grant. It is meant to
// run once per member, before any permission checks. A nil source resolves to
// an empty grant.
func ResolveGrant(src PermissionSource) Grant {
	g := Grant{}
	switch s := src.(type) {
	case RoleDefault:
		for _, k := range roleDefaults[s.Role] {
			g[k] = true
		}
	case ExplicitOverride:
		for k, enabled := range s.Keys {
			if enabled && IsKnownKey(k) {
				g[k] = true
			}
		}
	}
	return g
}

// ModuleSet holds the enabled module slugs of an organization. A nil set means
// modules have not been loaded and nothing is enabled.
type ModuleSet map[string]bool

func NewModuleSet(slugs ...string) ModuleSet {
	ms := ModuleSet{}
	for _, s := range slugs {
		ms[s] = true
	}
	return ms
}

func (m ModuleSet) Enabled(slug string) bool {
	if m == nil {
		return false
	}
	return m[slug]
}

func (m ModuleSet) Slugs() []string {
	out := make([]string, 0, len(m))
	for s, on := range m {
		if on {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Subject is everything the resolver knows about the current member. It is
// passed explicitly; nothing is read from globals.
type Subject struct {
	OrganizationID string
	UserID         string
	Email          string
	Role           Role
	IsSuperAdmin   bool
	Grant          Grant
	Modules        ModuleSet
}
