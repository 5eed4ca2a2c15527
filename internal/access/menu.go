package access

// DynamicCohortTypes marks the menu entry whose children come from the
// organization's live cohort types.
const DynamicCohortTypes = "cohort-types"

// MenuEntry is one navigation node. An entry with Children is a parent; the
// parent's own Permission is not consulted, only its children's.
type MenuEntry struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Icon          string      `json:"icon,omitempty"`
	Path          string      `json:"path,omitempty"`
	Permission    Key         `json:"permission,omitempty"`
	ModuleSlug    string      `json:"module_slug,omitempty"`
	DynamicSource string      `json:"-"`
	Children      []MenuEntry `json:"children,omitempty"`
}

func (e MenuEntry) hasChildren() bool {
	return len(e.Children) > 0 || e.DynamicSource != ""
}

var icons = map[string]string{
	"dashboard":  "layout-dashboard",
	"leads":      "user-plus",
	"calls":      "phone-call",
	"sales":      "trending-up",
	"customers":  "users",
	"cohorts":    "graduation-cap",
	"cohort":     "book-open",
	"workshops":  "presentation",
	"funnel":     "filter",
	"payments":   "wallet",
	"emi":        "calendar-clock",
	"reports":    "bar-chart",
	"whatsapp":   "message-circle",
	"members":    "shield",
	"settings":   "settings",
	"create":     "plus",
	"superadmin": "crown",
}

// IconFor maps an icon name to its identifier. Unknown names get a neutral icon.
func IconFor(name string) string {
	if id, ok := icons[name]; ok {
		return id
	}
	return "circle"
}

// DefaultMenu is the static menu definition. Dynamic children are merged in
// with MergeDynamic before BuildMenu runs.
func DefaultMenu() []MenuEntry {
	return []MenuEntry{
		{ID: "dashboard", Title: "Dashboard", Icon: IconFor("dashboard"), Path: "/", Permission: KeyDashboard},
		{ID: "leads", Title: "Leads", Icon: IconFor("leads"), Path: "/leads", Permission: KeyLeads},
		{ID: "sales", Title: "Sales", Icon: IconFor("sales"), Children: []MenuEntry{
			{ID: "calls", Title: "Calls", Icon: IconFor("calls"), Path: "/calls", Permission: KeyCalls},
			{ID: "sales-closers", Title: "Closers", Icon: IconFor("sales"), Path: "/sales", Permission: KeySales},
			{ID: "customers", Title: "Customers", Icon: IconFor("customers"), Path: "/customers", Permission: KeyCustomers},
		}},
		{
			ID:            "cohort-batches",
			Title:         "Cohort Batches",
			Icon:          IconFor("cohorts"),
			ModuleSlug:    ModuleCohortManagement,
			DynamicSource: DynamicCohortTypes,
		},
		{ID: "workshops", Title: "Workshops", Icon: IconFor("workshops"), Path: "/workshops", Permission: KeyWorkshops, ModuleSlug: ModuleWorkshops},
		{ID: "one-to-one", Title: "1:1 Funnel", Icon: IconFor("funnel"), Path: "/one-to-one", Permission: KeyFunnel, ModuleSlug: ModuleOneToOneFunnel},
		{ID: "payments", Title: "Payments", Icon: IconFor("payments"), ModuleSlug: ModuleEMITracking, Children: []MenuEntry{
			{ID: "emi", Title: "EMI Tracker", Icon: IconFor("emi"), Path: "/payments", Permission: KeyPayments},
		}},
		{ID: "reports", Title: "Reports", Icon: IconFor("reports"), Path: "/reports", Permission: KeyReports},
		{ID: "whatsapp", Title: "WhatsApp", Icon: IconFor("whatsapp"), Path: "/whatsapp", Permission: KeyWhatsApp, ModuleSlug: ModuleWhatsAppInbox},
		{ID: "members", Title: "Members", Icon: IconFor("members"), Path: "/members", Permission: KeyMembers},
		{ID: "settings", Title: "Settings", Icon: IconFor("settings"), Path: "/settings", Permission: KeySettings},
	}
}

// CohortType is the slice of a cohort type the menu needs.
type CohortType struct {
	Slug string
	Name string
}

// CohortTypeEntries builds the dynamic children of the cohort menu. With no
// cohort types it falls back to a single "create" entry, but only for members
// allowed to create one.
func CohortTypeEntries(types []CohortType, canCreate bool) []MenuEntry {
	if len(types) == 0 {
		if !canCreate {
			return nil
		}
		return []MenuEntry{{
			ID:         "cohort-type-new",
			Title:      "Create Cohort Type",
			Icon:       IconFor("create"),
			Path:       "/cohorts/new",
			Permission: KeyCohorts,
		}}
	}

	out := make([]MenuEntry, 0, len(types))
	for _, t := range types {
		out = append(out, MenuEntry{
			ID:         "cohort-type-" + t.Slug,
			Title:      t.Name,
			Icon:       IconFor("cohort"),
			Path:       "/cohorts/" + t.Slug,
			Permission: KeyCohorts,
		})
	}
	return out
}

// MergeDynamic returns a copy of def where every entry fed by source gets
// children as its child list. When children is empty and fallback is not nil,
// the fallback entries are used instead.
func MergeDynamic(def []MenuEntry, source string, children []MenuEntry, fallback []MenuEntry) []MenuEntry {
	live := children
	if len(live) == 0 {
		live = fallback
	}

	out := make([]MenuEntry, len(def))
	for i, e := range def {
		if e.DynamicSource == source {
			e.Children = append([]MenuEntry(nil), live...)
		} else if len(e.Children) > 0 {
			e.Children = MergeDynamic(e.Children, source, children, fallback)
		}
		out[i] = e
	}
	return out
}

// BuildMenu filters def down to what the subject may see. For every entry the
// module gate is checked first; a disabled module drops the entry without the
// permission ever being consulted. Parents keep only visible children and are
// dropped when none remain. The input is never modified.
func (r *Resolver) BuildMenu(def []MenuEntry) []MenuEntry {
	out := make([]MenuEntry, 0, len(def))
	for _, e := range def {
		if e.ModuleSlug != "" && !r.ModuleEnabled(e.ModuleSlug) {
			continue
		}

		if e.hasChildren() {
			visible := make([]MenuEntry, 0, len(e.Children))
			for _, c := range e.Children {
				if r.entryVisible(c) {
					visible = append(visible, c)
				}
			}
			if len(visible) == 0 {
				continue
			}
			e.Children = visible
			out = append(out, e)
			continue
		}

		if e.Permission == "" || r.HasPermission(e.Permission) {
			out = append(out, e)
		}
	}
	return out
}

func (r *Resolver) entryVisible(e MenuEntry) bool {
	if e.ModuleSlug != "" && !r.ModuleEnabled(e.ModuleSlug) {
		return false
	}
	return e.Permission == "" || r.HasPermission(e.Permission)
}
