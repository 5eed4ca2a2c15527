package access

import "strings"

// SuperAdminRoute is where super admins land; it sits outside the tenant
// route table.
const SuperAdminRoute = "/super-admin"

type RouteRule struct {
	Path string
	Key  Key
}

// RouteTable maps route paths to the single key that gates each one. Order is
// significant: redirects pick the first rule that passes.
type RouteTable []RouteRule

func DefaultRoutes() RouteTable {
	return RouteTable{
		{Path: "/", Key: KeyDashboard},
		{Path: "/leads", Key: KeyLeads},
		{Path: "/calls", Key: KeyCalls},
		{Path: "/sales", Key: KeySales},
		{Path: "/customers", Key: KeyCustomers},
		{Path: "/cohorts", Key: KeyCohorts},
		{Path: "/workshops", Key: KeyWorkshops},
		{Path: "/one-to-one", Key: KeyFunnel},
		{Path: "/payments", Key: KeyPayments},
		{Path: "/reports", Key: KeyReports},
		{Path: "/whatsapp", Key: KeyWhatsApp},
		{Path: "/members", Key: KeyMembers},
		{Path: "/settings", Key: KeySettings},
	}
}

// Lookup returns the key for path. Exact matches win; otherwise the longest
// rule that is a segment prefix of path is used ("/cohorts/42" -> cohorts).
// The root rule only matches "/" itself.
func (t RouteTable) Lookup(path string) (Key, bool) {
	path = normalizePath(path)

	var (
		best    RouteRule
		matched bool
	)
	for _, rule := range t {
		rp := normalizePath(rule.Path)
		if rp == path {
			return rule.Key, true
		}
		if rp == "/" {
			continue
		}
		if strings.HasPrefix(path, rp+"/") && len(rp) > len(best.Path) {
			best = RouteRule{Path: rp, Key: rule.Key}
			matched = true
		}
	}
	return best.Key, matched
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
