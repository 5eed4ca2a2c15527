package organization

type ReplacePermissionsRequest struct {
	Keys []string `json:"keys"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type SetModuleRequest struct {
	Enabled bool `json:"enabled"`
}

type MembersResponse struct {
	Members []*Member `json:"members"`
}

type OrganizationsResponse struct {
	Organizations []*Organization `json:"organizations"`
}

type ModulesResponse struct {
	Modules []Module `json:"modules"`
}
