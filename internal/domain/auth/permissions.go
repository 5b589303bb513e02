package auth

import "fmt"

// Scope is the breadth at which a granted permission applies.
type Scope string

const (
	ScopeGlobal       Scope = "global"
	ScopeOrganization Scope = "organization"
	ScopeTeam         Scope = "team"
	ScopeSelf         Scope = "self"
)

// Permission is a named capability. The catalog is fixed at build time;
// permissions are never created or mutated at runtime.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Scope       Scope  `json:"scope"`
}

const (
	PermManageOrganizations  = "manage_organizations"
	PermManageUsers          = "manage_users"
	PermManageRoles          = "manage_roles"
	PermManageEmployees      = "manage_employees"
	PermManagePayroll        = "manage_payroll"
	PermManageSettings       = "manage_settings"
	PermManageSecurity       = "manage_security"
	PermManageCompliance     = "manage_compliance"
	PermManageTeams          = "manage_teams"
	PermManageRoster         = "manage_roster"
	PermManageLeave          = "manage_leave"
	PermApproveLeave         = "approve_leave"
	PermViewReports          = "view_reports"
	PermViewFinancialReports = "view_financial_reports"
	PermViewAuditLogs        = "view_audit_logs"
	PermViewOwnProfile       = "view_own_profile"
	PermEditOwnProfile       = "edit_own_profile"
	PermSubmitOwnLeave       = "submit_own_leave"
)

type permissionMeta struct {
	name        string
	description string
}

// CatalogIDs lists every permission id, in display order.
var CatalogIDs = []string{
	PermManageOrganizations,
	PermManageUsers,
	PermManageRoles,
	PermManageEmployees,
	PermManagePayroll,
	PermManageSettings,
	PermManageSecurity,
	PermManageCompliance,
	PermManageTeams,
	PermManageRoster,
	PermManageLeave,
	PermApproveLeave,
	PermViewReports,
	PermViewFinancialReports,
	PermViewAuditLogs,
	PermViewOwnProfile,
	PermEditOwnProfile,
	PermSubmitOwnLeave,
}

var catalog = map[string]permissionMeta{
	PermManageOrganizations:  {"Manage Organisations", "Create and administer organisations"},
	PermManageUsers:          {"Manage Users", "Create and deactivate user accounts"},
	PermManageRoles:          {"Manage Roles", "Assign roles to user accounts"},
	PermManageEmployees:      {"Manage Employees", "Create and edit employee records"},
	PermManagePayroll:        {"Manage Payroll", "Maintain payroll metadata and pay runs"},
	PermManageSettings:       {"Manage Settings", "Change system-wide settings"},
	PermManageSecurity:       {"Manage Security", "Administer security configuration"},
	PermManageCompliance:     {"Manage Compliance", "Maintain compliance records"},
	PermManageTeams:          {"Manage Teams", "Create and edit teams"},
	PermManageRoster:         {"Manage Roster", "Maintain shift rosters"},
	PermManageLeave:          {"Manage Leave", "Administer leave requests and balances"},
	PermApproveLeave:         {"Approve Leave", "Approve or decline leave requests"},
	PermViewReports:          {"View Reports", "View operational reports"},
	PermViewFinancialReports: {"View Financial Reports", "View payroll and financial reports"},
	PermViewAuditLogs:        {"View Audit Logs", "Read the access audit log"},
	PermViewOwnProfile:       {"View Own Profile", "View the user's own employee record"},
	PermEditOwnProfile:       {"Edit Own Profile", "Edit the user's own contact details"},
	PermSubmitOwnLeave:       {"Submit Own Leave", "Submit leave requests for the user"},
}

func grant(id string, scope Scope) Permission {
	meta, ok := catalog[id]
	if !ok {
		panic(fmt.Sprintf("auth: unknown permission id %q", id))
	}
	return Permission{ID: id, Name: meta.name, Description: meta.description, Scope: scope}
}

// Every role is additive over this common self-scoped baseline.
var basePermissions = []Permission{
	grant(PermViewOwnProfile, ScopeSelf),
	grant(PermEditOwnProfile, ScopeSelf),
	grant(PermSubmitOwnLeave, ScopeSelf),
}

var rolePermissions map[Role][]Permission

func init() {
	// Full catalog at global scope, except the common baseline which stays
	// self-scoped for every role.
	fullCatalog := make([]Permission, 0, len(CatalogIDs))
	fullCatalog = append(fullCatalog, basePermissions...)
	for _, id := range CatalogIDs {
		switch id {
		case PermViewOwnProfile, PermEditOwnProfile, PermSubmitOwnLeave:
			continue
		}
		fullCatalog = append(fullCatalog, grant(id, ScopeGlobal))
	}

	rolePermissions = map[Role][]Permission{
		RoleSuperAdmin: fullCatalog,
		RoleHRManager: withBase(
			grant(PermManageEmployees, ScopeOrganization),
			grant(PermManageLeave, ScopeOrganization),
			grant(PermManageCompliance, ScopeOrganization),
			grant(PermManageRoster, ScopeOrganization),
			grant(PermManageTeams, ScopeOrganization),
			grant(PermViewReports, ScopeOrganization),
		),
		RoleTeamLeader: withBase(
			grant(PermManageTeams, ScopeTeam),
			grant(PermApproveLeave, ScopeTeam),
			grant(PermManageRoster, ScopeTeam),
			grant(PermManageEmployees, ScopeTeam),
		),
		RolePayrollAdmin: withBase(
			grant(PermManagePayroll, ScopeOrganization),
			grant(PermViewFinancialReports, ScopeOrganization),
		),
		RoleComplianceOfficer: withBase(
			grant(PermManageCompliance, ScopeOrganization),
			grant(PermViewAuditLogs, ScopeOrganization),
		),
		RoleEmployee: withBase(),
	}
}

func withBase(perms ...Permission) []Permission {
	out := make([]Permission, 0, len(basePermissions)+len(perms))
	out = append(out, basePermissions...)
	out = append(out, perms...)
	return out
}

// PermissionsForRole returns the immutable grant set for a role. Role values
// originate from the closed enumeration established at login; an unknown role
// reaching this point is a programming error, so it panics rather than
// degrading.
func PermissionsForRole(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		panic(fmt.Sprintf("auth: unknown role %q", role))
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
