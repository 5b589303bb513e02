package auth

// Evaluator operations. All of these are pure, total functions over their
// inputs: they never fail, never perform I/O, and a nil identity denies every
// check. Denial is a plain false return, not an error.

// ResourceScope carries the resource affiliation of an authorization request.
// Empty fields mean the dimension is not part of the request.
type ResourceScope struct {
	OrganizationID string
	TeamID         string
	EmployeeID     string
}

// HasPermission reports whether the identity's cached grant set contains the
// permission id. Scope is not considered here; scoped requests go through
// Authorize. An unrecognized id simply fails the containment test.
func HasPermission(identity *Identity, permissionID string) bool {
	if identity == nil {
		return false
	}
	_, ok := identity.Permissions[permissionID]
	return ok
}

func HasRole(identity *Identity, role Role) bool {
	return identity != nil && identity.Role == role
}

// HasAnyRole backs route guards that admit a fixed set of roles regardless of
// fine-grained permissions.
func HasAnyRole(identity *Identity, roles ...Role) bool {
	if identity == nil {
		return false
	}
	for _, role := range roles {
		if identity.Role == role {
			return true
		}
	}
	return false
}

// CanAccessOrganization is true for super_admin everywhere, otherwise only
// for the identity's own organization.
func CanAccessOrganization(identity *Identity, organizationID string) bool {
	if identity == nil {
		return false
	}
	if identity.Role == RoleSuperAdmin {
		return true
	}
	return identity.OrganizationID == organizationID
}

// CanAccessTeam is true for super_admin and hr_manager everywhere, for
// team_leader only on their own team, and false for every other role.
func CanAccessTeam(identity *Identity, teamID string) bool {
	if identity == nil {
		return false
	}
	switch identity.Role {
	case RoleSuperAdmin, RoleHRManager:
		return true
	case RoleTeamLeader:
		return identity.TeamID == teamID
	}
	return false
}

// CanManageEmployeeRecord decides whether the identity may manage the target
// employee record. Team membership of the target is the caller's
// responsibility to have pre-filtered: a team_leader with any team id passes
// here without the target's team being re-derived.
func CanManageEmployeeRecord(identity *Identity, targetEmployeeID, targetEmployeeOrgID string) bool {
	if identity == nil {
		return false
	}
	switch identity.Role {
	case RoleSuperAdmin:
		return true
	case RoleHRManager:
		return CanAccessOrganization(identity, targetEmployeeOrgID)
	case RoleTeamLeader:
		return identity.TeamID != ""
	case RoleEmployee:
		return targetEmployeeID == identity.ID
	}
	return false
}

// Authorize is the composite check used before scoped mutations. Scope checks
// are necessary-but-not-sufficient gates layered before the final permission
// containment test; any scope failure denies immediately.
func Authorize(identity *Identity, action string, scope ResourceScope) bool {
	if identity == nil {
		return false
	}
	if identity.Role == RoleSuperAdmin {
		return true
	}
	if scope.OrganizationID != "" && !CanAccessOrganization(identity, scope.OrganizationID) {
		return false
	}
	if scope.TeamID != "" && !CanAccessTeam(identity, scope.TeamID) {
		return false
	}
	if scope.EmployeeID != "" && scope.OrganizationID != "" {
		return CanManageEmployeeRecord(identity, scope.EmployeeID, scope.OrganizationID)
	}
	return HasPermission(identity, action)
}
