package auth

import "fmt"

// Role classifies a user's general authority level. The set is closed:
// role values are assigned when an account is created and never change.
type Role string

const (
	RoleSuperAdmin        Role = "super_admin"
	RoleHRManager         Role = "hr_manager"
	RoleTeamLeader        Role = "team_leader"
	RolePayrollAdmin      Role = "payroll_admin"
	RoleComplianceOfficer Role = "compliance_officer"
	RoleEmployee          Role = "employee"
)

var AllRoles = []Role{
	RoleSuperAdmin,
	RoleHRManager,
	RoleTeamLeader,
	RolePayrollAdmin,
	RoleComplianceOfficer,
	RoleEmployee,
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleHRManager, RoleTeamLeader, RolePayrollAdmin, RoleComplianceOfficer, RoleEmployee:
		return true
	}
	return false
}

// ParseRole validates data crossing a trust boundary (token claims,
// persisted sessions) before it is treated as a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}
