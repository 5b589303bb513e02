package auth

import "testing"

func identityForRole(role Role) *Identity {
	teamID := ""
	if role == RoleTeamLeader || role == RoleEmployee {
		teamID = "team1"
	}
	return NewIdentity("u-"+string(role), string(role)+"@kiwihr.co.nz", "Test User", role, "org1", teamID)
}

func TestHasPermissionNilIdentity(t *testing.T) {
	if HasPermission(nil, PermManageEmployees) {
		t.Fatal("nil identity must deny")
	}
	if Authorize(nil, PermManageEmployees, ResourceScope{OrganizationID: "org1"}) {
		t.Fatal("nil identity must deny authorize")
	}
}

func TestHasPermissionUnknownID(t *testing.T) {
	identity := identityForRole(RoleSuperAdmin)
	if HasPermission(identity, "launch_missiles") {
		t.Fatal("unknown permission id must deny, not error")
	}
}

func TestSuperAdminHasFullCatalog(t *testing.T) {
	identity := identityForRole(RoleSuperAdmin)
	for _, id := range CatalogIDs {
		if !HasPermission(identity, id) {
			t.Fatalf("super_admin missing %s", id)
		}
	}
}

func TestHasRoleAndHasAnyRole(t *testing.T) {
	identity := identityForRole(RoleHRManager)
	if !HasRole(identity, RoleHRManager) {
		t.Fatal("expected role match")
	}
	if HasRole(identity, RoleEmployee) {
		t.Fatal("unexpected role match")
	}
	if !HasAnyRole(identity, RoleSuperAdmin, RoleHRManager) {
		t.Fatal("expected membership match")
	}
	if HasAnyRole(identity, RolePayrollAdmin, RoleComplianceOfficer) {
		t.Fatal("unexpected membership match")
	}
	if HasAnyRole(nil, RoleSuperAdmin) {
		t.Fatal("nil identity must deny")
	}
}

func TestCanAccessOrganization(t *testing.T) {
	for _, role := range AllRoles {
		identity := identityForRole(role)
		if !CanAccessOrganization(identity, "org1") {
			t.Fatalf("%s denied own organization", role)
		}
		other := CanAccessOrganization(identity, "org2")
		if role == RoleSuperAdmin && !other {
			t.Fatal("super_admin denied foreign organization")
		}
		if role != RoleSuperAdmin && other {
			t.Fatalf("%s allowed foreign organization", role)
		}
	}

	noOrg := NewIdentity("u9", "x@kiwihr.co.nz", "No Org", RoleHRManager, "", "")
	if CanAccessOrganization(noOrg, "org1") {
		t.Fatal("identity without organization allowed org access")
	}
}

func TestCanAccessTeam(t *testing.T) {
	cases := map[Role]struct{ own, other bool }{
		RoleSuperAdmin:        {true, true},
		RoleHRManager:         {true, true},
		RoleTeamLeader:        {true, false},
		RolePayrollAdmin:      {false, false},
		RoleComplianceOfficer: {false, false},
		RoleEmployee:          {false, false},
	}
	for role, want := range cases {
		identity := identityForRole(role)
		if got := CanAccessTeam(identity, "team1"); got != want.own {
			t.Fatalf("%s CanAccessTeam(team1) = %v, want %v", role, got, want.own)
		}
		if got := CanAccessTeam(identity, "team2"); got != want.other {
			t.Fatalf("%s CanAccessTeam(team2) = %v, want %v", role, got, want.other)
		}
	}
}

func TestCanManageEmployeeRecord(t *testing.T) {
	if !CanManageEmployeeRecord(identityForRole(RoleSuperAdmin), "e99", "org9") {
		t.Fatal("super_admin denied")
	}

	hr := identityForRole(RoleHRManager)
	if !CanManageEmployeeRecord(hr, "e1", "org1") {
		t.Fatal("hr_manager denied own-org employee")
	}
	if CanManageEmployeeRecord(hr, "e1", "org2") {
		t.Fatal("hr_manager allowed foreign-org employee")
	}

	// A team leader with any team id passes; the target's team membership is
	// the caller's pre-filtering responsibility.
	leader := identityForRole(RoleTeamLeader)
	if !CanManageEmployeeRecord(leader, "e1", "org1") {
		t.Fatal("team_leader with team denied")
	}
	noTeam := NewIdentity("u3", "tl@kiwihr.co.nz", "TL", RoleTeamLeader, "org1", "")
	if CanManageEmployeeRecord(noTeam, "e1", "org1") {
		t.Fatal("team_leader without team allowed")
	}

	self := identityForRole(RoleEmployee)
	if !CanManageEmployeeRecord(self, self.ID, "org2") {
		t.Fatal("employee denied own record (org must be irrelevant)")
	}
	if CanManageEmployeeRecord(self, "someone-else", "org1") {
		t.Fatal("employee allowed foreign record")
	}

	if CanManageEmployeeRecord(identityForRole(RolePayrollAdmin), "e1", "org1") {
		t.Fatal("payroll_admin allowed employee management")
	}
	if CanManageEmployeeRecord(identityForRole(RoleComplianceOfficer), "e1", "org1") {
		t.Fatal("compliance_officer allowed employee management")
	}
}

func TestAuthorizeScopeGates(t *testing.T) {
	hr := identityForRole(RoleHRManager)

	if !Authorize(hr, PermManageEmployees, ResourceScope{OrganizationID: "org1"}) {
		t.Fatal("hr_manager denied in own organization")
	}
	if Authorize(hr, PermManageEmployees, ResourceScope{OrganizationID: "org2"}) {
		t.Fatal("organization gate did not deny")
	}
	if Authorize(hr, PermManagePayroll, ResourceScope{OrganizationID: "org1"}) {
		t.Fatal("permission containment did not deny")
	}

	// Employee+organization scope defers to the record check.
	if !Authorize(hr, PermManageEmployees, ResourceScope{OrganizationID: "org1", EmployeeID: "e7"}) {
		t.Fatal("hr_manager denied own-org employee record")
	}

	payroll := identityForRole(RolePayrollAdmin)
	if Authorize(payroll, PermManagePayroll, ResourceScope{OrganizationID: "org1", TeamID: "team1"}) {
		t.Fatal("team gate did not deny payroll_admin")
	}
	if !Authorize(payroll, PermManagePayroll, ResourceScope{OrganizationID: "org1"}) {
		t.Fatal("payroll_admin denied payroll in own organization")
	}

	super := identityForRole(RoleSuperAdmin)
	if !Authorize(super, "anything", ResourceScope{OrganizationID: "org9", TeamID: "team9", EmployeeID: "e9"}) {
		t.Fatal("super_admin short-circuit failed")
	}
}

func TestEvaluatorIdempotent(t *testing.T) {
	identity := identityForRole(RoleTeamLeader)
	scope := ResourceScope{TeamID: "team1"}
	first := Authorize(identity, PermApproveLeave, scope)
	for i := 0; i < 5; i++ {
		if Authorize(identity, PermApproveLeave, scope) != first {
			t.Fatal("repeated evaluation changed result")
		}
	}
	if !first {
		t.Fatal("team_leader denied leave approval on own team")
	}
}
