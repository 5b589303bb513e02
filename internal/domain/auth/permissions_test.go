package auth

import "testing"

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for _, id := range CatalogIDs {
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate permission id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestEveryRoleGetsBasePermissions(t *testing.T) {
	base := []string{PermViewOwnProfile, PermEditOwnProfile, PermSubmitOwnLeave}
	for _, role := range AllRoles {
		perms := PermissionsForRole(role)
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		byID := map[string]Permission{}
		for _, perm := range perms {
			byID[perm.ID] = perm
		}
		for _, id := range base {
			perm, ok := byID[id]
			if !ok {
				t.Fatalf("role %s missing base permission %s", role, id)
			}
			if perm.Scope != ScopeSelf {
				t.Fatalf("role %s base permission %s has scope %s, want self", role, id, perm.Scope)
			}
		}
	}
}

func TestRolePermissionsDrawnFromCatalog(t *testing.T) {
	allowed := map[string]struct{}{}
	for _, id := range CatalogIDs {
		allowed[id] = struct{}{}
	}
	for _, role := range AllRoles {
		for _, perm := range PermissionsForRole(role) {
			if _, ok := allowed[perm.ID]; !ok {
				t.Fatalf("role %s has unknown permission %s", role, perm.ID)
			}
		}
	}
}

func TestEmployeeIsSelfScopedOnly(t *testing.T) {
	for _, perm := range PermissionsForRole(RoleEmployee) {
		if perm.Scope != ScopeSelf {
			t.Fatalf("employee granted %s at scope %s", perm.ID, perm.Scope)
		}
	}
}

func TestSuperAdminGetsFullCatalog(t *testing.T) {
	perms := PermissionsForRole(RoleSuperAdmin)
	byID := map[string]Permission{}
	for _, perm := range perms {
		byID[perm.ID] = perm
	}
	for _, id := range CatalogIDs {
		perm, ok := byID[id]
		if !ok {
			t.Fatalf("super_admin missing catalog permission %s", id)
		}
		if perm.Scope != ScopeGlobal && perm.Scope != ScopeSelf {
			t.Fatalf("super_admin permission %s has scope %s", id, perm.Scope)
		}
	}
}

func TestPermissionsForRoleCopies(t *testing.T) {
	perms := PermissionsForRole(RoleHRManager)
	perms[0].ID = "tampered"
	again := PermissionsForRole(RoleHRManager)
	if again[0].ID == "tampered" {
		t.Fatal("registry table leaked a mutable slice")
	}
}

func TestPermissionsForRolePanicsOnUnknownRole(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown role")
		}
	}()
	PermissionsForRole(Role("contractor"))
}

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles {
		parsed, err := ParseRole(string(role))
		if err != nil || parsed != role {
			t.Fatalf("ParseRole(%s) = %v, %v", role, parsed, err)
		}
	}
	if _, err := ParseRole("contractor"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
