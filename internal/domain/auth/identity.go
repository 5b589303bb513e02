package auth

// Identity is the authenticated session principal. The permission set is
// materialized from the registry exactly once, when the identity is created
// at login; evaluator checks never consult the registry again.
type Identity struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	Role           Role                  `json:"role"`
	OrganizationID string                `json:"organizationId,omitempty"`
	TeamID         string                `json:"teamId,omitempty"`
	Permissions    map[string]Permission `json:"permissions"`
}

// NewIdentity resolves the role's grant set from the registry and caches it
// on the identity for the lifetime of the session.
func NewIdentity(id, email, name string, role Role, organizationID, teamID string) *Identity {
	perms := PermissionsForRole(role)
	set := make(map[string]Permission, len(perms))
	for _, perm := range perms {
		set[perm.ID] = perm
	}
	return &Identity{
		ID:             id,
		Email:          email,
		Name:           name,
		Role:           role,
		OrganizationID: organizationID,
		TeamID:         teamID,
		Permissions:    set,
	}
}

// PermissionIDs returns the cached grant ids in catalog order, for clients
// that gate UI elements on permission presence.
func (i *Identity) PermissionIDs() []string {
	if i == nil {
		return nil
	}
	out := make([]string, 0, len(i.Permissions))
	for _, id := range CatalogIDs {
		if _, ok := i.Permissions[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
