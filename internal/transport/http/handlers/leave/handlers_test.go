package leavehandler

import (
	"testing"

	"kiwihr/internal/domain/auth"
	"kiwihr/internal/domain/leave"
)

func TestCanViewRequest(t *testing.T) {
	request := leave.Request{
		ID:             "lr1",
		EmployeeID:     "u6",
		OrganizationID: "org1",
		TeamID:         "team1",
		Status:         leave.StatusPending,
	}

	owner := auth.NewIdentity("u6", "employee@kiwihr.co.nz", "Emma Davis", auth.RoleEmployee, "org1", "team1")
	peer := auth.NewIdentity("u7", "peer@kiwihr.co.nz", "Peer Employee", auth.RoleEmployee, "org1", "team1")
	hrManager := auth.NewIdentity("u2", "hr.manager@kiwihr.co.nz", "Sarah Chen", auth.RoleHRManager, "org1", "")
	foreignHR := auth.NewIdentity("x2", "hr@other.co.nz", "Foreign HR", auth.RoleHRManager, "org2", "")
	ownLeader := auth.NewIdentity("u3", "team.leader@kiwihr.co.nz", "Mike Te Rangi", auth.RoleTeamLeader, "org1", "team1")
	otherLeader := auth.NewIdentity("u8", "leader2@kiwihr.co.nz", "Other Leader", auth.RoleTeamLeader, "org1", "team2")

	handler := &Handler{}

	tests := []struct {
		name     string
		identity *auth.Identity
		want     bool
	}{
		{"owner sees own request", owner, true},
		{"peer employee denied", peer, false},
		// hr_manager holds manage_leave at organization scope; anything
		// visible in their listing must open.
		{"hr manager sees requests in their organization", hrManager, true},
		{"hr manager of another organization denied", foreignHR, false},
		{"team leader sees own team's request", ownLeader, true},
		{"team leader of another team denied", otherLeader, false},
		{"anonymous denied", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := handler.canViewRequest(tc.identity, request); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
