package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiwihr/internal/domain/auth"
	"kiwihr/internal/transport/http/api"
)

func requestWithIdentity(identity *auth.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if identity == nil {
		return req
	}
	ctx := context.WithValue(req.Context(), ctxKeyIdentity, identity)
	return req.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePermission(t *testing.T) {
	hrManager := auth.NewIdentity("u2", "hr.manager@kiwihr.co.nz", "Hana Ngata", auth.RoleHRManager, "org1", "")
	employee := auth.NewIdentity("u6", "employee@kiwihr.co.nz", "Sam Parata", auth.RoleEmployee, "org1", "team1")

	tests := []struct {
		name       string
		identity   *auth.Identity
		permission string
		wantStatus int
	}{
		{"anonymous gets 401", nil, auth.PermManageEmployees, http.StatusUnauthorized},
		{"missing grant gets 403", employee, auth.PermManageEmployees, http.StatusForbidden},
		{"granted passes", hrManager, auth.PermManageEmployees, http.StatusOK},
		{"base grant passes for employee", employee, auth.PermSubmitOwnLeave, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequirePermission(tc.permission)(okHandler()).ServeHTTP(rec, requestWithIdentity(tc.identity))
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestRequirePermissionDenialEnvelope(t *testing.T) {
	employee := auth.NewIdentity("u6", "employee@kiwihr.co.nz", "Sam Parata", auth.RoleEmployee, "org1", "team1")

	rec := httptest.NewRecorder()
	RequirePermission(auth.PermManagePayroll)(okHandler()).ServeHTTP(rec, requestWithIdentity(employee))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var envelope api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected success=false")
	}
	if envelope.Error == nil || envelope.Error.Code != "forbidden" {
		t.Fatalf("unexpected error payload: %+v", envelope.Error)
	}
}

func TestRequireAnyRole(t *testing.T) {
	admin := auth.NewIdentity("u1", "admin@kiwihr.co.nz", "Ari Te Kanawa", auth.RoleSuperAdmin, "org1", "")
	leader := auth.NewIdentity("u3", "team.leader@kiwihr.co.nz", "Tane Mahuta", auth.RoleTeamLeader, "org1", "team1")

	guard := RequireAnyRole(auth.RoleSuperAdmin, auth.RoleHRManager)

	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, requestWithIdentity(admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for super_admin, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, requestWithIdentity(leader))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for team_leader, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, requestWithIdentity(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", rec.Code)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAuthenticated(okHandler()).ServeHTTP(rec, requestWithIdentity(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	employee := auth.NewIdentity("u6", "employee@kiwihr.co.nz", "Sam Parata", auth.RoleEmployee, "org1", "team1")
	rec = httptest.NewRecorder()
	RequireAuthenticated(okHandler()).ServeHTTP(rec, requestWithIdentity(employee))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
