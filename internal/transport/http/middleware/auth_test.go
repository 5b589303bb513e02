package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kiwihr/internal/domain/auth"
)

func newTestAuthService(t *testing.T) *auth.Service {
	t.Helper()
	accounts, err := auth.DemoAccounts()
	if err != nil {
		t.Fatalf("demo accounts: %v", err)
	}
	sessions := auth.NewSessionStore(time.Hour)
	return auth.NewService(accounts, sessions, nil, "test-secret", time.Hour)
}

func TestAuthRestoresIdentity(t *testing.T) {
	service := newTestAuthService(t)
	identity, token, err := service.Login(t.Context(), "hr.manager@kiwihr.co.nz", "password123", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var seen *auth.Identity
	handler := Auth(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil {
		t.Fatal("expected identity in context")
	}
	if seen != identity {
		t.Fatal("expected the session's materialized identity, not a copy")
	}
	if seen.Role != auth.RoleHRManager {
		t.Fatalf("unexpected role %q", seen.Role)
	}
}

func TestAuthMissingTokenIsAnonymous(t *testing.T) {
	service := newTestAuthService(t)

	called := false
	handler := Auth(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if GetIdentity(r.Context()) != nil {
			t.Fatal("expected anonymous request")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("expected handler to run anonymously")
	}
}

func TestAuthGarbageTokenIsAnonymous(t *testing.T) {
	service := newTestAuthService(t)

	handler := Auth(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) != nil {
			t.Fatal("expected anonymous request")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthRevokedSessionIsAnonymous(t *testing.T) {
	service := newTestAuthService(t)
	_, token, err := service.Login(t.Context(), "employee@kiwihr.co.nz", "password123", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var sessionID string
	capture := Auth(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID = GetSessionID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	capture.ServeHTTP(httptest.NewRecorder(), req)
	if sessionID == "" {
		t.Fatal("expected session id in context")
	}

	service.Logout(t.Context(), sessionID)

	handler := Auth(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) != nil {
			t.Fatal("expected anonymous request after logout")
		}
	}))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
