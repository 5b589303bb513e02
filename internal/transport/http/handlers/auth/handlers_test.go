package authhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp/totp"

	"kiwihr/internal/domain/auth"
	"kiwihr/internal/transport/http/api"
	"kiwihr/internal/transport/http/middleware"
)

func newTestRouter(t *testing.T) (*chi.Mux, *auth.Service) {
	t.Helper()
	accounts, err := auth.DemoAccounts()
	if err != nil {
		t.Fatalf("demo accounts: %v", err)
	}
	sessions := auth.NewSessionStore(time.Hour)
	service := auth.NewService(accounts, sessions, nil, "test-secret", time.Hour)

	router := chi.NewRouter()
	router.Use(middleware.Auth(service))

	handler := NewHandler(service)
	handler.RegisterPublicRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthenticated)
		handler.RegisterRoutes(r)

		// Stand-in for any HR-management route.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermManageEmployees))
			r.Get("/employees-guarded", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, "ok", "")
			})
		})
	})
	return router, service
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, envelope
}

func login(t *testing.T, router http.Handler, email, password string) (string, map[string]any) {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/auth/login", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %+v", rec.Code, envelope.Error)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected login payload: %T", envelope.Data)
	}
	token, _ := data["token"].(string)
	user, _ := data["user"].(map[string]any)
	if token == "" || user == nil {
		t.Fatalf("login payload missing token or user: %v", data)
	}
	return token, user
}

func userPermissions(t *testing.T, user map[string]any) map[string]bool {
	t.Helper()
	raw, ok := user["permissions"].([]any)
	if !ok {
		t.Fatalf("expected permissions list, got %T", user["permissions"])
	}
	out := make(map[string]bool, len(raw))
	for _, p := range raw {
		out[p.(string)] = true
	}
	return out
}

func TestLoginHRManagerMaterializesPermissions(t *testing.T) {
	router, _ := newTestRouter(t)

	token, user := login(t, router, "hr.manager@kiwihr.co.nz", "password123")
	if user["role"] != string(auth.RoleHRManager) {
		t.Fatalf("unexpected role %v", user["role"])
	}
	if user["organizationId"] != "org1" {
		t.Fatalf("unexpected organization %v", user["organizationId"])
	}

	perms := userPermissions(t, user)
	if !perms[auth.PermManageEmployees] {
		t.Fatal("hr_manager should hold manage_employees")
	}
	if perms[auth.PermManagePayroll] {
		t.Fatal("hr_manager must not hold manage_payroll")
	}

	rec, envelope := doJSON(t, router, http.MethodGet, "/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me failed with %d", rec.Code)
	}
	me, _ := envelope.Data.(map[string]any)
	if me["email"] != "hr.manager@kiwihr.co.nz" {
		t.Fatalf("unexpected me payload: %v", me)
	}
}

func TestEmployeeDeniedOnGuardedRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := login(t, router, "employee@kiwihr.co.nz", "password123")
	rec, envelope := doJSON(t, router, http.MethodGet, "/employees-guarded", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "forbidden" {
		t.Fatalf("unexpected error payload: %+v", envelope.Error)
	}

	hrToken, _ := login(t, router, "hr.manager@kiwihr.co.nz", "password123")
	rec, _ = doJSON(t, router, http.MethodGet, "/employees-guarded", hrToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for hr_manager, got %d", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/auth/login", "", `{"email":"employee@kiwihr.co.nz","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "invalid_credentials" {
		t.Fatalf("unexpected error payload: %+v", envelope.Error)
	}

	// Unknown email must be indistinguishable from a wrong password.
	rec, envelope = doJSON(t, router, http.MethodPost, "/auth/login", "", `{"email":"nobody@kiwihr.co.nz","password":"password123"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "invalid_credentials" {
		t.Fatalf("unexpected error payload: %+v", envelope.Error)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := login(t, router, "employee@kiwihr.co.nz", "password123")

	rec, _ := doJSON(t, router, http.MethodPost, "/auth/logout", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed with %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/auth/me", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestMFASetupEnableLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	token, _ := login(t, router, "payroll@kiwihr.co.nz", "password123")

	rec, envelope := doJSON(t, router, http.MethodPost, "/auth/mfa/setup", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("mfa setup failed with %d", rec.Code)
	}
	data, _ := envelope.Data.(map[string]any)
	secret, _ := data["secret"].(string)
	if secret == "" {
		t.Fatal("expected a totp secret")
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/auth/mfa/enable", token, `{"code":"`+code+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("mfa enable failed with %d", rec.Code)
	}

	// Password alone is no longer enough.
	rec, envelope = doJSON(t, router, http.MethodPost, "/auth/login", "", `{"email":"payroll@kiwihr.co.nz","password":"password123"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without mfa code, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "mfa_required" {
		t.Fatalf("unexpected error payload: %+v", envelope.Error)
	}

	code, err = totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/auth/login", "", `{"email":"payroll@kiwihr.co.nz","password":"password123","mfaCode":"`+code+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login with mfa code to succeed, got %d", rec.Code)
	}
}
