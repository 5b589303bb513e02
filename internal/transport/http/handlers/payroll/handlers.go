package payrollhandler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kiwihr/internal/domain/audit"
	"kiwihr/internal/domain/auth"
	"kiwihr/internal/domain/core"
	"kiwihr/internal/domain/payroll"
	"kiwihr/internal/platform/requestctx"
	"kiwihr/internal/transport/http/api"
	"kiwihr/internal/transport/http/middleware"
	"kiwihr/internal/transport/http/shared"
)

type Handler struct {
	Payroll *payroll.Service
	Core    *core.Store
	Audit   *audit.Service
}

func NewHandler(payrollService *payroll.Service, coreStore *core.Store, auditService *audit.Service) *Handler {
	return &Handler{Payroll: payrollService, Core: coreStore, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/payroll/profiles", h.handleListProfiles)
	r.Put("/payroll/profiles/{employeeID}", h.handleUpsertProfile)
	r.Get("/payroll/profiles/{employeeID}", h.handleGetProfile)
	r.Get("/payroll/profiles/{employeeID}/pdf", h.handleProfilePDF)
}

func (h *Handler) record(r *http.Request, identity *auth.Identity, decision, entityID string, scope auth.ResourceScope) {
	if h.Audit == nil {
		return
	}
	_ = h.Audit.Record(r.Context(), identity, auth.PermManagePayroll, decision, "payroll_profile", entityID, requestctx.GetRequestID(r.Context()), scope)
}

// canManagePayroll decides payroll access against the organization that owns
// the target resource, never the caller's own organization.
func canManagePayroll(identity *auth.Identity, organizationID string) bool {
	return auth.Authorize(identity, auth.PermManagePayroll, auth.ResourceScope{OrganizationID: organizationID})
}

func (h *Handler) authorizePayroll(w http.ResponseWriter, r *http.Request, identity *auth.Identity, organizationID, entityID string) bool {
	requestID := requestctx.GetRequestID(r.Context())
	if identity == nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return false
	}
	if !canManagePayroll(identity, organizationID) {
		h.record(r, identity, audit.DecisionDenied, entityID, auth.ResourceScope{OrganizationID: organizationID})
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return false
	}
	return true
}

// targetEmployee resolves the route's employee so the authorization scope
// carries the record's organization. Missing employee is a 404 before the
// permission check, matching the employee routes.
func (h *Handler) targetEmployee(w http.ResponseWriter, r *http.Request) (core.Employee, bool) {
	requestID := requestctx.GetRequestID(r.Context())
	emp, err := h.Core.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return core.Employee{}, false
	}
	return emp, true
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	// Listing is always over the caller's own organization.
	if !h.authorizePayroll(w, r, identity, identity.OrganizationID, "") {
		return
	}

	profiles, err := h.Payroll.Store().ListByOrganization(r.Context(), identity.OrganizationID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list payroll profiles", requestID)
		return
	}
	api.Success(w, profiles, requestID)
}

type profileRequest struct {
	PayCycle      string  `json:"payCycle"`
	Salary        float64 `json:"salary"`
	TaxCode       string  `json:"taxCode"`
	KiwiSaverRate float64 `json:"kiwiSaverRate"`
}

func (h *Handler) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	emp, ok := h.targetEmployee(w, r)
	if !ok {
		return
	}
	if !h.authorizePayroll(w, r, identity, emp.OrganizationID, emp.ID) {
		return
	}

	var payload profileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Enum("payCycle", payload.PayCycle, payroll.PayCycles, "unknown pay cycle")
	v.Required("taxCode", payload.TaxCode, "tax code is required")
	if payload.Salary <= 0 {
		v.Add("salary", "salary must be positive")
	}
	if payload.KiwiSaverRate < 0 || payload.KiwiSaverRate > 0.1 {
		v.Add("kiwiSaverRate", "kiwisaver rate must be between 0 and 0.1")
	}
	if v.Reject(w, requestID) {
		return
	}

	profile, err := h.Payroll.Store().Upsert(r.Context(), payroll.Profile{
		EmployeeID:     emp.ID,
		OrganizationID: emp.OrganizationID,
		PayCycle:       payload.PayCycle,
		Salary:         payload.Salary,
		TaxCode:        payload.TaxCode,
		KiwiSaverRate:  payload.KiwiSaverRate,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to save payroll profile", requestID)
		return
	}
	h.record(r, identity, audit.DecisionAllowed, emp.ID, auth.ResourceScope{OrganizationID: emp.OrganizationID})
	api.Success(w, profile, requestID)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	emp, ok := h.targetEmployee(w, r)
	if !ok {
		return
	}
	if !h.authorizePayroll(w, r, identity, emp.OrganizationID, emp.ID) {
		return
	}

	profile, err := h.Payroll.Store().GetByEmployee(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll profile not found", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) handleProfilePDF(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	emp, ok := h.targetEmployee(w, r)
	if !ok {
		return
	}
	if !h.authorizePayroll(w, r, identity, emp.OrganizationID, emp.ID) {
		return
	}

	pdf, err := h.Payroll.GenerateProfilePDF(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll profile not found", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-profile-%s.pdf", emp.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
