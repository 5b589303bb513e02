package corehandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kiwihr/internal/domain/audit"
	"kiwihr/internal/domain/auth"
	"kiwihr/internal/domain/core"
	"kiwihr/internal/platform/requestctx"
	"kiwihr/internal/transport/http/api"
	"kiwihr/internal/transport/http/middleware"
	"kiwihr/internal/transport/http/shared"
)

type Handler struct {
	Core  *core.Store
	Audit *audit.Service
}

func NewHandler(coreStore *core.Store, auditService *audit.Service) *Handler {
	return &Handler{Core: coreStore, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/organizations/{orgID}", h.handleGetOrganization)
	r.Put("/organizations/{orgID}", h.handleUpdateOrganization)
	r.Get("/organizations/{orgID}/teams", h.handleListTeams)
	r.Post("/organizations/{orgID}/teams", h.handleCreateTeam)
	r.Get("/organizations/{orgID}/employees", h.handleListEmployees)
	r.Post("/organizations/{orgID}/employees", h.handleCreateEmployee)
	r.Get("/employees/{employeeID}", h.handleGetEmployee)
	r.Put("/employees/{employeeID}", h.handleUpdateEmployee)
	r.Get("/me/profile", h.handleGetOwnProfile)
	r.Put("/me/profile", h.handleUpdateOwnProfile)
}

func (h *Handler) record(r *http.Request, identity *auth.Identity, action, decision, entityType, entityID string, scope auth.ResourceScope) {
	if h.Audit == nil {
		return
	}
	_ = h.Audit.Record(r.Context(), identity, action, decision, entityType, entityID, requestctx.GetRequestID(r.Context()), scope)
}

func (h *Handler) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	orgID := chi.URLParam(r, "orgID")

	if !auth.CanAccessOrganization(identity, orgID) {
		h.record(r, identity, "view_organization", audit.DecisionDenied, "organization", orgID, auth.ResourceScope{OrganizationID: orgID})
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	org, err := h.Core.GetOrganization(r.Context(), orgID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "organization not found", requestID)
		return
	}
	api.Success(w, org, requestID)
}

type updateOrganizationRequest struct {
	Name string `json:"name"`
	NZBN string `json:"nzbn"`
}

func (h *Handler) handleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	orgID := chi.URLParam(r, "orgID")
	scope := auth.ResourceScope{OrganizationID: orgID}

	if !auth.Authorize(identity, auth.PermManageOrganizations, scope) {
		h.record(r, identity, auth.PermManageOrganizations, audit.DecisionDenied, "organization", orgID, scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	var payload updateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Core.UpdateOrganization(r.Context(), orgID, payload.Name, payload.NZBN); err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to update organization", requestID)
		return
	}
	h.record(r, identity, auth.PermManageOrganizations, audit.DecisionAllowed, "organization", orgID, scope)
	api.Success(w, map[string]string{"status": "updated"}, requestID)
}

func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	orgID := chi.URLParam(r, "orgID")

	if !auth.CanAccessOrganization(identity, orgID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	teams, err := h.Core.ListTeams(r.Context(), orgID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list teams", requestID)
		return
	}
	api.Success(w, teams, requestID)
}

type createTeamRequest struct {
	Name     string `json:"name"`
	LeaderID string `json:"leaderId"`
}

func (h *Handler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	orgID := chi.URLParam(r, "orgID")
	scope := auth.ResourceScope{OrganizationID: orgID}

	if !auth.Authorize(identity, auth.PermManageTeams, scope) {
		h.record(r, identity, auth.PermManageTeams, audit.DecisionDenied, "team", "", scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	var payload createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return
	}

	team, err := h.Core.CreateTeam(r.Context(), orgID, payload.Name, payload.LeaderID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to create team", requestID)
		return
	}
	h.record(r, identity, auth.PermManageTeams, audit.DecisionAllowed, "team", team.ID, scope)
	api.Created(w, team, requestID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	orgID := chi.URLParam(r, "orgID")

	if !auth.CanAccessOrganization(identity, orgID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	employees, err := h.Core.ListEmployees(r.Context(), orgID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list employees", requestID)
		return
	}

	visible := h.visibleEmployees(identity, employees)
	for i := range visible {
		core.FilterEmployeeFields(&visible[i], identity, visible[i].UserID == identity.ID)
	}
	api.Success(w, visible, requestID)
}

// visibleEmployees narrows the listing to what the caller's role may see:
// org-wide roles see everyone, a team leader sees their own team, everyone
// else sees only their own record.
func (h *Handler) visibleEmployees(identity *auth.Identity, employees []core.Employee) []core.Employee {
	if auth.HasAnyRole(identity, auth.RoleSuperAdmin, auth.RoleHRManager, auth.RolePayrollAdmin, auth.RoleComplianceOfficer) {
		return employees
	}

	out := make([]core.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.UserID == identity.ID {
			out = append(out, emp)
			continue
		}
		if auth.HasRole(identity, auth.RoleTeamLeader) && identity.TeamID != "" && emp.TeamID == identity.TeamID {
			out = append(out, emp)
		}
	}
	return out
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	emp, err := h.Core.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}

	isSelf := identity != nil && emp.UserID == identity.ID
	if !isSelf && !auth.CanManageEmployeeRecord(identity, emp.ID, emp.OrganizationID) {
		scope := auth.ResourceScope{OrganizationID: emp.OrganizationID, EmployeeID: emp.ID}
		h.record(r, identity, "view_employee", audit.DecisionDenied, "employee", emp.ID, scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	core.FilterEmployeeFields(&emp, identity, isSelf)
	api.Success(w, emp, requestID)
}

type employeeRequest struct {
	UserID         string `json:"userId"`
	TeamID         string `json:"teamId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Position       string `json:"position"`
	EmploymentType string `json:"employmentType"`
	IRDNumber      string `json:"irdNumber"`
	BankAccount    string `json:"bankAccount"`
	StartDate      string `json:"startDate"`
	Status         string `json:"status"`
}

var employmentTypes = []string{"full_time", "part_time", "casual", "fixed_term", "contractor"}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	orgID := chi.URLParam(r, "orgID")
	scope := auth.ResourceScope{OrganizationID: orgID}

	if !auth.Authorize(identity, auth.PermManageEmployees, scope) {
		h.record(r, identity, auth.PermManageEmployees, audit.DecisionDenied, "employee", "", scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.Enum("employmentType", payload.EmploymentType, employmentTypes, "unknown employment type")
	var startDate *time.Time
	if payload.StartDate != "" {
		if parsed, ok := v.Date("startDate", payload.StartDate); ok {
			startDate = &parsed
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	emp := core.Employee{
		UserID:         payload.UserID,
		OrganizationID: orgID,
		TeamID:         payload.TeamID,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Position:       payload.Position,
		EmploymentType: payload.EmploymentType,
		IRDNumber:      payload.IRDNumber,
		BankAccount:    payload.BankAccount,
		StartDate:      startDate,
		Status:         payload.Status,
	}
	if emp.Status == "" {
		emp.Status = "active"
	}

	created, err := h.Core.CreateEmployee(r.Context(), emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to create employee", requestID)
		return
	}
	h.record(r, identity, auth.PermManageEmployees, audit.DecisionAllowed, "employee", created.ID, scope)
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	current, err := h.Core.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}

	scope := auth.ResourceScope{OrganizationID: current.OrganizationID, EmployeeID: current.ID}
	if !auth.Authorize(identity, auth.PermManageEmployees, scope) {
		h.record(r, identity, auth.PermManageEmployees, audit.DecisionDenied, "employee", current.ID, scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	if payload.EmploymentType != "" {
		v.Enum("employmentType", payload.EmploymentType, employmentTypes, "unknown employment type")
	}
	if v.Reject(w, requestID) {
		return
	}

	applyEmployeeUpdate(&current, payload)
	if err := h.Core.UpdateEmployee(r.Context(), current); err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to update employee", requestID)
		return
	}
	h.record(r, identity, auth.PermManageEmployees, audit.DecisionAllowed, "employee", current.ID, scope)

	isSelf := identity != nil && current.UserID == identity.ID
	core.FilterEmployeeFields(&current, identity, isSelf)
	api.Success(w, current, requestID)
}

func (h *Handler) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	if !auth.HasPermission(identity, auth.PermViewOwnProfile) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	emp, err := h.Core.GetEmployeeByUserID(r.Context(), identity.ID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", requestID)
		return
	}
	core.FilterEmployeeFields(&emp, identity, true)
	api.Success(w, emp, requestID)
}

type ownProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BankAccount string `json:"bankAccount"`
}

// handleUpdateOwnProfile lets anyone edit their own contact details.
// Employment fields (team, position, status) stay with manage_employees.
func (h *Handler) handleUpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	if !auth.HasPermission(identity, auth.PermEditOwnProfile) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	emp, err := h.Core.GetEmployeeByUserID(r.Context(), identity.ID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", requestID)
		return
	}

	var payload ownProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	if payload.FirstName != "" {
		emp.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		emp.LastName = payload.LastName
	}
	if payload.BankAccount != "" {
		emp.BankAccount = payload.BankAccount
	}
	if err := h.Core.UpdateEmployee(r.Context(), emp); err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to update profile", requestID)
		return
	}
	h.record(r, identity, auth.PermEditOwnProfile, audit.DecisionAllowed, "employee", emp.ID, auth.ResourceScope{OrganizationID: emp.OrganizationID})

	core.FilterEmployeeFields(&emp, identity, true)
	api.Success(w, emp, requestID)
}

func applyEmployeeUpdate(emp *core.Employee, payload employeeRequest) {
	if payload.TeamID != "" {
		emp.TeamID = payload.TeamID
	}
	if payload.FirstName != "" {
		emp.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		emp.LastName = payload.LastName
	}
	if payload.Position != "" {
		emp.Position = payload.Position
	}
	if payload.EmploymentType != "" {
		emp.EmploymentType = payload.EmploymentType
	}
	if payload.IRDNumber != "" {
		emp.IRDNumber = payload.IRDNumber
	}
	if payload.BankAccount != "" {
		emp.BankAccount = payload.BankAccount
	}
	if payload.Status != "" {
		emp.Status = payload.Status
	}
}
