package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kiwihr/internal/domain/audit"
	"kiwihr/internal/domain/auth"
	"kiwihr/internal/domain/leave"
	"kiwihr/internal/platform/requestctx"
	"kiwihr/internal/transport/http/api"
	"kiwihr/internal/transport/http/middleware"
	"kiwihr/internal/transport/http/shared"
)

type Handler struct {
	Leave *leave.Store
	Audit *audit.Service
}

func NewHandler(leaveStore *leave.Store, auditService *audit.Service) *Handler {
	return &Handler{Leave: leaveStore, Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/leave/types", h.handleListTypes)
	r.Get("/leave/requests", h.handleListRequests)
	r.Post("/leave/requests", h.handleCreateRequest)
	r.Get("/leave/requests/{requestID}", h.handleGetRequest)
	r.Post("/leave/requests/{requestID}/approve", h.handleApproveRequest)
	r.Post("/leave/requests/{requestID}/decline", h.handleDeclineRequest)
}

func (h *Handler) record(r *http.Request, identity *auth.Identity, action, decision, entityID string, scope auth.ResourceScope) {
	if h.Audit == nil {
		return
	}
	_ = h.Audit.Record(r.Context(), identity, action, decision, "leave_request", entityID, requestctx.GetRequestID(r.Context()), scope)
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	api.Success(w, leave.LeaveTypes, requestctx.GetRequestID(r.Context()))
}

// handleListRequests scopes the listing to the caller's role: org-wide
// leave roles see the whole organization, a team leader their team, and
// everyone else only their own requests.
func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	var (
		requests []leave.Request
		err      error
	)
	switch {
	case auth.HasAnyRole(identity, auth.RoleSuperAdmin, auth.RoleHRManager):
		requests, err = h.Leave.ListByOrganization(r.Context(), identity.OrganizationID)
	case auth.HasRole(identity, auth.RoleTeamLeader) && identity.TeamID != "":
		requests, err = h.Leave.ListByTeam(r.Context(), identity.TeamID)
	default:
		requests, err = h.Leave.ListByEmployee(r.Context(), identity.ID)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, requests, requestID)
}

type createLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	if !auth.HasPermission(identity, auth.PermSubmitOwnLeave) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	var payload createLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("type", payload.Type, "leave type is required")
	if payload.Type != "" && !leave.ValidType(payload.Type) {
		v.Add("type", "unknown leave type")
	}
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, requestID) {
		return
	}

	req := leave.Request{
		EmployeeID:     identity.ID,
		OrganizationID: identity.OrganizationID,
		TeamID:         identity.TeamID,
		Type:           payload.Type,
		StartDate:      start,
		EndDate:        end,
		Days:           leave.WorkingDays(start, end),
		Reason:         payload.Reason,
	}
	created, err := h.Leave.Create(r.Context(), req)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to create leave request", requestID)
		return
	}
	h.record(r, identity, auth.PermSubmitOwnLeave, audit.DecisionAllowed, created.ID, auth.ResourceScope{OrganizationID: created.OrganizationID, TeamID: created.TeamID})
	api.Created(w, created, requestID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	req, err := h.Leave.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		return
	}

	if !h.canViewRequest(identity, req) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}
	api.Success(w, req, requestID)
}

// canViewRequest admits the request's owner, leave administrators for the
// owning organization, and approvers scoped to the request's team.
func (h *Handler) canViewRequest(identity *auth.Identity, req leave.Request) bool {
	if identity == nil {
		return false
	}
	if req.EmployeeID == identity.ID {
		return true
	}
	if auth.Authorize(identity, auth.PermManageLeave, auth.ResourceScope{OrganizationID: req.OrganizationID}) {
		return true
	}
	return auth.Authorize(identity, auth.PermApproveLeave, auth.ResourceScope{
		OrganizationID: req.OrganizationID,
		TeamID:         req.TeamID,
	})
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusApproved)
}

func (h *Handler) handleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusDeclined)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	req, err := h.Leave.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		return
	}

	scope := auth.ResourceScope{OrganizationID: req.OrganizationID, TeamID: req.TeamID}
	if !auth.Authorize(identity, auth.PermApproveLeave, scope) {
		h.record(r, identity, auth.PermApproveLeave, audit.DecisionDenied, req.ID, scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}
	// Nobody signs off their own leave, whatever their role.
	if req.EmployeeID == identity.ID {
		h.record(r, identity, auth.PermApproveLeave, audit.DecisionDenied, req.ID, scope)
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot decide own leave request", requestID)
		return
	}

	if err := h.Leave.Decide(r.Context(), req.ID, status, identity.ID); err != nil {
		if errors.Is(err, leave.ErrNotPending) {
			api.Fail(w, http.StatusConflict, "invalid_state", "leave request is not pending", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to decide leave request", requestID)
		return
	}
	h.record(r, identity, auth.PermApproveLeave, audit.DecisionAllowed, req.ID, scope)

	decided, err := h.Leave.Get(r.Context(), req.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to load leave request", requestID)
		return
	}
	api.Success(w, decided, requestID)
}
