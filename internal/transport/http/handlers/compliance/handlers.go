package compliancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kiwihr/internal/domain/audit"
	"kiwihr/internal/domain/auth"
	"kiwihr/internal/platform/requestctx"
	"kiwihr/internal/transport/http/api"
	"kiwihr/internal/transport/http/middleware"
	"kiwihr/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditService *audit.Service) *Handler {
	return &Handler{Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/compliance/audit-log", h.handleListAuditLog)
}

func (h *Handler) handleListAuditLog(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	scope := auth.ResourceScope{OrganizationID: identity.OrganizationID}
	if !auth.Authorize(identity, auth.PermViewAuditLogs, scope) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	events, err := h.Audit.List(r.Context(), identity.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to list audit events", requestID)
		return
	}
	api.Success(w, events, requestID)
}
