package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kiwihr/internal/domain/auth"
	"kiwihr/internal/domain/reports"
	"kiwihr/internal/platform/requestctx"
	"kiwihr/internal/transport/http/api"
	"kiwihr/internal/transport/http/middleware"
)

type Handler struct {
	Reports *reports.Service
}

func NewHandler(reportsService *reports.Service) *Handler {
	return &Handler{Reports: reportsService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/overview", h.handleOverview)
	r.Get("/reports/financial", h.handleFinancial)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	scope := auth.ResourceScope{OrganizationID: identity.OrganizationID}
	if !auth.Authorize(identity, auth.PermViewReports, scope) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	overview, err := h.Reports.OrganizationOverview(r.Context(), identity.OrganizationID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to build overview", requestID)
		return
	}
	api.Success(w, overview, requestID)
}

func (h *Handler) handleFinancial(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	scope := auth.ResourceScope{OrganizationID: identity.OrganizationID}
	if !auth.Authorize(identity, auth.PermViewFinancialReports, scope) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	overview, err := h.Reports.FinancialOverview(r.Context(), identity.OrganizationID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "store_error", "failed to build financial overview", requestID)
		return
	}
	api.Success(w, overview, requestID)
}
