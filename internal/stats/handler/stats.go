package handler

import (
	"net/http"

	"assetshare/internal/session"
	"assetshare/internal/stats/service"
	httputil "assetshare/pkg/http"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type StatsHandler struct {
	service service.StatsService
	guard   session.Guard
	log     *logger.Logger
}

func NewStatsHandler(service service.StatsService, guard session.Guard, log *logger.Logger) *StatsHandler {
	return &StatsHandler{service: service, guard: guard, log: log}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Overview(r.Context())
	if err != nil {
		h.writeError(w, "Overview", err)
		return
	}
	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Overview", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	role := model.RoleBusinessUser
	if u := session.UserFromContext(r.Context()); u != nil {
		role = u.Role
	}

	dashboard, err := h.service.Dashboard(r.Context(), role)
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}
	if err := httputil.WriteSuccess(w, dashboard); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StatsHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *StatsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/stats", h.guard(h.Overview))
	router.GET("/api/dashboard", h.guard(h.Dashboard))
}
