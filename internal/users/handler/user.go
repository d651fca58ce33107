package handler

import (
	"net/http"

	"assetshare/internal/session"
	"assetshare/internal/users/service"
	apperrors "assetshare/pkg/errors"
	httputil "assetshare/pkg/http"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	guard   session.Guard
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, guard session.Guard, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := service.ListFilter{
		Status: model.UserStatus(query.Get("status")),
		Role:   model.Role(query.Get("role")),
		Search: query.Get("search"),
	}

	users, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "user")
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "user")
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	var update model.UserStatusUpdate
	if err := httputil.DecodeJSON(r, &update, false); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	user, err := h.service.UpdateStatus(r.Context(), id, &update)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "user")
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if current := session.UserFromContext(r.Context()); current != nil && current.ID == id {
		h.writeError(w, "Delete", apperrors.Conflict("You cannot delete your own account"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/users", h.guard(h.GetAll, model.RoleAdmin))
	router.GET("/api/users/:id", h.guard(h.GetByID, model.RoleAdmin))
	router.PATCH("/api/users/:id/status", h.guard(h.UpdateStatus, model.RoleAdmin))
	router.DELETE("/api/users/:id", h.guard(h.Delete, model.RoleAdmin))
}
