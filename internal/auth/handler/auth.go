package handler

import (
	"net/http"

	"assetshare/internal/auth/service"
	"assetshare/internal/session"
	httputil "assetshare/pkg/http"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Limiter throttles a single route. *middleware.RateLimiter is one.
type Limiter interface {
	Route(next httprouter.Handle) httprouter.Handle
}

type AuthHandler struct {
	service service.AuthService
	guard   session.Guard
	limiter Limiter
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, guard session.Guard, limiter Limiter, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		guard:   guard,
		limiter: limiter,
		log:     log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.writeError(w, "Logout", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := h.service.Me(r.Context())
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.ProfileUpdate
	if err := httputil.DecodeJSON(r, &update, false); err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), &update)
	if err != nil {
		h.writeError(w, "UpdateProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateProfile", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) limit(next httprouter.Handle) httprouter.Handle {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Route(next)
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/login", h.limit(h.Login))
	router.POST("/api/auth/register", h.limit(h.Register))
	router.POST("/api/auth/logout", h.guard(h.Logout))
	router.GET("/api/auth/me", h.Me)
	router.PUT("/api/profile", h.guard(h.UpdateProfile, model.RoleBusinessUser, model.RoleAdmin))
}
