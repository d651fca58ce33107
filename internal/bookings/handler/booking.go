package handler

import (
	"net/http"
	"strings"

	"assetshare/internal/bookings/service"
	"assetshare/internal/session"
	apperrors "assetshare/pkg/errors"
	httputil "assetshare/pkg/http"
	"assetshare/pkg/lifecycle"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	guard   session.Guard
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, guard session.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := service.ListFilter{
		Group:  lifecycle.Group(query.Get("group")),
		Search: query.Get("search"),
	}
	if raw := query.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := model.BookingStatus(strings.TrimSpace(s))
			if !status.Valid() {
				h.writeError(w, "GetAll", apperrors.InvalidInput("Unknown booking status: "+string(status)))
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	items, err := h.service.List(r.Context(), filter, roleOf(r))
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, items); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "booking")
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	view, err := h.service.View(r.Context(), id, roleOf(r))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.BookingCreate
	if err := httputil.DecodeJSON(r, &booking, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	created, err := h.service.Create(r.Context(), &booking)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Perform(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "booking")
	if err != nil {
		h.writeError(w, "Perform", err)
		return
	}
	action := lifecycle.Action(ps.ByName("action"))

	booking, err := h.service.Perform(r.Context(), id, action, roleOf(r))
	if err != nil {
		h.writeError(w, "Perform", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Perform", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "booking")
	if err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	var payment model.PaymentCreate
	if err := httputil.DecodeJSON(r, &payment, true); err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	paid, err := h.service.Pay(r.Context(), id, &payment)
	if err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	if err := httputil.WriteCreated(w, paid); err != nil {
		h.log.Error("failed to write created response", "handler", "Pay", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "booking")
	if err != nil {
		h.writeError(w, "Receipt", err)
		return
	}

	filename, content, err := h.service.Receipt(r.Context(), id)
	if err != nil {
		h.writeError(w, "Receipt", err)
		return
	}

	if err := httputil.WriteAttachment(w, filename, content); err != nil {
		h.log.Error("failed to write attachment", "handler", "Receipt", "operation", "WriteAttachment", "error", err)
	}
}

func (h *BookingHandler) Feedback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "booking")
	if err != nil {
		h.writeError(w, "Feedback", err)
		return
	}

	var feedback model.FeedbackCreate
	if err := httputil.DecodeJSON(r, &feedback, false); err != nil {
		h.writeError(w, "Feedback", err)
		return
	}

	created, err := h.service.Feedback(r.Context(), id, &feedback)
	if err != nil {
		h.writeError(w, "Feedback", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Feedback", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Statuses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	role := model.Role(r.URL.Query().Get("role"))
	if err := httputil.WriteSuccess(w, h.service.Statuses(role)); err != nil {
		h.log.Error("failed to write success response", "handler", "Statuses", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func roleOf(r *http.Request) model.Role {
	if u := session.UserFromContext(r.Context()); u != nil {
		return u.Role
	}
	return model.RoleBusinessUser
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/bookings", h.guard(h.GetAll))
	router.POST("/api/bookings", h.guard(h.Create))
	router.GET("/api/bookings/:id", h.guard(h.GetByID))
	router.POST("/api/bookings/:id/actions/:action", h.guard(h.Perform))
	router.POST("/api/bookings/:id/pay", h.guard(h.Pay, model.RoleBusinessUser))
	router.GET("/api/bookings/:id/receipt", h.guard(h.Receipt))
	router.POST("/api/bookings/:id/feedback", h.guard(h.Feedback, model.RoleBusinessUser))
	router.GET("/api/statuses", h.Statuses)
}
