package handler

import (
	"net/http"

	"assetshare/internal/assets/service"
	"assetshare/internal/session"
	"assetshare/pkg/client"
	apperrors "assetshare/pkg/errors"
	httputil "assetshare/pkg/http"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temp files. The size limit itself is enforced by the service.
const multipartMemory = 8 << 20

type AssetHandler struct {
	service service.AssetService
	guard   session.Guard
	log     *logger.Logger
}

func NewAssetHandler(service service.AssetService, guard session.Guard, log *logger.Logger) *AssetHandler {
	return &AssetHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := model.AssetFilter{
		Search: query.Get("search"),
		Type:   query.Get("type"),
	}

	assets, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, assets); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "asset")
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	asset, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, asset); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var asset model.AssetCreate
	if err := httputil.DecodeJSON(r, &asset, false); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	created, err := h.service.Create(r.Context(), &asset)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "asset")
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var update model.AssetUpdate
	if err := httputil.DecodeJSON(r, &update, false); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"), "asset")
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("Expected a multipart form with a file"))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(client.UploadField)
	if err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("Missing file field"))
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.writeError(w, "Upload", err)
		return
	}

	if err := httputil.WriteCreated(w, model.UploadResult{URL: url}); err != nil {
		h.log.Error("failed to write created response", "handler", "Upload", "operation", "WriteCreated", "error", err)
	}
}

func (h *AssetHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AssetHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/assets", h.List)
	router.GET("/api/assets/:id", h.GetByID)
	router.POST("/api/assets", h.guard(h.Create, model.RoleAdmin))
	router.PUT("/api/assets/:id", h.guard(h.Update, model.RoleAdmin))
	router.DELETE("/api/assets/:id", h.guard(h.Delete, model.RoleAdmin))
	router.POST("/api/uploads", h.guard(h.Upload, model.RoleAdmin))
}
