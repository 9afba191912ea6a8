package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
	"github.com/gwilson152/TradePulse-new/internal/middleware"
	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/services"
)

// Response headers set on previews
const (
	FingerprintHeader = "X-Import-Fingerprint"
	CacheHeader       = "X-Cache"
)

// PlatformList is the response of GET /platforms
type PlatformList struct {
	Platforms []platforms.Info `json:"platforms"`
}

// ImportHandler handles platform listing and import previews
type ImportHandler struct {
	service      ImportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewImportHandler creates a new import handler with RFC 7807 error handling
func NewImportHandler(service ImportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ImportHandler {
	return &ImportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "import_handler")),
		errorHandler: errorHandler,
	}
}

// Routes mounts the platform and import routes. Preview bodies must be JSON.
func (h *ImportHandler) Routes(validator *middleware.ValidationMiddleware) chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/platforms", h.ListPlatforms)
	r.Get("/platforms/{id}", h.GetPlatform)

	r.Group(func(r chi.Router) {
		if validator != nil {
			r.Use(validator.ContentTypeValidator("application/json"))
			r.Use(validator.ValidateJSON)
		}
		r.Post("/imports/preview", h.Preview)
	})

	return r
}

// ListPlatforms handles GET /platforms
func (h *ImportHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PlatformList{Platforms: h.service.Platforms()})
}

// GetPlatform handles GET /platforms/{id}
func (h *ImportHandler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	info, ok := h.service.Platform(id)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.PlatformNotFoundError(id))
		return
	}
	render.JSON(w, r, info)
}

// Preview handles POST /imports/preview
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.PreviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(ctx, "previewing import",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("platform", req.Platform),
		slog.String("format", req.Format),
		slog.Int("content_bytes", len(req.Content)),
	)

	preview, err := h.service.Preview(ctx, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cache := "MISS"
	if preview.Cached {
		cache = "HIT"
	}
	w.Header().Set(FingerprintHeader, preview.Fingerprint)
	w.Header().Set(CacheHeader, cache)

	render.JSON(w, r, preview.Result)
}
