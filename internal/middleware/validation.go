package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
)

// ValidationMiddleware rejects malformed request bodies before they reach handlers
type ValidationMiddleware struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	return &ValidationMiddleware{
		logger:       logger.With(slog.String("component", "validation_middleware")),
		errorHandler: errorHandler,
	}
}

// ValidateJSON checks that non-empty bodies of mutating requests are well-formed JSON.
// Place it after MaxBodySize so the read is bounded.
func (m *ValidationMiddleware) ValidateJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			m.logger.WarnContext(r.Context(), "failed to read request body",
				slog.String("error", err.Error()),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			m.errorHandler.HandleError(w, r, err)
			return
		}

		if len(body) > 0 && !json.Valid(body) {
			m.errorHandler.HandleError(w, r, apierrors.ErrInvalidJSON)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// ContentTypeValidator ensures requests with bodies declare an accepted media type
func (m *ValidationMiddleware) ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				m.errorHandler.HandleError(w, r, apierrors.New(
					http.StatusBadRequest,
					"MISSING_CONTENT_TYPE",
					"Content-Type header is required",
				))
				return
			}

			mediaType, _, err := mime.ParseMediaType(contentType)
			if err == nil {
				for _, allowed := range contentTypes {
					if mediaType == allowed {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			m.errorHandler.HandleError(w, r, apierrors.ErrUnsupportedMediaType.WithDetails(map[string]interface{}{
				"content_type": contentType,
				"allowed":      contentTypes,
			}))
		})
	}
}
