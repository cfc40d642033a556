// Package handler provides HTTP request handlers for the application.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/middleware"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/service"
)

const (
	errorCodeNotFound     = "NOT_FOUND"
	errorCodeUnauthorized = "UNAUTHORIZED"
	errorCodeConflict     = "CONFLICT"
	errorCodeBadRequest   = "BAD_REQUEST"
	errorCodeIntegration  = "INTEGRATION_ERROR"
)

// webhookTimeout bounds the background processing of one webhook delivery.
const webhookTimeout = 30 * time.Second

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HealthCheck reports component health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth()

	if health.Status == models.HealthUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, health)
}

// OAuthCallback finishes the CRM install flow.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "missing authorization code")
		return
	}

	user, err := h.service.Auth.CompleteInstall(r.Context(), code)
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to complete OAuth install")
		return
	}

	render.JSON(w, r, map[string]string{
		"locationId": user.ID,
		"status":     "installed",
	})
}

// handleServiceError maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, logMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	h.logger.Error(logMessage,
		zap.String("request_id", requestID),
		zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.sendError(w, r, http.StatusNotFound, errorCodeNotFound, "Resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		h.sendError(w, r, http.StatusUnauthorized, errorCodeUnauthorized, "Not authorized for this resource")
	case errors.Is(err, domain.ErrInstanceNotConnected):
		h.sendError(w, r, http.StatusConflict, errorCodeConflict, "Instance is not connected")
	case errors.Is(err, domain.ErrAlreadyExists):
		h.sendError(w, r, http.StatusConflict, errorCodeConflict, "Instance already exists")
	case domain.IsIntegrationError(err):
		h.sendError(w, r, http.StatusBadGateway, errorCodeIntegration, "Upstream platform rejected the request")
	default:
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, middleware.ErrorMessageInternal)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, models.ErrorResponse{
		Error:   errorCode,
		Message: message,
		Timestamp: func() *time.Time {
			t := time.Now()
			return &t
		}(),
	})
}
