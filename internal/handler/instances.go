package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/oneline-dev/waybridge/internal/middleware"
	"github.com/oneline-dev/waybridge/internal/models"
)

// ListInstances returns the tenant's instances, reconciled against gateway
// truth.
func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	result, err := h.service.Instance.List(r.Context(), ownerID)
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to list instances")
		return
	}

	render.JSON(w, r, result)
}

// CreateInstance registers a gateway credential for the tenant.
func (h *Handler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	var req models.CreateInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Instance.Create(r.Context(), ownerID, req)
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to create instance")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

// RenameInstance updates the display label.
func (h *Handler) RenameInstance(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	id := chi.URLParam(r, "id")

	var req models.RenameInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CustomName == "" {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Instance.Rename(r.Context(), ownerID, id, req.CustomName); err != nil {
		h.handleServiceError(w, r, err, "Failed to rename instance")
		return
	}

	render.JSON(w, r, map[string]string{"status": "renamed"})
}

// UpdateInstanceSettings replaces the per-instance settings.
func (h *Handler) UpdateInstanceSettings(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	id := chi.URLParam(r, "id")

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Instance.UpdateSettings(r.Context(), ownerID, id, req.Settings); err != nil {
		h.handleServiceError(w, r, err, "Failed to update instance settings")
		return
	}

	render.JSON(w, r, map[string]string{"status": "updated"})
}

// LogoutInstance disconnects the WhatsApp session.
func (h *Handler) LogoutInstance(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Instance.Logout(r.Context(), ownerID, id); err != nil {
		h.handleServiceError(w, r, err, "Failed to logout instance")
		return
	}

	render.JSON(w, r, map[string]string{"status": "logged_out"})
}

// DeleteInstance removes an instance.
func (h *Handler) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Instance.Delete(r.Context(), ownerID, id); err != nil {
		h.handleServiceError(w, r, err, "Failed to delete instance")
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// GetInstanceQRCode fetches fresh pairing material for an instance awaiting
// authorization.
func (h *Handler) GetInstanceQRCode(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())
	id := chi.URLParam(r, "id")

	result, err := h.service.Instance.GetQRCode(r.Context(), ownerID, id)
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to fetch QR code")
		return
	}

	render.JSON(w, r, result)
}
