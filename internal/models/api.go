package models

import (
	"time"

	"github.com/oneline-dev/waybridge/internal/domain"
)

// CreateInstanceRequest registers a gateway credential with the bridge. The
// credential is validated against the gateway before anything is persisted.
type CreateInstanceRequest struct {
	ExternalInstanceID string   `json:"externalInstanceId"`
	APIToken           string   `json:"apiToken"`
	CustomName         string   `json:"customName,omitempty"`
	Settings           Settings `json:"settings,omitempty"`
}

// RenameInstanceRequest updates the display label of an instance.
type RenameInstanceRequest struct {
	CustomName string `json:"customName"`
}

// UpdateSettingsRequest replaces the free-form settings of an instance.
type UpdateSettingsRequest struct {
	Settings Settings `json:"settings"`
}

// InstanceResponse is the admin API view of an instance.
type InstanceResponse struct {
	ID                 string       `json:"id"`
	ExternalInstanceID string       `json:"externalInstanceId"`
	CustomName         string       `json:"customName"`
	State              domain.State `json:"state"`
	Settings           Settings     `json:"settings,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}

// InstanceListResponse wraps the reconciled instance list.
type InstanceListResponse struct {
	Instances []InstanceResponse `json:"instances"`
	Total     int                `json:"total"`
}

// QRCodeResponse carries whatever pairing material the gateway issued.
type QRCodeResponse struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// ErrorResponse is the error envelope for the admin API.
type ErrorResponse struct {
	Error     string     `json:"error"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Health report types.

type HealthComponentStatus string

const (
	HealthConnected    HealthComponentStatus = "connected"
	HealthDisconnected HealthComponentStatus = "disconnected"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status         HealthStatus          `json:"status"`
	Database       HealthComponentStatus `json:"database_status"`
	Redis          HealthComponentStatus `json:"redis_status"`
	Reconciler     string                `json:"reconciler_status"`
	GatewayBreaker string                `json:"gateway_breaker_state"`
	CRMBreaker     string                `json:"crm_breaker_state"`
	Timestamp      time.Time             `json:"timestamp"`
}
