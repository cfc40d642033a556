package service

import (
	"context"

	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/models"
)

// ResolveContactInput describes one find-or-create contact resolution.
type ResolveContactInput struct {
	Instance *models.Instance
	// Phone may arrive in any format, including a WhatsApp JID.
	Phone string
	// DisplayName is the name candidate carried by the triggering message.
	DisplayName string
	// PreserveExistingName is set for agent-originated traffic: an existing
	// contact's name must then never be overwritten.
	PreserveExistingName bool
}

// ContactResolverService finds or creates the CRM contact for a phone number.
type ContactResolverService interface {
	Resolve(ctx context.Context, accessToken string, input ResolveContactInput) (*ghl.Contact, error)
}

// WebhookService classifies and processes inbound webhook events from both
// platforms. It runs after the HTTP acknowledgement; every returned error is
// terminal-logged by the caller, never surfaced to the sender.
type WebhookService interface {
	ProcessGatewayEvent(ctx context.Context, bearerToken string, event domain.GatewayEvent) error
	ProcessCRMEvent(ctx context.Context, event models.CRMOutboundEvent) error
}

// OutboundService delivers CRM-originated messages to WhatsApp.
type OutboundService interface {
	Relay(ctx context.Context, event models.CRMOutboundEvent) error
}

// InstanceService implements the tenant-facing instance lifecycle. Every
// operation verifies ownership before acting.
type InstanceService interface {
	List(ctx context.Context, ownerID string) (*models.InstanceListResponse, error)
	Create(ctx context.Context, ownerID string, req models.CreateInstanceRequest) (*models.InstanceResponse, error)
	Rename(ctx context.Context, ownerID, id, customName string) error
	UpdateSettings(ctx context.Context, ownerID, id string, settings models.Settings) error
	Logout(ctx context.Context, ownerID, id string) error
	Delete(ctx context.Context, ownerID, id string) error
	GetQRCode(ctx context.Context, ownerID, id string) (*models.QRCodeResponse, error)
	// ReconcileInstance polls gateway truth for one instance and corrects
	// drifted local state. It returns the state to present; polling
	// failures fall back to the stored state.
	ReconcileInstance(ctx context.Context, instance *models.Instance) domain.State
}

// AuthService manages tenant OAuth credentials.
type AuthService interface {
	// EnsureFreshToken returns the tenant with a usable access token,
	// refreshing it first when inside the expiry window.
	EnsureFreshToken(ctx context.Context, locationID string) (*models.User, error)
	// CompleteInstall finishes the OAuth install flow for an authorization
	// code and persists the tenant.
	CompleteInstall(ctx context.Context, code string) (*models.User, error)
}

// ReconcilerService runs the optional background reconciliation sweep.
type ReconcilerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// HealthService reports component health.
type HealthService interface {
	GetHealth() *models.HealthResponse
}
