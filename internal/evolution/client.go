// Package evolution is the REST client for the WhatsApp gateway (Evolution
// API). Every call addresses the instance by the gateway's own identifier
// and authenticates with the per-instance apikey.
package evolution

import "context"

// QRCode is the pairing material the gateway issues while an instance awaits
// authorization. Type is either "qr" (base64 image) or "code" (pairing code).
type QRCode struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Client is the gateway-facing surface the core depends on.
type Client interface {
	// SendText delivers a text message and returns the gateway message id.
	SendText(ctx context.Context, token, instanceID, number, text string) (string, error)

	// GetConnectionState returns the raw gateway connection state. The value
	// uses the gateway vocabulary; callers map it through the state table.
	GetConnectionState(ctx context.Context, token, instanceID string) (string, error)

	// GetQRCode asks the gateway for fresh pairing material.
	GetQRCode(ctx context.Context, token, instanceID string) (*QRCode, error)

	// Logout disconnects the WhatsApp session but keeps the instance.
	Logout(ctx context.Context, token, instanceID string) error

	// Delete removes the instance on the gateway side.
	Delete(ctx context.Context, token, instanceID string) error

	// SetWebhook registers the bridge's webhook endpoint for the instance.
	SetWebhook(ctx context.Context, token, instanceID, url string, events []string) error

	// FetchProfilePictureURL returns the avatar URL of a WhatsApp number, or
	// an empty string when none is set.
	FetchProfilePictureURL(ctx context.Context, token, instanceID, number string) (string, error)
}
