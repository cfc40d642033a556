// Package ghl is the REST client for the CRM platform (GoHighLevel). Calls
// are authenticated with the tenant's OAuth access token, which the auth
// service keeps fresh.
package ghl

import "context"

// Contact is the CRM-side contact record the bridge cares about.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// UpsertContactInput creates or updates a contact in one call.
type UpsertContactInput struct {
	LocationID string   `json:"locationId"`
	Phone      string   `json:"phone"`
	Name       string   `json:"name,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	AvatarURL  string   `json:"profilePhoto,omitempty"`
}

// PostMessageInput adds a message to the contact's conversation.
type PostMessageInput struct {
	LocationID             string
	ContactID              string
	Body                   string
	Direction              string
	UserID                 string
	ConversationProviderID string
	TimestampMS            int64
}

// TokenResponse is the OAuth token payload from both the authorization-code
// and refresh-token grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	LocationID   string `json:"locationId"`
	CompanyID    string `json:"companyId"`
}

// Client is the CRM-facing surface the core depends on.
type Client interface {
	// LookupContactByPhone searches for an existing contact. Absent contacts
	// return (nil, nil); callers are expected to try both the digits-only
	// and +-prefixed forms before concluding "not found".
	LookupContactByPhone(ctx context.Context, accessToken, locationID, phone string) (*Contact, error)

	// UpsertContact creates or updates a contact and returns the stored
	// record. A response without a usable contact is an error.
	UpsertContact(ctx context.Context, accessToken string, input UpsertContactInput) (*Contact, error)

	// PostMessage adds a message to the contact's conversation and returns
	// the CRM message id.
	PostMessage(ctx context.Context, accessToken string, input PostMessageInput) (string, error)

	// UpdateMessageStatus reports delivery feedback for an outbound message.
	UpdateMessageStatus(ctx context.Context, accessToken, messageID, status string) error

	// RefreshToken runs the OAuth refresh-token grant.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)

	// ExchangeCode runs the OAuth authorization-code grant on install.
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)
}
