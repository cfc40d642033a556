package models

// CRMOutboundEvent is the CRM-side webhook payload for an agent-sent message
// that should be relayed to WhatsApp. The endpoint is shared infrastructure:
// events whose ConversationProviderID does not match the configured provider
// belong to other integrations and must be ignored.
type CRMOutboundEvent struct {
	Type                   string   `json:"type"`
	LocationID             string   `json:"locationId"`
	Phone                  string   `json:"phone"`
	Message                string   `json:"message,omitempty"`
	MessageID              string   `json:"messageId"`
	ContactID              string   `json:"contactId,omitempty"`
	UserID                 string   `json:"userId,omitempty"`
	ConversationProviderID string   `json:"conversationProviderId"`
	Attachments            []string `json:"attachments,omitempty"`
}

// WebhookAck is the static body returned to every webhook sender before
// processing starts, so sender retry policies never fire on internal errors.
type WebhookAck struct {
	Status string `json:"status"`
}
