package domain

import "encoding/json"

// Gateway webhook event types this bridge acts on. Anything else is logged
// and ignored.
const (
	EventConnectionUpdate = "connection.update"
	EventMessagesUpsert   = "messages.upsert"
	EventQRCodeUpdated    = "qrcode.updated"
)

// GatewayEvent is the envelope of every gateway webhook delivery. Data is a
// tagged union keyed by Event; each variant's required fields are validated
// at the dispatch boundary before any field access.
type GatewayEvent struct {
	Event    string          `json:"event"`
	Instance string          `json:"instance"`
	Data     json.RawMessage `json:"data"`
	// Sender is the business number the event originated from, when the
	// gateway includes it. Used for agent attribution of outbound traffic.
	Sender    string      `json:"sender,omitempty"`
	Timestamp json.Number `json:"timestamp,omitempty"`
}

// ConnectionUpdate is the data variant of connection.update events. The
// carried state is absolute, not incremental, which is what makes repeated
// delivery idempotent.
type ConnectionUpdate struct {
	State        string `json:"state"`
	StatusReason int    `json:"statusReason,omitempty"`
}

// MessageKey identifies a message within a chat. FromMe is the only reliable
// direction signal the gateway provides.
type MessageKey struct {
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id,omitempty"`
}

// MessageContent holds the content variants a message may carry.
type MessageContent struct {
	Conversation        string `json:"conversation,omitempty"`
	ExtendedTextMessage *struct {
		Text string `json:"text"`
	} `json:"extendedTextMessage,omitempty"`
}

// MessageUpsert is the data variant of messages.upsert events.
type MessageUpsert struct {
	Key              MessageKey      `json:"key"`
	PushName         string          `json:"pushName,omitempty"`
	Message          *MessageContent `json:"message,omitempty"`
	MessageType      string          `json:"messageType,omitempty"`
	MessageTimestamp int64           `json:"messageTimestamp,omitempty"`
}

// QRCodeUpdated is the data variant of qrcode.updated events.
type QRCodeUpdated struct {
	QRCode struct {
		Base64 string `json:"base64,omitempty"`
		Code   string `json:"code,omitempty"`
	} `json:"qrcode"`
}
