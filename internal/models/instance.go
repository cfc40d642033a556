// Package models defines data structures used throughout the application.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oneline-dev/waybridge/internal/domain"
)

// Settings is free-form per-instance metadata, stored as JSONB. The main use
// is mapping a WhatsApp number (digits only) to the CRM user responsible for
// it, so outbound messages are attributed to the right agent.
type Settings map[string]string

// Value implements driver.Valuer.
func (s Settings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *Settings) Scan(src interface{}) error {
	if src == nil {
		*s = Settings{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("settings: cannot scan %T", src)
	}
	return json.Unmarshal(b, s)
}

// Instance is one WhatsApp connection managed through the gateway, owned by
// a single CRM tenant.
type Instance struct {
	// ID is the internal surrogate key, used for all administrative
	// operations.
	ID string `db:"id" json:"id"`
	// ExternalID is the gateway's own identifier for this connection. It is
	// the sole key the gateway knows about; every gateway-facing call must
	// address the instance by this value.
	ExternalID string `db:"external_id" json:"externalInstanceId"`
	// APIToken is the gateway credential for this instance. Opaque secret,
	// never logged in full.
	APIToken string `db:"api_token" json:"-"`
	// OwnerID is the CRM location that owns this instance, the trust
	// boundary for every read and write.
	OwnerID    string       `db:"owner_id" json:"ownerId"`
	CustomName string       `db:"custom_name" json:"customName"`
	State      domain.State `db:"state" json:"state"`
	Settings   Settings     `db:"settings" json:"settings"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// TokenPrefix returns a loggable prefix of the instance credential.
func (i *Instance) TokenPrefix() string {
	if len(i.APIToken) <= 6 {
		return "***"
	}
	return i.APIToken[:6] + "..."
}
