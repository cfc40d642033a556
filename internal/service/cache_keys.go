package service

import "fmt"

// Redis keys shared between the webhook and outbound services. Each side
// records the message ids it originated so the other side can recognize the
// platform echoing a bridge-sent message back as fresh traffic.

// sentMessageKey tracks gateway message ids produced by the outbound relay.
func sentMessageKey(gatewayMessageID string) string {
	return fmt.Sprintf("sent:%s", gatewayMessageID)
}

// relayedMessageKey tracks CRM message ids produced by the inbound relay.
func relayedMessageKey(crmMessageID string) string {
	return fmt.Sprintf("relayed:%s", crmMessageID)
}
