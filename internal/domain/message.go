package domain

import (
	"fmt"
	"time"
)

// Direction of a relayed message relative to the business number.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Message is the normalized form of a gateway message event.
type Message struct {
	Direction Direction
	Body      string
	Timestamp time.Time
}

// TransformMessage extracts the normalized body, direction and timestamp
// from a raw gateway message event.
//
// Direction is outbound if and only if the gateway's fromMe flag is set;
// the provider delivery-status field is not consulted, it proved unreliable
// across gateway versions. Unsupported content kinds map to a placeholder
// body instead of failing.
func TransformMessage(ev MessageUpsert, receivedAt time.Time) Message {
	direction := DirectionInbound
	if ev.Key.FromMe {
		direction = DirectionOutbound
	}

	body := ""
	if ev.Message != nil {
		switch {
		case ev.Message.Conversation != "":
			body = ev.Message.Conversation
		case ev.Message.ExtendedTextMessage != nil:
			body = ev.Message.ExtendedTextMessage.Text
		}
	}
	if body == "" {
		kind := ev.MessageType
		if kind == "" {
			kind = "unknown"
		}
		body = fmt.Sprintf("[unsupported message type: %s]", kind)
	}

	ts := receivedAt
	if ev.MessageTimestamp > 0 {
		ts = time.Unix(ev.MessageTimestamp, 0)
	}

	return Message{
		Direction: direction,
		Body:      body,
		Timestamp: ts,
	}
}
