package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oneline-dev/waybridge/internal/domain"
)

func TestTransformMessage(t *testing.T) {
	receivedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	extended := &domain.MessageContent{}
	extended.ExtendedTextMessage = &struct {
		Text string `json:"text"`
	}{Text: "quoted reply"}

	tests := []struct {
		name              string
		event             domain.MessageUpsert
		expectedDirection domain.Direction
		expectedBody      string
		expectedTimestamp time.Time
	}{
		{
			name: "customer message with plain conversation body",
			event: domain.MessageUpsert{
				Key:              domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: false, ID: "MSG1"},
				PushName:         "Jane",
				Message:          &domain.MessageContent{Conversation: "Hello"},
				MessageType:      "conversation",
				MessageTimestamp: 1748779200,
			},
			expectedDirection: domain.DirectionInbound,
			expectedBody:      "Hello",
			expectedTimestamp: time.Unix(1748779200, 0),
		},
		{
			name: "agent message is outbound on fromMe alone",
			event: domain.MessageUpsert{
				Key:              domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: true, ID: "MSG2"},
				Message:          &domain.MessageContent{Conversation: "On my way"},
				MessageTimestamp: 1748779260,
			},
			expectedDirection: domain.DirectionOutbound,
			expectedBody:      "On my way",
			expectedTimestamp: time.Unix(1748779260, 0),
		},
		{
			name: "extended text body is used when conversation is empty",
			event: domain.MessageUpsert{
				Key:     domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net"},
				Message: extended,
			},
			expectedDirection: domain.DirectionInbound,
			expectedBody:      "quoted reply",
			expectedTimestamp: receivedAt,
		},
		{
			name: "unsupported content maps to a placeholder body",
			event: domain.MessageUpsert{
				Key:         domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net"},
				Message:     &domain.MessageContent{},
				MessageType: "imageMessage",
			},
			expectedDirection: domain.DirectionInbound,
			expectedBody:      "[unsupported message type: imageMessage]",
			expectedTimestamp: receivedAt,
		},
		{
			name: "missing content and type still produce a placeholder",
			event: domain.MessageUpsert{
				Key: domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net"},
			},
			expectedDirection: domain.DirectionInbound,
			expectedBody:      "[unsupported message type: unknown]",
			expectedTimestamp: receivedAt,
		},
		{
			name: "missing timestamp falls back to receipt time",
			event: domain.MessageUpsert{
				Key:     domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net"},
				Message: &domain.MessageContent{Conversation: "no clock"},
			},
			expectedDirection: domain.DirectionInbound,
			expectedBody:      "no clock",
			expectedTimestamp: receivedAt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := domain.TransformMessage(tt.event, receivedAt)
			assert.Equal(t, tt.expectedDirection, message.Direction)
			assert.Equal(t, tt.expectedBody, message.Body)
			assert.True(t, tt.expectedTimestamp.Equal(message.Timestamp))
		})
	}
}
