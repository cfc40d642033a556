package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/models"
)

// Webhook endpoints acknowledge first and process after. The senders retry
// on any non-2xx response, and processing can fail for many benign reasons
// (unknown instance, malformed payload), so the ack must never depend on the
// outcome. All failure signaling past this point is via logs.

// EvolutionWebhook receives gateway events.
func (h *Handler) EvolutionWebhook(w http.ResponseWriter, r *http.Request) {
	var event domain.GatewayEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Warn("Discarding undecodable gateway webhook", zap.Error(err))
		h.ack(w, r)
		return
	}

	bearer := bearerToken(r)
	h.ack(w, r)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		if err := h.service.Webhook.ProcessGatewayEvent(ctx, bearer, event); err != nil {
			h.logger.Error("Gateway webhook processing failed",
				zap.String("event", event.Event),
				zap.String("instance", event.Instance),
				zap.Error(err))
		}
	}()
}

// GHLWebhook receives CRM outbound-message events.
func (h *Handler) GHLWebhook(w http.ResponseWriter, r *http.Request) {
	var event models.CRMOutboundEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Warn("Discarding undecodable CRM webhook", zap.Error(err))
		h.ack(w, r)
		return
	}

	h.ack(w, r)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		if err := h.service.Webhook.ProcessCRMEvent(ctx, event); err != nil {
			h.logger.Error("CRM webhook processing failed",
				zap.String("messageID", event.MessageID),
				zap.String("locationID", event.LocationID),
				zap.Error(err))
		}
	}()
}

func (h *Handler) ack(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, models.WebhookAck{Status: "received"})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// Some gateway versions send the instance credential in the apikey
	// header instead.
	return r.Header.Get("apikey")
}
