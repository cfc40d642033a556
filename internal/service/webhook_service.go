package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
)

// settingsDefaultAgentKey is the per-instance settings fallback consulted
// before the globally configured default agent.
const settingsDefaultAgentKey = "defaultAgent"

type webhookService struct {
	cfg      *config.Config
	repo     repository.Repository
	redis    *redis.Client
	crm      ghl.Client
	auth     AuthService
	contacts ContactResolverService
	outbound OutboundService
	logger   *zap.Logger
}

func NewWebhookService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	crm ghl.Client,
	auth AuthService,
	contacts ContactResolverService,
	outbound OutboundService,
	logger *zap.Logger,
) WebhookService {
	return &webhookService{
		cfg:      cfg,
		repo:     repo,
		redis:    redisClient,
		crm:      crm,
		auth:     auth,
		contacts: contacts,
		outbound: outbound,
		logger:   logger,
	}
}

// ProcessGatewayEvent classifies one gateway webhook delivery and routes it.
// It runs after the 200 acknowledgement, so every failure here ends in a log
// line, never in a retry-provoking response. Malformed payloads are discards,
// not errors.
func (s *webhookService) ProcessGatewayEvent(ctx context.Context, bearerToken string, event domain.GatewayEvent) error {
	if event.Instance == "" {
		s.logger.Warn("Discarding gateway event without instance identifier",
			zap.String("event", event.Event))
		return nil
	}

	instance, err := s.resolveInstance(ctx, event.Instance)
	if err != nil {
		return fmt.Errorf("failed to resolve instance %s: %w", event.Instance, err)
	}
	if instance == nil {
		// Expected during instance deletion races, not an error.
		s.logger.Info("Discarding gateway event for unknown instance",
			zap.String("event", event.Event),
			zap.String("instance", event.Instance))
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(bearerToken), []byte(instance.APIToken)) != 1 {
		s.logger.Warn("Discarding gateway event with mismatched credential",
			zap.String("event", event.Event),
			zap.String("instance", event.Instance))
		return nil
	}

	switch event.Event {
	case domain.EventConnectionUpdate:
		return s.handleConnectionUpdate(ctx, instance, event)
	case domain.EventQRCodeUpdated:
		// Explicit QR issuance, the instance is awaiting a scan.
		return s.writeState(ctx, instance, domain.StateQRCode)
	case domain.EventMessagesUpsert:
		return s.handleMessageUpsert(ctx, instance, event)
	default:
		s.logger.Info("Ignoring unhandled gateway event",
			zap.String("event", event.Event),
			zap.String("instance", event.Instance))
		return nil
	}
}

// resolveInstance looks the instance up by the gateway identifier, falling
// back to the surrogate key: some gateway versions send their internal id in
// the instance field instead.
func (s *webhookService) resolveInstance(ctx context.Context, key string) (*models.Instance, error) {
	instance, err := s.repo.Instance().GetByExternalID(ctx, key)
	if err != nil {
		return nil, err
	}
	if instance != nil {
		return instance, nil
	}
	return s.repo.Instance().GetByID(ctx, key)
}

func (s *webhookService) handleConnectionUpdate(ctx context.Context, instance *models.Instance, event domain.GatewayEvent) error {
	var update domain.ConnectionUpdate
	if err := json.Unmarshal(event.Data, &update); err != nil || update.State == "" {
		s.logger.Warn("Discarding connection update without state",
			zap.String("instance", instance.ExternalID))
		return nil
	}

	state, ok := domain.MapGatewayState(update.State)
	if !ok {
		// Unknown vocabulary must never force a state reset.
		s.logger.Warn("Discarding connection update with unrecognized state",
			zap.String("instance", instance.ExternalID),
			zap.String("gatewayState", update.State))
		return nil
	}

	return s.writeState(ctx, instance, state)
}

func (s *webhookService) writeState(ctx context.Context, instance *models.Instance, state domain.State) error {
	if err := s.repo.Instance().UpdateState(ctx, instance.ID, state); err != nil {
		return fmt.Errorf("failed to persist state for %s: %w", instance.ExternalID, err)
	}

	s.logger.Info("Instance state updated",
		zap.String("instance", instance.ExternalID),
		zap.String("state", string(state)))
	return nil
}

func (s *webhookService) handleMessageUpsert(ctx context.Context, instance *models.Instance, event domain.GatewayEvent) error {
	var upsert domain.MessageUpsert
	if err := json.Unmarshal(event.Data, &upsert); err != nil || upsert.Key.RemoteJID == "" {
		s.logger.Warn("Discarding message event without remote party",
			zap.String("instance", instance.ExternalID))
		return nil
	}

	if s.alreadySeen(ctx, instance.ExternalID, upsert.Key.ID) {
		s.logger.Info("Skipping duplicate message event",
			zap.String("instance", instance.ExternalID),
			zap.String("messageID", upsert.Key.ID))
		return nil
	}

	if s.sentByBridge(ctx, upsert.Key.ID) {
		// The gateway reports every send back through messages.upsert,
		// including sends this service performed on behalf of the CRM.
		// Relaying those would duplicate each agent message.
		s.logger.Info("Skipping gateway echo of relayed message",
			zap.String("instance", instance.ExternalID),
			zap.String("messageID", upsert.Key.ID))
		return nil
	}

	user, err := s.auth.EnsureFreshToken(ctx, instance.OwnerID)
	if err != nil {
		return fmt.Errorf("no usable CRM token for %s: %w", instance.OwnerID, err)
	}

	message := domain.TransformMessage(upsert, time.Now())

	contact, err := s.contacts.Resolve(ctx, user.AccessToken, ResolveContactInput{
		Instance:             instance,
		Phone:                upsert.Key.RemoteJID,
		DisplayName:          upsert.PushName,
		PreserveExistingName: message.Direction == domain.DirectionOutbound,
	})
	if err != nil {
		return fmt.Errorf("contact resolution failed: %w", err)
	}

	var agentID string
	if message.Direction == domain.DirectionOutbound {
		agentID = s.attributeAgent(instance, event.Sender)
	}

	crmMessageID, err := s.crm.PostMessage(ctx, user.AccessToken, ghl.PostMessageInput{
		LocationID:             instance.OwnerID,
		ContactID:              contact.ID,
		Body:                   message.Body,
		Direction:              string(message.Direction),
		UserID:                 agentID,
		ConversationProviderID: s.cfg.GHL.ConversationProviderID,
		TimestampMS:            message.Timestamp.UnixMilli(),
	})
	if err != nil {
		return domain.NewIntegrationError("crm message post", contact.ID, err)
	}

	s.cacheRelayedMessage(ctx, crmMessageID, instance.ExternalID)

	s.logger.Info("Relayed gateway message to CRM",
		zap.String("instance", instance.ExternalID),
		zap.String("contactID", contact.ID),
		zap.String("direction", string(message.Direction)),
		zap.String("crmMessageID", crmMessageID))
	return nil
}

// attributeAgent maps the sending business number to a CRM user id via the
// instance settings cache, with per-instance then configured fallbacks.
func (s *webhookService) attributeAgent(instance *models.Instance, sender string) string {
	if digits := domain.DigitsOnly(sender); digits != "" {
		if agentID, ok := instance.Settings[digits]; ok && agentID != "" {
			return agentID
		}
	}
	if agentID, ok := instance.Settings[settingsDefaultAgentKey]; ok && agentID != "" {
		return agentID
	}
	return s.cfg.GHL.DefaultAgentID
}

// alreadySeen suppresses webhook redeliveries through a redis set-if-absent.
// Redis being down only costs the suppression: processing is idempotent
// anyway, so the event is handled rather than dropped.
func (s *webhookService) alreadySeen(ctx context.Context, instanceID, messageID string) bool {
	if messageID == "" || s.redis == nil {
		return false
	}

	key := fmt.Sprintf("evt:%s:%s", instanceID, messageID)
	set, err := s.redis.SetNX(ctx, key, time.Now().Format(time.RFC3339), 24*time.Hour).Result()
	if err != nil {
		s.logger.Warn("Duplicate suppression unavailable", zap.Error(err))
		return false
	}
	return !set
}

func (s *webhookService) cacheRelayedMessage(ctx context.Context, crmMessageID, instanceID string) {
	if crmMessageID == "" || s.redis == nil {
		return
	}

	if err := s.redis.Set(ctx, relayedMessageKey(crmMessageID), instanceID, 24*time.Hour).Err(); err != nil {
		s.logger.Warn("Failed to cache relayed message id",
			zap.String("crmMessageID", crmMessageID),
			zap.Error(err))
	}
}

// sentByBridge reports whether a gateway message id came out of this
// service's own outbound relay. Redis being down only costs the suppression.
func (s *webhookService) sentByBridge(ctx context.Context, gatewayMessageID string) bool {
	if gatewayMessageID == "" || s.redis == nil {
		return false
	}

	hits, err := s.redis.Exists(ctx, sentMessageKey(gatewayMessageID)).Result()
	if err != nil {
		s.logger.Warn("Echo suppression unavailable", zap.Error(err))
		return false
	}
	return hits > 0
}

// relayedByBridge reports whether a CRM message id was posted by this
// service's own inbound relay.
func (s *webhookService) relayedByBridge(ctx context.Context, crmMessageID string) bool {
	if crmMessageID == "" || s.redis == nil {
		return false
	}

	hits, err := s.redis.Exists(ctx, relayedMessageKey(crmMessageID)).Result()
	if err != nil {
		s.logger.Warn("Echo suppression unavailable", zap.Error(err))
		return false
	}
	return hits > 0
}

// ProcessCRMEvent validates a CRM webhook delivery and hands it to the
// outbound relay. The endpoint is shared infrastructure: traffic for other
// conversation providers is silently ignored.
func (s *webhookService) ProcessCRMEvent(ctx context.Context, event models.CRMOutboundEvent) error {
	if event.ConversationProviderID != s.cfg.GHL.ConversationProviderID {
		s.logger.Info("Ignoring CRM event for foreign conversation provider",
			zap.String("provider", event.ConversationProviderID))
		return nil
	}

	if event.LocationID == "" || event.Phone == "" || event.Message == "" {
		s.logger.Warn("Discarding malformed CRM event",
			zap.String("locationID", event.LocationID),
			zap.String("messageID", event.MessageID))
		return nil
	}

	if s.relayedByBridge(ctx, event.MessageID) {
		// The CRM fires its outbound webhook for messages this service
		// posted from the gateway. Sending those would loop them back.
		s.logger.Info("Skipping CRM echo of relayed message",
			zap.String("messageID", event.MessageID))
		return nil
	}

	return s.outbound.Relay(ctx, event)
}
