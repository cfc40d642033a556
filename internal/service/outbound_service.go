package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/evolution"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
)

// Delivery statuses reported back to the CRM.
const (
	statusDelivered = "delivered"
	statusFailed    = "failed"
)

type outboundService struct {
	cfg     *config.Config
	repo    repository.Repository
	redis   *redis.Client
	gateway evolution.Client
	crm     ghl.Client
	auth    AuthService
	logger  *zap.Logger
}

func NewOutboundService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	gateway evolution.Client,
	crm ghl.Client,
	auth AuthService,
	logger *zap.Logger,
) OutboundService {
	return &outboundService{
		cfg:     cfg,
		repo:    repo,
		redis:   redisClient,
		gateway: gateway,
		crm:     crm,
		auth:    auth,
		logger:  logger,
	}
}

// Relay delivers one CRM-originated message to WhatsApp and reports delivery
// status back to the CRM.
//
// Sends refuse to run on instances that are not authorized; letting the
// gateway reject them would surface a worse error later. The phone is tried
// digits-only first, then exactly once more in E.164 form, never further: a
// number failing both formats is genuinely invalid and retrying would hammer
// the gateway.
func (s *outboundService) Relay(ctx context.Context, event models.CRMOutboundEvent) error {
	instance, err := s.pickInstance(ctx, event.LocationID)
	if err != nil {
		return err
	}

	gatewayMessageID, sendErr := s.sendWithFormatRetry(ctx, instance, event.Phone, event.Message)

	if sendErr != nil {
		s.reportStatus(ctx, event, statusFailed)
		return domain.NewIntegrationError("gateway send", event.Phone, sendErr)
	}

	s.cacheSentMessage(ctx, gatewayMessageID, event.MessageID)
	s.reportStatus(ctx, event, statusDelivered)

	s.logger.Info("Relayed CRM message to gateway",
		zap.String("instance", instance.ExternalID),
		zap.String("crmMessageID", event.MessageID),
		zap.String("gatewayMessageID", gatewayMessageID))
	return nil
}

// pickInstance resolves which of the tenant's instances carries the send.
// The CRM webhook carries no instance identifier, so the first authorized
// instance of the location is used.
func (s *outboundService) pickInstance(ctx context.Context, locationID string) (*models.Instance, error) {
	instances, err := s.repo.Instance().ListByOwner(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances for %s: %w", locationID, err)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instance for location %s: %w", locationID, domain.ErrNotFound)
	}

	for _, instance := range instances {
		if instance.State == domain.StateAuthorized {
			return instance, nil
		}
	}
	return nil, fmt.Errorf("no authorized instance for location %s: %w", locationID, domain.ErrInstanceNotConnected)
}

func (s *outboundService) sendWithFormatRetry(ctx context.Context, instance *models.Instance, phone, text string) (string, error) {
	digits := domain.DigitsOnly(phone)
	if digits == "" {
		return "", fmt.Errorf("no usable phone in %q", phone)
	}

	messageID, err := s.gateway.SendText(ctx, instance.APIToken, instance.ExternalID, digits, text)
	if err == nil {
		return messageID, nil
	}

	s.logger.Warn("Gateway send failed, retrying with E.164 format",
		zap.String("instance", instance.ExternalID),
		zap.Error(err))

	messageID, retryErr := s.gateway.SendText(ctx, instance.APIToken, instance.ExternalID, domain.E164(digits), text)
	if retryErr != nil {
		return "", fmt.Errorf("both phone formats failed: %v; %w", err, retryErr)
	}
	return messageID, nil
}

// reportStatus posts delivery feedback to the CRM. Best-effort: the WhatsApp
// send already settled, so failures here are logged and swallowed.
func (s *outboundService) reportStatus(ctx context.Context, event models.CRMOutboundEvent, status string) {
	if event.MessageID == "" {
		return
	}

	user, err := s.auth.EnsureFreshToken(ctx, event.LocationID)
	if err != nil {
		s.logger.Warn("Skipping delivery status callback, no usable CRM token",
			zap.String("locationID", event.LocationID),
			zap.Error(err))
		return
	}

	if err := s.crm.UpdateMessageStatus(ctx, user.AccessToken, event.MessageID, status); err != nil {
		s.logger.Warn("Failed to report delivery status to CRM",
			zap.String("crmMessageID", event.MessageID),
			zap.String("status", status),
			zap.Error(err))
	}
}

func (s *outboundService) cacheSentMessage(ctx context.Context, gatewayMessageID, crmMessageID string) {
	if gatewayMessageID == "" || s.redis == nil {
		return
	}

	if err := s.redis.Set(ctx, sentMessageKey(gatewayMessageID), crmMessageID, 24*time.Hour).Err(); err != nil {
		s.logger.Warn("Failed to cache sent message id",
			zap.String("gatewayMessageID", gatewayMessageID),
			zap.Error(err))
	}
}
