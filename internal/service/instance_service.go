package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/evolution"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
)

type instanceService struct {
	cfg     *config.Config
	repo    repository.Repository
	gateway evolution.Client
	logger  *zap.Logger
}

func NewInstanceService(
	cfg *config.Config,
	repo repository.Repository,
	gateway evolution.Client,
	logger *zap.Logger,
) InstanceService {
	return &instanceService{
		cfg:     cfg,
		repo:    repo,
		gateway: gateway,
		logger:  logger,
	}
}

// List returns the tenant's instances, reconciling each against freshly
// polled gateway truth first. One failing instance never prevents the others
// from refreshing or from being returned.
func (s *instanceService) List(ctx context.Context, ownerID string) (*models.InstanceListResponse, error) {
	instances, err := s.repo.Instance().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	responses := make([]models.InstanceResponse, 0, len(instances))
	for _, instance := range instances {
		state := s.ReconcileInstance(ctx, instance)
		responses = append(responses, models.InstanceResponse{
			ID:                 instance.ID,
			ExternalInstanceID: instance.ExternalID,
			CustomName:         instance.CustomName,
			State:              state,
			Settings:           instance.Settings,
			CreatedAt:          instance.CreatedAt,
		})
	}

	return &models.InstanceListResponse{
		Instances: responses,
		Total:     len(responses),
	}, nil
}

// ReconcileInstance polls the gateway for one instance and corrects drifted
// local state. Poll failures keep the stored state.
func (s *instanceService) ReconcileInstance(ctx context.Context, instance *models.Instance) domain.State {
	raw, err := s.gateway.GetConnectionState(ctx, instance.APIToken, instance.ExternalID)
	if err != nil {
		s.logger.Warn("Reconciliation poll failed, keeping stored state",
			zap.String("instance", instance.ExternalID),
			zap.String("state", string(instance.State)),
			zap.Error(err))
		return instance.State
	}

	state, ok := domain.MapGatewayState(raw)
	if !ok {
		s.logger.Warn("Reconciliation poll returned unrecognized state, keeping stored state",
			zap.String("instance", instance.ExternalID),
			zap.String("gatewayState", raw))
		return instance.State
	}

	if state == instance.State {
		return state
	}

	if err := s.repo.Instance().UpdateState(ctx, instance.ID, state); err != nil {
		s.logger.Error("Failed to persist reconciled state",
			zap.String("instance", instance.ExternalID),
			zap.Error(err))
		return instance.State
	}

	s.logger.Info("Reconciled drifted instance state",
		zap.String("instance", instance.ExternalID),
		zap.String("from", string(instance.State)),
		zap.String("to", string(state)))
	instance.State = state
	return state
}

// Create validates the gateway credential, registers the webhook endpoint
// and persists the instance.
func (s *instanceService) Create(ctx context.Context, ownerID string, req models.CreateInstanceRequest) (*models.InstanceResponse, error) {
	if req.ExternalInstanceID == "" || req.APIToken == "" {
		return nil, fmt.Errorf("externalInstanceId and apiToken are required")
	}

	existing, err := s.repo.Instance().GetByExternalID(ctx, req.ExternalInstanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing instance: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("instance %s: %w", req.ExternalInstanceID, domain.ErrAlreadyExists)
	}

	raw, err := s.gateway.GetConnectionState(ctx, req.APIToken, req.ExternalInstanceID)
	if err != nil {
		return nil, domain.NewIntegrationError("credential validation", req.ExternalInstanceID, err)
	}

	state, ok := domain.MapGatewayState(raw)
	if !ok {
		state = domain.StateNotAuthorized
	}

	webhookURL := s.cfg.Server.PublicBaseURL + "/webhooks/evolution"
	if err := s.gateway.SetWebhook(ctx, req.APIToken, req.ExternalInstanceID, webhookURL, evolution.WebhookEvents); err != nil {
		return nil, domain.NewIntegrationError("webhook registration", req.ExternalInstanceID, err)
	}

	instance := &models.Instance{
		ID:         uuid.New().String(),
		ExternalID: req.ExternalInstanceID,
		APIToken:   req.APIToken,
		OwnerID:    ownerID,
		CustomName: req.CustomName,
		State:      state,
		Settings:   req.Settings,
	}
	if instance.Settings == nil {
		instance.Settings = models.Settings{}
	}
	if err := s.repo.Instance().Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to persist instance: %w", err)
	}

	s.logger.Info("Instance created",
		zap.String("instance", instance.ExternalID),
		zap.String("owner", ownerID),
		zap.String("state", string(state)),
		zap.String("token", instance.TokenPrefix()))

	return &models.InstanceResponse{
		ID:                 instance.ID,
		ExternalInstanceID: instance.ExternalID,
		CustomName:         instance.CustomName,
		State:              instance.State,
		Settings:           instance.Settings,
		CreatedAt:          instance.CreatedAt,
	}, nil
}

// Rename updates the display label. The label has no meaning to the gateway.
func (s *instanceService) Rename(ctx context.Context, ownerID, id, customName string) error {
	instance, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return err
	}

	return s.repo.Instance().UpdateName(ctx, instance.ID, customName)
}

// UpdateSettings replaces the free-form settings blob.
func (s *instanceService) UpdateSettings(ctx context.Context, ownerID, id string, settings models.Settings) error {
	instance, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return err
	}

	return s.repo.Instance().UpdateSettings(ctx, instance.ID, settings)
}

// Logout disconnects the WhatsApp session on the gateway and records the
// instance as no longer authorized.
func (s *instanceService) Logout(ctx context.Context, ownerID, id string) error {
	instance, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.gateway.Logout(ctx, instance.APIToken, instance.ExternalID); err != nil {
		return domain.NewIntegrationError("gateway logout", instance.ExternalID, err)
	}

	return s.repo.Instance().UpdateState(ctx, instance.ID, domain.StateNotAuthorized)
}

// Delete removes an instance. The gateway-side delete is best-effort; the
// local record always goes, a failed remote call must not leave an
// un-deletable row behind.
func (s *instanceService) Delete(ctx context.Context, ownerID, id string) error {
	instance, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.gateway.Delete(ctx, instance.APIToken, instance.ExternalID); err != nil {
		s.logger.Warn("Gateway-side delete failed, removing local record anyway",
			zap.String("instance", instance.ExternalID),
			zap.Error(err))
	}

	return s.repo.Instance().Delete(ctx, instance.ID)
}

// GetQRCode fetches fresh pairing material and marks the instance as
// awaiting a scan.
func (s *instanceService) GetQRCode(ctx context.Context, ownerID, id string) (*models.QRCodeResponse, error) {
	instance, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	qr, err := s.gateway.GetQRCode(ctx, instance.APIToken, instance.ExternalID)
	if err != nil {
		return nil, domain.NewIntegrationError("qr fetch", instance.ExternalID, err)
	}

	if err := s.repo.Instance().UpdateState(ctx, instance.ID, domain.StateQRCode); err != nil {
		s.logger.Warn("Failed to record qr_code state",
			zap.String("instance", instance.ExternalID),
			zap.Error(err))
	}

	return &models.QRCodeResponse{Type: qr.Type, Data: qr.Data}, nil
}

// authorize loads an instance by surrogate id and verifies tenant ownership.
func (s *instanceService) authorize(ctx context.Context, ownerID, id string) (*models.Instance, error) {
	instance, err := s.repo.Instance().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load instance: %w", err)
	}
	if instance == nil {
		return nil, fmt.Errorf("instance %s: %w", id, domain.ErrNotFound)
	}
	if instance.OwnerID != ownerID {
		return nil, fmt.Errorf("instance %s is not owned by %s: %w", id, ownerID, domain.ErrUnauthorized)
	}
	return instance, nil
}
