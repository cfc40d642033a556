package service

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/breaker"
	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/evolution"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/repository"
)

type Service struct {
	Contact    ContactResolverService
	Webhook    WebhookService
	Outbound   OutboundService
	Instance   InstanceService
	Auth       AuthService
	Reconciler ReconcilerService
	Health     HealthService
}

// Deps carries the collaborators every service is built from.
type Deps struct {
	Config         *config.Config
	Repo           repository.Repository
	Redis          *redis.Client
	Gateway        evolution.Client
	CRM            ghl.Client
	GatewayBreaker *breaker.CircuitBreaker
	CRMBreaker     *breaker.CircuitBreaker
	Logger         *zap.Logger
}

func NewService(d Deps) *Service {
	authService := NewAuthService(d.Config, d.Repo, d.CRM, d.Logger)
	contactService := NewContactResolver(d.Config, d.CRM, d.Gateway, d.Logger)
	outboundService := NewOutboundService(d.Config, d.Repo, d.Redis, d.Gateway, d.CRM, authService, d.Logger)
	webhookService := NewWebhookService(d.Config, d.Repo, d.Redis, d.CRM, authService, contactService, outboundService, d.Logger)
	instanceService := NewInstanceService(d.Config, d.Repo, d.Gateway, d.Logger)
	reconcilerService := NewReconcilerService(d.Config, d.Repo, instanceService, d.Logger)
	healthService := NewHealthService(d.Repo, d.Redis, reconcilerService, d.GatewayBreaker, d.CRMBreaker)

	return &Service{
		Contact:    contactService,
		Webhook:    webhookService,
		Outbound:   outboundService,
		Instance:   instanceService,
		Auth:       authService,
		Reconciler: reconcilerService,
		Health:     healthService,
	}
}
