package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/oneline-dev/waybridge/internal/breaker"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
)

type healthService struct {
	repo           repository.Repository
	redisClient    *redis.Client
	reconciler     ReconcilerService
	gatewayBreaker *breaker.CircuitBreaker
	crmBreaker     *breaker.CircuitBreaker
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	reconciler ReconcilerService,
	gatewayBreaker *breaker.CircuitBreaker,
	crmBreaker *breaker.CircuitBreaker,
) HealthService {
	return &healthService{
		repo:           repo,
		redisClient:    redisClient,
		reconciler:     reconciler,
		gatewayBreaker: gatewayBreaker,
		crmBreaker:     crmBreaker,
	}
}

func (s *healthService) GetHealth() *models.HealthResponse {
	health := &models.HealthResponse{
		Status:    models.HealthHealthy,
		Timestamp: time.Now(),
	}

	if s.reconciler.IsRunning() {
		health.Reconciler = "running"
	} else {
		health.Reconciler = "stopped"
	}

	health.Database = models.HealthConnected
	if err := s.repo.Ping(); err != nil {
		health.Database = models.HealthDisconnected
	}

	health.Redis = s.checkRedisHealth()

	health.GatewayBreaker = s.gatewayBreaker.State()
	health.CRMBreaker = s.crmBreaker.State()

	if health.Database == models.HealthDisconnected || health.Redis == models.HealthDisconnected {
		health.Status = models.HealthUnhealthy
	} else if health.GatewayBreaker == "open" || health.CRMBreaker == "open" {
		// A tripped breaker means one platform is refusing traffic; the
		// service itself is still reachable.
		health.Status = models.HealthDegraded
	}

	return health
}

func (s *healthService) checkRedisHealth() models.HealthComponentStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return models.HealthDisconnected
	}

	return models.HealthConnected
}
