package service_test

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/oneline-dev/waybridge/internal/breaker"
	"github.com/oneline-dev/waybridge/internal/config"
	evomocks "github.com/oneline-dev/waybridge/internal/evolution/mocks"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
	"github.com/oneline-dev/waybridge/internal/service"
)

func TestHealthService_GetHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := evomocks.NewMockClient(ctrl)
	repo := repository.NewMemoryRepository()
	cfg := testConfig()
	cfg.Reconciler = config.ReconcilerConfig{IntervalMinutes: 60}

	// Nothing listens on this address; redis reports disconnected.
	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	breakerCfg := &config.CircuitBreakerConfig{
		MaxRequests:      3,
		Interval:         60,
		Timeout:          60,
		FailureRatio:     0.6,
		ConsecutiveFails: 5,
	}
	gatewayBreaker := breaker.New("evolution", breakerCfg, testLogger)
	crmBreaker := breaker.New("ghl", breakerCfg, testLogger)

	instances := service.NewInstanceService(cfg, repo, gateway, testLogger)
	reconciler := service.NewReconcilerService(cfg, repo, instances, testLogger)

	svc := service.NewHealthService(repo, redisClient, reconciler, gatewayBreaker, crmBreaker)

	health := svc.GetHealth()
	assert.Equal(t, models.HealthUnhealthy, health.Status)
	assert.Equal(t, models.HealthConnected, health.Database)
	assert.Equal(t, models.HealthDisconnected, health.Redis)
	assert.Equal(t, "stopped", health.Reconciler)
	assert.Equal(t, "closed", health.GatewayBreaker)
	assert.Equal(t, "closed", health.CRMBreaker)
}
