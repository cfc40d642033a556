package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
)

const (
	testProviderID = "prov-42"
	testLocationID = "loc-1"
	testInstanceID = "abc123"
	testAPIToken   = "evo-token"
	testCRMToken   = "crm-token"
)

var testLogger = zap.NewNop()

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			PublicBaseURL: "https://bridge.example.com",
		},
		GHL: config.GHLConfig{
			BaseURL:                "https://services.leadconnectorhq.com",
			ConversationProviderID: testProviderID,
			DefaultAgentID:         "agent-default",
			TokenRefreshWindow:     300,
		},
	}
}

func seedInstance(t *testing.T, repo repository.Repository, state domain.State) *models.Instance {
	t.Helper()

	instance := &models.Instance{
		ID:         "inst-internal-1",
		ExternalID: testInstanceID,
		APIToken:   testAPIToken,
		OwnerID:    testLocationID,
		CustomName: "Support line",
		State:      state,
		Settings:   models.Settings{},
	}
	require.NoError(t, repo.Instance().Create(context.Background(), instance))
	return instance
}

func seedUser(t *testing.T, repo repository.Repository) *models.User {
	t.Helper()

	user := &models.User{
		ID:           testLocationID,
		CompanyID:    "comp-1",
		AccessToken:  testCRMToken,
		RefreshToken: "crm-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.User().Upsert(context.Background(), user))
	return user
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}

	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		_ = client.Close()
		_ = redisContainer.Terminate(ctx)
	})

	return client
}
