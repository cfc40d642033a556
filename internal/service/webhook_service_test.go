package service_test

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oneline-dev/waybridge/internal/domain"
	evomocks "github.com/oneline-dev/waybridge/internal/evolution/mocks"
	"github.com/oneline-dev/waybridge/internal/ghl"
	ghlmocks "github.com/oneline-dev/waybridge/internal/ghl/mocks"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
	"github.com/oneline-dev/waybridge/internal/service"
)

type webhookFixture struct {
	repo    repository.Repository
	gateway *evomocks.MockClient
	crm     *ghlmocks.MockClient
	svc     service.WebhookService
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	return newWebhookFixtureWithRedis(t, nil)
}

func newWebhookFixtureWithRedis(t *testing.T, redisClient *redis.Client) *webhookFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	gateway := evomocks.NewMockClient(ctrl)
	crm := ghlmocks.NewMockClient(ctrl)
	repo := repository.NewMemoryRepository()
	cfg := testConfig()

	auth := service.NewAuthService(cfg, repo, crm, testLogger)
	contacts := service.NewContactResolver(cfg, crm, gateway, testLogger)
	outbound := service.NewOutboundService(cfg, repo, redisClient, gateway, crm, auth, testLogger)
	svc := service.NewWebhookService(cfg, repo, redisClient, crm, auth, contacts, outbound, testLogger)

	return &webhookFixture{
		repo:    repo,
		gateway: gateway,
		crm:     crm,
		svc:     svc,
	}
}

func (f *webhookFixture) storedState(t *testing.T, id string) domain.State {
	t.Helper()

	instance, err := f.repo.Instance().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, instance)
	return instance.State
}

func connectionUpdateEvent(t *testing.T, state string) domain.GatewayEvent {
	return domain.GatewayEvent{
		Event:    domain.EventConnectionUpdate,
		Instance: testInstanceID,
		Data:     mustJSON(t, domain.ConnectionUpdate{State: state}),
	}
}

func TestWebhookService_ProcessGatewayEvent_ConnectionUpdate(t *testing.T) {
	tests := []struct {
		name          string
		initialState  domain.State
		gatewayState  string
		expectedState domain.State
	}{
		{
			name:          "open authorizes the instance",
			initialState:  domain.StateQRCode,
			gatewayState:  "open",
			expectedState: domain.StateAuthorized,
		},
		{
			name:          "connecting marks the instance starting",
			initialState:  domain.StateNotAuthorized,
			gatewayState:  "connecting",
			expectedState: domain.StateStarting,
		},
		{
			name:          "close deauthorizes the instance",
			initialState:  domain.StateAuthorized,
			gatewayState:  "close",
			expectedState: domain.StateNotAuthorized,
		},
		{
			name:          "unrecognized vocabulary keeps the stored state",
			initialState:  domain.StateAuthorized,
			gatewayState:  "hibernating",
			expectedState: domain.StateAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture(t)
			instance := seedInstance(t, f.repo, tt.initialState)

			err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, connectionUpdateEvent(t, tt.gatewayState))
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedState, f.storedState(t, instance.ID))
		})
	}
}

func TestWebhookService_ProcessGatewayEvent_ConnectionUpdateIsIdempotent(t *testing.T) {
	f := newWebhookFixture(t)
	instance := seedInstance(t, f.repo, domain.StateQRCode)

	event := connectionUpdateEvent(t, "open")
	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, event))
	}

	assert.Equal(t, domain.StateAuthorized, f.storedState(t, instance.ID))
}

func TestWebhookService_ProcessGatewayEvent_QRCodeUpdated(t *testing.T) {
	f := newWebhookFixture(t)
	instance := seedInstance(t, f.repo, domain.StateNotAuthorized)

	err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
		Event:    domain.EventQRCodeUpdated,
		Instance: testInstanceID,
		Data:     mustJSON(t, map[string]interface{}{"qrcode": map[string]string{"base64": "iVBOR..."}}),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StateQRCode, f.storedState(t, instance.ID))
}

func TestWebhookService_ProcessGatewayEvent_Discards(t *testing.T) {
	tests := []struct {
		name   string
		bearer string
		event  func(t *testing.T) domain.GatewayEvent
	}{
		{
			name:   "missing instance identifier",
			bearer: testAPIToken,
			event: func(t *testing.T) domain.GatewayEvent {
				return domain.GatewayEvent{Event: domain.EventConnectionUpdate}
			},
		},
		{
			name:   "unknown instance",
			bearer: testAPIToken,
			event: func(t *testing.T) domain.GatewayEvent {
				return domain.GatewayEvent{
					Event:    domain.EventConnectionUpdate,
					Instance: "never-registered",
					Data:     mustJSON(t, domain.ConnectionUpdate{State: "open"}),
				}
			},
		},
		{
			name:   "mismatched credential",
			bearer: "wrong-token",
			event: func(t *testing.T) domain.GatewayEvent {
				return connectionUpdateEvent(t, "open")
			},
		},
		{
			name:   "connection update without state",
			bearer: testAPIToken,
			event: func(t *testing.T) domain.GatewayEvent {
				return domain.GatewayEvent{
					Event:    domain.EventConnectionUpdate,
					Instance: testInstanceID,
					Data:     mustJSON(t, map[string]string{}),
				}
			},
		},
		{
			name:   "unhandled event type",
			bearer: testAPIToken,
			event: func(t *testing.T) domain.GatewayEvent {
				return domain.GatewayEvent{
					Event:    "contacts.update",
					Instance: testInstanceID,
				}
			},
		},
		{
			name:   "message event without remote party",
			bearer: testAPIToken,
			event: func(t *testing.T) domain.GatewayEvent {
				return domain.GatewayEvent{
					Event:    domain.EventMessagesUpsert,
					Instance: testInstanceID,
					Data:     mustJSON(t, domain.MessageUpsert{}),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture(t)
			instance := seedInstance(t, f.repo, domain.StateAuthorized)

			// No CRM or gateway expectations: a discard reaches neither
			// platform and never surfaces an error.
			err := f.svc.ProcessGatewayEvent(context.Background(), tt.bearer, tt.event(t))
			assert.NoError(t, err)
			assert.Equal(t, domain.StateAuthorized, f.storedState(t, instance.ID))
		})
	}
}

func TestWebhookService_ProcessGatewayEvent_InboundMessage(t *testing.T) {
	f := newWebhookFixture(t)
	seedInstance(t, f.repo, domain.StateAuthorized)
	seedUser(t, f.repo)

	// New customer: both lookup formats miss, the contact is created with the
	// push name and the instance tag.
	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
		Return(nil, nil)
	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "+15551234567").
		Return(nil, nil)
	f.gateway.EXPECT().
		FetchProfilePictureURL(gomock.Any(), testAPIToken, testInstanceID, "15551234567").
		Return("https://cdn.example.com/jane.jpg", nil)
	f.crm.EXPECT().
		UpsertContact(gomock.Any(), testCRMToken, ghl.UpsertContactInput{
			LocationID: testLocationID,
			Phone:      "+15551234567",
			Name:       "Jane",
			Tags:       []string{"whatsapp-instance-abc123"},
			AvatarURL:  "https://cdn.example.com/jane.jpg",
		}).
		Return(&ghl.Contact{ID: "contact-1", Name: "Jane", Phone: "+15551234567"}, nil)

	var posted ghl.PostMessageInput
	f.crm.EXPECT().
		PostMessage(gomock.Any(), testCRMToken, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, input ghl.PostMessageInput) (string, error) {
			posted = input
			return "crm-msg-1", nil
		})

	err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
		Event:    domain.EventMessagesUpsert,
		Instance: testInstanceID,
		Data: mustJSON(t, domain.MessageUpsert{
			Key:              domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: false, ID: "WAMID1"},
			PushName:         "Jane",
			Message:          &domain.MessageContent{Conversation: "Hello"},
			MessageTimestamp: 1748779200,
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, testLocationID, posted.LocationID)
	assert.Equal(t, "contact-1", posted.ContactID)
	assert.Equal(t, "Hello", posted.Body)
	assert.Equal(t, "inbound", posted.Direction)
	assert.Empty(t, posted.UserID)
	assert.Equal(t, testProviderID, posted.ConversationProviderID)
	assert.Equal(t, int64(1748779200000), posted.TimestampMS)
}

func TestWebhookService_ProcessGatewayEvent_OutboundMessagePreservesName(t *testing.T) {
	f := newWebhookFixture(t)
	instance := seedInstance(t, f.repo, domain.StateAuthorized)
	seedUser(t, f.repo)

	// Agent phone to CRM user mapping lives in the instance settings.
	instance.Settings = models.Settings{"15550001111": "agent-7"}
	require.NoError(t, f.repo.Instance().UpdateSettings(context.Background(), instance.ID, instance.Settings))

	// The contact exists under her real name. Agent traffic must return it
	// untouched: no upsert, no name overwrite.
	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
		Return(&ghl.Contact{ID: "contact-1", Name: "Jane Doe"}, nil)

	var posted ghl.PostMessageInput
	f.crm.EXPECT().
		PostMessage(gomock.Any(), testCRMToken, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, input ghl.PostMessageInput) (string, error) {
			posted = input
			return "crm-msg-2", nil
		})

	err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
		Event:    domain.EventMessagesUpsert,
		Instance: testInstanceID,
		Sender:   "15550001111@s.whatsapp.net",
		Data: mustJSON(t, domain.MessageUpsert{
			Key:      domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: true, ID: "WAMID2"},
			PushName: "Jane",
			Message:  &domain.MessageContent{Conversation: "Your order shipped"},
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, "outbound", posted.Direction)
	assert.Equal(t, "agent-7", posted.UserID)
	assert.Equal(t, "contact-1", posted.ContactID)
}

func TestWebhookService_AgentAttributionFallbacks(t *testing.T) {
	tests := []struct {
		name          string
		settings      models.Settings
		sender        string
		expectedAgent string
	}{
		{
			name:          "sender mapping wins",
			settings:      models.Settings{"15550001111": "agent-7", "defaultAgent": "agent-3"},
			sender:        "15550001111@s.whatsapp.net",
			expectedAgent: "agent-7",
		},
		{
			name:          "instance default when sender is unmapped",
			settings:      models.Settings{"defaultAgent": "agent-3"},
			sender:        "15559998888@s.whatsapp.net",
			expectedAgent: "agent-3",
		},
		{
			name:          "configured default when nothing is mapped",
			settings:      models.Settings{},
			sender:        "",
			expectedAgent: "agent-default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture(t)
			instance := seedInstance(t, f.repo, domain.StateAuthorized)
			seedUser(t, f.repo)
			require.NoError(t, f.repo.Instance().UpdateSettings(context.Background(), instance.ID, tt.settings))

			f.crm.EXPECT().
				LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
				Return(&ghl.Contact{ID: "contact-1", Name: "Jane Doe"}, nil)

			var posted ghl.PostMessageInput
			f.crm.EXPECT().
				PostMessage(gomock.Any(), testCRMToken, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, input ghl.PostMessageInput) (string, error) {
					posted = input
					return "crm-msg-3", nil
				})

			err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
				Event:    domain.EventMessagesUpsert,
				Instance: testInstanceID,
				Sender:   tt.sender,
				Data: mustJSON(t, domain.MessageUpsert{
					Key:     domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: true, ID: "WAMID3"},
					Message: &domain.MessageContent{Conversation: "ok"},
				}),
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedAgent, posted.UserID)
		})
	}
}

func TestWebhookService_ProcessGatewayEvent_NoUsableToken(t *testing.T) {
	f := newWebhookFixture(t)
	seedInstance(t, f.repo, domain.StateAuthorized)
	// No user seeded: the tenant never completed the OAuth install.

	err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
		Event:    domain.EventMessagesUpsert,
		Instance: testInstanceID,
		Data: mustJSON(t, domain.MessageUpsert{
			Key:     domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", ID: "WAMID4"},
			Message: &domain.MessageContent{Conversation: "Hello"},
		}),
	})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestWebhookService_GatewayEchoOfRelayedSendIsSuppressed(t *testing.T) {
	redisClient := setupTestRedis(t)
	f := newWebhookFixtureWithRedis(t, redisClient)
	seedInstance(t, f.repo, domain.StateAuthorized)
	seedUser(t, f.repo)

	f.gateway.EXPECT().
		SendText(gomock.Any(), testAPIToken, testInstanceID, "15551234567", "Thanks for reaching out").
		Return("WAMID-ECHO", nil)
	f.crm.EXPECT().
		UpdateMessageStatus(gomock.Any(), testCRMToken, "crm-msg-7", "delivered").
		Return(nil)

	require.NoError(t, f.svc.ProcessCRMEvent(context.Background(), models.CRMOutboundEvent{
		Type:                   "OutboundMessage",
		LocationID:             testLocationID,
		Phone:                  "+15551234567",
		Message:                "Thanks for reaching out",
		MessageID:              "crm-msg-7",
		ConversationProviderID: testProviderID,
	}))

	// The gateway reports the send back as a fromMe upsert with the same id.
	// No PostMessage expectation: relaying it would duplicate the message in
	// the CRM conversation.
	err := f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
		Event:    domain.EventMessagesUpsert,
		Instance: testInstanceID,
		Data: mustJSON(t, domain.MessageUpsert{
			Key:     domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: true, ID: "WAMID-ECHO"},
			Message: &domain.MessageContent{Conversation: "Thanks for reaching out"},
		}),
	})
	assert.NoError(t, err)
}

func TestWebhookService_CRMEchoOfRelayedMessageIsSuppressed(t *testing.T) {
	redisClient := setupTestRedis(t)
	f := newWebhookFixtureWithRedis(t, redisClient)
	seedInstance(t, f.repo, domain.StateAuthorized)
	seedUser(t, f.repo)

	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
		Return(&ghl.Contact{ID: "contact-1", Name: "Jane Doe"}, nil)
	f.crm.EXPECT().
		PostMessage(gomock.Any(), testCRMToken, gomock.Any()).
		Return("crm-msg-8", nil)

	require.NoError(t, f.svc.ProcessGatewayEvent(context.Background(), testAPIToken, domain.GatewayEvent{
		Event:    domain.EventMessagesUpsert,
		Instance: testInstanceID,
		Sender:   "15550001111@s.whatsapp.net",
		Data: mustJSON(t, domain.MessageUpsert{
			Key:     domain.MessageKey{RemoteJID: "15551234567@s.whatsapp.net", FromMe: true, ID: "WAMID6"},
			Message: &domain.MessageContent{Conversation: "On my way"},
		}),
	}))

	// The CRM fires its outbound webhook for the message just posted. No
	// SendText expectation: relaying it would send the text a second time.
	err := f.svc.ProcessCRMEvent(context.Background(), models.CRMOutboundEvent{
		Type:                   "OutboundMessage",
		LocationID:             testLocationID,
		Phone:                  "+15551234567",
		Message:                "On my way",
		MessageID:              "crm-msg-8",
		ConversationProviderID: testProviderID,
	})
	assert.NoError(t, err)
}

func TestWebhookService_ProcessCRMEvent(t *testing.T) {
	t.Run("foreign conversation provider is ignored", func(t *testing.T) {
		f := newWebhookFixture(t)
		seedInstance(t, f.repo, domain.StateAuthorized)

		err := f.svc.ProcessCRMEvent(context.Background(), models.CRMOutboundEvent{
			Type:                   "OutboundMessage",
			LocationID:             testLocationID,
			Phone:                  "+15551234567",
			Message:                "hi",
			MessageID:              "crm-msg-5",
			ConversationProviderID: "someone-elses-provider",
		})
		assert.NoError(t, err)
	})

	t.Run("malformed event is discarded", func(t *testing.T) {
		f := newWebhookFixture(t)

		err := f.svc.ProcessCRMEvent(context.Background(), models.CRMOutboundEvent{
			Type:                   "OutboundMessage",
			LocationID:             testLocationID,
			ConversationProviderID: testProviderID,
		})
		assert.NoError(t, err)
	})

	t.Run("valid event is relayed to the gateway", func(t *testing.T) {
		f := newWebhookFixture(t)
		seedInstance(t, f.repo, domain.StateAuthorized)
		seedUser(t, f.repo)

		f.gateway.EXPECT().
			SendText(gomock.Any(), testAPIToken, testInstanceID, "15551234567", "Thanks for reaching out").
			Return("WAMID5", nil)
		f.crm.EXPECT().
			UpdateMessageStatus(gomock.Any(), testCRMToken, "crm-msg-6", "delivered").
			Return(nil)

		err := f.svc.ProcessCRMEvent(context.Background(), models.CRMOutboundEvent{
			Type:                   "OutboundMessage",
			LocationID:             testLocationID,
			Phone:                  "+15551234567",
			Message:                "Thanks for reaching out",
			MessageID:              "crm-msg-6",
			ConversationProviderID: testProviderID,
		})
		assert.NoError(t, err)
	})
}
