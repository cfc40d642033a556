package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oneline-dev/waybridge/internal/domain"
	evomocks "github.com/oneline-dev/waybridge/internal/evolution/mocks"
	"github.com/oneline-dev/waybridge/internal/ghl"
	ghlmocks "github.com/oneline-dev/waybridge/internal/ghl/mocks"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/service"
)

type resolverFixture struct {
	gateway  *evomocks.MockClient
	crm      *ghlmocks.MockClient
	svc      service.ContactResolverService
	instance *models.Instance
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	gateway := evomocks.NewMockClient(ctrl)
	crm := ghlmocks.NewMockClient(ctrl)
	svc := service.NewContactResolver(testConfig(), crm, gateway, testLogger)

	return &resolverFixture{
		gateway: gateway,
		crm:     crm,
		svc:     svc,
		instance: &models.Instance{
			ID:         "inst-internal-1",
			ExternalID: testInstanceID,
			APIToken:   testAPIToken,
			OwnerID:    testLocationID,
		},
	}
}

func TestContactResolver_Resolve_FoundByDigits(t *testing.T) {
	f := newResolverFixture(t)

	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
		Return(&ghl.Contact{ID: "contact-1", Name: "Jane Doe"}, nil)

	contact, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
		Instance:             f.instance,
		Phone:                "15551234567@s.whatsapp.net",
		DisplayName:          "Jane",
		PreserveExistingName: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "contact-1", contact.ID)
	assert.Equal(t, "Jane Doe", contact.Name)
}

func TestContactResolver_Resolve_FoundByE164(t *testing.T) {
	f := newResolverFixture(t)

	first := f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
		Return(nil, nil)
	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "+15551234567").
		Return(&ghl.Contact{ID: "contact-2", Name: "Jane Doe"}, nil).
		After(first)

	contact, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
		Instance:             f.instance,
		Phone:                "15551234567",
		PreserveExistingName: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "contact-2", contact.ID)
}

func TestContactResolver_Resolve_CreatesMissingContact(t *testing.T) {
	f := newResolverFixture(t)

	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
		Return(nil, nil)
	f.crm.EXPECT().
		LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "+15551234567").
		Return(nil, nil)
	f.gateway.EXPECT().
		FetchProfilePictureURL(gomock.Any(), testAPIToken, testInstanceID, "15551234567").
		Return("", errors.New("no avatar"))
	f.crm.EXPECT().
		UpsertContact(gomock.Any(), testCRMToken, ghl.UpsertContactInput{
			LocationID: testLocationID,
			Phone:      "+15551234567",
			Name:       "Jane",
			Tags:       []string{"whatsapp-instance-abc123"},
		}).
		Return(&ghl.Contact{ID: "contact-3", Name: "Jane"}, nil)

	contact, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
		Instance:    f.instance,
		Phone:       "15551234567@s.whatsapp.net",
		DisplayName: "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "contact-3", contact.ID)
}

func TestContactResolver_Resolve_NameFallbacks(t *testing.T) {
	t.Run("existing name is kept when no display name arrives", func(t *testing.T) {
		f := newResolverFixture(t)

		f.crm.EXPECT().
			LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
			Return(&ghl.Contact{ID: "contact-1", Name: "Jane Doe"}, nil)
		f.gateway.EXPECT().
			FetchProfilePictureURL(gomock.Any(), testAPIToken, testInstanceID, "15551234567").
			Return("", nil)
		f.crm.EXPECT().
			UpsertContact(gomock.Any(), testCRMToken, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, input ghl.UpsertContactInput) (*ghl.Contact, error) {
				assert.Equal(t, "Jane Doe", input.Name)
				return &ghl.Contact{ID: "contact-1", Name: input.Name}, nil
			})

		_, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
			Instance: f.instance,
			Phone:    "15551234567",
		})
		assert.NoError(t, err)
	})

	t.Run("digits serve as the name of last resort", func(t *testing.T) {
		f := newResolverFixture(t)

		f.crm.EXPECT().
			LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
			Return(nil, nil)
		f.crm.EXPECT().
			LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "+15551234567").
			Return(nil, nil)
		f.gateway.EXPECT().
			FetchProfilePictureURL(gomock.Any(), testAPIToken, testInstanceID, "15551234567").
			Return("", nil)
		f.crm.EXPECT().
			UpsertContact(gomock.Any(), testCRMToken, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, input ghl.UpsertContactInput) (*ghl.Contact, error) {
				assert.Equal(t, "15551234567", input.Name)
				return &ghl.Contact{ID: "contact-4", Name: input.Name}, nil
			})

		_, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
			Instance: f.instance,
			Phone:    "15551234567",
		})
		assert.NoError(t, err)
	})
}

func TestContactResolver_Resolve_Errors(t *testing.T) {
	t.Run("unusable phone", func(t *testing.T) {
		f := newResolverFixture(t)

		_, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
			Instance: f.instance,
			Phone:    "not-a-phone",
		})
		assert.Error(t, err)
	})

	t.Run("lookup failure wraps as integration error", func(t *testing.T) {
		f := newResolverFixture(t)

		f.crm.EXPECT().
			LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
			Return(nil, errors.New("500 internal"))

		_, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
			Instance: f.instance,
			Phone:    "15551234567",
		})
		require.Error(t, err)
		assert.True(t, domain.IsIntegrationError(err))
	})

	t.Run("upsert failure wraps as integration error", func(t *testing.T) {
		f := newResolverFixture(t)

		f.crm.EXPECT().
			LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "15551234567").
			Return(nil, nil)
		f.crm.EXPECT().
			LookupContactByPhone(gomock.Any(), testCRMToken, testLocationID, "+15551234567").
			Return(nil, nil)
		f.gateway.EXPECT().
			FetchProfilePictureURL(gomock.Any(), testAPIToken, testInstanceID, "15551234567").
			Return("", nil)
		f.crm.EXPECT().
			UpsertContact(gomock.Any(), testCRMToken, gomock.Any()).
			Return(nil, errors.New("422 unprocessable"))

		_, err := f.svc.Resolve(context.Background(), testCRMToken, service.ResolveContactInput{
			Instance: f.instance,
			Phone:    "15551234567",
		})
		require.Error(t, err)
		assert.True(t, domain.IsIntegrationError(err))
	})
}
