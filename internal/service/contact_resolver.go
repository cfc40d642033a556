package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/evolution"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/models"
)

type contactResolver struct {
	cfg     *config.Config
	crm     ghl.Client
	gateway evolution.Client
	logger  *zap.Logger
}

func NewContactResolver(
	cfg *config.Config,
	crm ghl.Client,
	gateway evolution.Client,
	logger *zap.Logger,
) ContactResolverService {
	return &contactResolver{
		cfg:     cfg,
		crm:     crm,
		gateway: gateway,
		logger:  logger,
	}
}

// Resolve finds or creates the CRM contact for a phone number, tagging it
// with the owning instance.
//
// The upstream CRM's own phone normalization is inconsistent, so lookups try
// both the digits-only and +-prefixed forms before concluding "not found".
// With PreserveExistingName set, an existing contact is returned untouched:
// only genuinely new inbound contact information may update the name,
// otherwise an agent's outbound replies would clobber the customer's real
// name with a placeholder.
func (s *contactResolver) Resolve(ctx context.Context, accessToken string, input ResolveContactInput) (*ghl.Contact, error) {
	digits := domain.DigitsOnly(input.Phone)
	if digits == "" {
		return nil, fmt.Errorf("contact resolution: no usable phone in %q", input.Phone)
	}

	locationID := input.Instance.OwnerID

	contact, err := s.crm.LookupContactByPhone(ctx, accessToken, locationID, digits)
	if err != nil {
		return nil, domain.NewIntegrationError("contact lookup", digits, err)
	}
	if contact == nil {
		contact, err = s.crm.LookupContactByPhone(ctx, accessToken, locationID, domain.E164(digits))
		if err != nil {
			return nil, domain.NewIntegrationError("contact lookup", domain.E164(digits), err)
		}
	}

	if contact != nil && input.PreserveExistingName {
		return contact, nil
	}

	name := input.DisplayName
	if name == "" {
		if contact != nil && contact.Name != "" {
			name = contact.Name
		} else {
			name = digits
		}
	}

	upserted, err := s.crm.UpsertContact(ctx, accessToken, ghl.UpsertContactInput{
		LocationID: locationID,
		Phone:      domain.E164(digits),
		Name:       name,
		Tags:       []string{"whatsapp-instance-" + input.Instance.ExternalID},
		AvatarURL:  s.fetchAvatar(ctx, input.Instance, digits),
	})
	if err != nil {
		return nil, domain.NewIntegrationError("contact upsert", digits, err)
	}

	return upserted, nil
}

// fetchAvatar is best-effort enrichment; failures never fail the resolution.
func (s *contactResolver) fetchAvatar(ctx context.Context, instance *models.Instance, digits string) string {
	url, err := s.gateway.FetchProfilePictureURL(ctx, instance.APIToken, instance.ExternalID, digits)
	if err != nil {
		s.logger.Debug("Avatar fetch failed",
			zap.String("instance", instance.ExternalID),
			zap.String("phone", digits),
			zap.Error(err))
		return ""
	}
	return url
}
