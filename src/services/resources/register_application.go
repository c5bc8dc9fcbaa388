package resources

import (
	"context"
	"fmt"
	"strings"

	"mastodonbridge/src/domain"

	"github.com/google/uuid"
)

// RegisterApplication issues client credentials. Nothing is persisted: no
// endpoint here checks them.
func (rs *ResourceService) RegisterApplication(ctx context.Context, registration domain.ApplicationRegistration) (*domain.RegisteredApplication, error) {
	name := strings.TrimSpace(registration.Name)
	if name == "" {
		return nil, fmt.Errorf("ResourceService.RegisterApplication - %w", domain.ErrInvalidApplication)
	}

	redirectURI := strings.TrimSpace(registration.RedirectURI)
	if redirectURI == "" {
		redirectURI = domain.OutOfBandRedirectURI
	}

	application := &domain.RegisteredApplication{
		ID:           uuid.NewString(),
		Name:         name,
		Website:      strings.TrimSpace(registration.Website),
		RedirectURI:  redirectURI,
		ClientID:     compactUUID(),
		ClientSecret: compactUUID() + compactUUID(),
	}

	rs.logger.InfoContext(ctx, "Application registered", "application_id", application.ID, "name", name)

	return application, nil
}

func compactUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
