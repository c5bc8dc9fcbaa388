package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/infra/metrics"
	"mastodonbridge/src/services/identity"
	"mastodonbridge/src/services/translation"
)

// CollectionItemLookup resolves a local sequence number. A missing item is (nil, nil).
type CollectionItemLookup interface {
	GetCollectionItem(ctx context.Context, sequenceNumber int64) (*entities.CollectionItem, error)
}

// ResourceService é a porta de entrada por requisição: decodifica o id opaco,
// escolhe a busca certa e entrega o resultado ao tradutor.
type ResourceService struct {
	logger           *slog.Logger
	entityLookup     translation.EntityLookup
	collectionLookup CollectionItemLookup
	translator       *translation.TranslationService
}

func NewResourceService(
	logger *slog.Logger,
	entityLookup translation.EntityLookup,
	collectionLookup CollectionItemLookup,
	translator *translation.TranslationService,
) *ResourceService {
	return &ResourceService{
		logger:           logger,
		entityLookup:     entityLookup,
		collectionLookup: collectionLookup,
		translator:       translator,
	}
}

// GetAccount resolves an account id. Local actors may be addressed by their
// unencoded id, which decodes to itself.
func (rs *ResourceService) GetAccount(ctx context.Context, opaqueID string) (*domain.Account, error) {
	uri, err := identity.DecodeURI(opaqueID)
	if err != nil {
		observe("account", err)
		return nil, fmt.Errorf("ResourceService.GetAccount - %w", err)
	}

	actor, err := rs.entityLookup.GetEntity(ctx, uri, true)
	if err != nil {
		observe("account", err)
		return nil, fmt.Errorf("ResourceService.GetAccount - failed to look up %s: %w", uri, err)
	}

	if actor == nil {
		observe("account", domain.ErrEntityNotFound)
		return nil, fmt.Errorf("ResourceService.GetAccount - %s: %w", uri, domain.ErrEntityNotFound)
	}

	account, err := rs.translator.TranslateAccount(ctx, actor)
	observe("account", err)
	if err != nil {
		return nil, fmt.Errorf("ResourceService.GetAccount - %w", err)
	}

	return account, nil
}

// GetStatus resolves a status id, either a sequence number or an encoded URI.
// Both forms of the same status yield the same content.
func (rs *ResourceService) GetStatus(ctx context.Context, opaqueID string) (*domain.Status, error) {
	item, err := rs.resolveItem(ctx, opaqueID)
	if err != nil {
		observe("status", err)
		return nil, fmt.Errorf("ResourceService.GetStatus - %w", err)
	}

	status, err := rs.translator.TranslateStatus(ctx, *item)
	observe("status", err)
	if err != nil {
		rs.logger.Debug("Status translation failed", "id", opaqueID, "error", err)
		return nil, fmt.Errorf("ResourceService.GetStatus - %w", err)
	}

	return status, nil
}

func (rs *ResourceService) resolveItem(ctx context.Context, opaqueID string) (*entities.CollectionItem, error) {
	id, err := identity.Decode(opaqueID)
	if err != nil {
		return nil, err
	}

	if sequence, ok := id.Sequence(); ok {
		item, err := rs.collectionLookup.GetCollectionItem(ctx, sequence)
		if err != nil {
			return nil, fmt.Errorf("failed to look up collection item %d: %w", sequence, err)
		}
		if item == nil || item.Entity == nil {
			return nil, fmt.Errorf("collection item %d: %w", sequence, domain.ErrEntityNotFound)
		}
		return item, nil
	}

	uri, _ := id.URI()
	entity, err := rs.entityLookup.GetEntity(ctx, uri, true)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", uri, err)
	}
	if entity == nil {
		return nil, fmt.Errorf("%s: %w", uri, domain.ErrEntityNotFound)
	}

	return &entities.CollectionItem{
		SequenceNumber: entities.NotFromCollection,
		Entity:         entity,
	}, nil
}

func observe(resource string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEntityNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	metrics.Translations.WithLabelValues(resource, outcome).Inc()
}
