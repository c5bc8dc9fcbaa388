package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/infra/metrics"
)

type collectionItemSource interface {
	GetCollectionItem(ctx context.Context, sequenceNumber int64) (*entities.StoredEntity, error)
}

type entityWriter interface {
	SyncEntities(ctx context.Context, request domain.SyncEntitiesRequest) error
}

// RemoteFetcher busca o documento de uma entidade que não está no store.
type RemoteFetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// EntityStore is the lookup the translation layer reads through. Absent
// entities come back as (nil, nil); only infrastructure failures are errors.
type EntityStore struct {
	logger      *slog.Logger
	entities    storedEntitySource
	collections collectionItemSource
	writer      entityWriter
	fetcher     RemoteFetcher
}

// NewEntityStore builds the store. A nil fetcher disables remote resolution.
func NewEntityStore(
	logger *slog.Logger,
	entitySource storedEntitySource,
	collections collectionItemSource,
	writer entityWriter,
	fetcher RemoteFetcher,
) *EntityStore {
	return &EntityStore{
		logger:      logger,
		entities:    entitySource,
		collections: collections,
		writer:      writer,
		fetcher:     fetcher,
	}
}

func (s *EntityStore) GetEntity(ctx context.Context, id string, resolveRemote bool) (*entities.Entity, error) {
	if id == "" {
		return nil, nil
	}

	stored, err := s.entities.GetEntity(ctx, id)
	if err == nil {
		return s.decode(stored), nil
	}

	if !errors.Is(err, domain.ErrEntityNotFound) {
		return nil, fmt.Errorf("EntityStore.GetEntity - %w", err)
	}

	if !resolveRemote || s.fetcher == nil {
		return nil, nil
	}

	return s.fetchRemote(ctx, id)
}

func (s *EntityStore) GetCollectionItem(ctx context.Context, sequenceNumber int64) (*entities.CollectionItem, error) {
	if sequenceNumber < 0 {
		return nil, nil
	}

	stored, err := s.collections.GetCollectionItem(ctx, sequenceNumber)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("EntityStore.GetCollectionItem - %w", err)
	}

	entity := s.decode(stored)
	if entity == nil {
		return nil, nil
	}

	return &entities.CollectionItem{SequenceNumber: sequenceNumber, Entity: entity}, nil
}

// decode treats an undecodable stored document as an absent entity.
func (s *EntityStore) decode(stored *entities.StoredEntity) *entities.Entity {
	entity, err := stored.Decode()
	if err != nil {
		s.logger.Warn("Stored entity has an invalid document", "entity_id", stored.ID, "error", err)
		return nil
	}
	return entity
}

func (s *EntityStore) fetchRemote(ctx context.Context, id string) (*entities.Entity, error) {
	raw, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.RemoteFetches.WithLabelValues("failed").Inc()
		s.logger.Debug("Remote fetch failed", "entity_id", id, "error", err)
		return nil, nil
	}

	entity, err := entities.ParseDocument(raw, false)
	if err != nil {
		metrics.RemoteFetches.WithLabelValues("invalid").Inc()
		s.logger.Debug("Remote document is not a valid entity", "entity_id", id, "error", err)
		return nil, nil
	}

	// Um servidor só pode falar por entidades do próprio host.
	requestedHost, _ := (&entities.Entity{ID: id}).Host()
	servedHost, _ := entity.Host()
	if requestedHost == "" || requestedHost != servedHost {
		metrics.RemoteFetches.WithLabelValues("invalid").Inc()
		s.logger.Warn("Remote document claims a foreign id", "requested", id, "served", entity.ID)
		return nil, nil
	}

	metrics.RemoteFetches.WithLabelValues("fetched").Inc()

	if s.writer != nil {
		request := domain.SyncEntitiesRequest{
			Upserts: []entities.StoredEntity{{ID: entity.ID, IsOwner: false, Document: raw}},
		}
		if err := s.writer.SyncEntities(ctx, request); err != nil {
			s.logger.Warn("Failed to persist remote entity", "entity_id", entity.ID, "error", err)
		}
	}

	return entity, nil
}
