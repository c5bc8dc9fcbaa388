package fakes

import (
	"context"
	"fmt"
	"sync"

	"mastodonbridge/src/domain"
	"mastodonbridge/src/domain/entities"
)

// StoredEntities plays the postgres side: query source, collection source and
// writer at once.
type StoredEntities struct {
	mu       sync.Mutex
	byID     map[string]entities.StoredEntity
	items    map[int64]string
	reads    int
	failWith error
	syncs    []domain.SyncEntitiesRequest
}

func NewStoredEntities(list ...entities.StoredEntity) *StoredEntities {
	s := &StoredEntities{
		byID:  map[string]entities.StoredEntity{},
		items: map[int64]string{},
	}
	for _, stored := range list {
		s.byID[stored.ID] = stored
	}
	return s
}

func (s *StoredEntities) AddItem(sequenceNumber int64, entityID string) *StoredEntities {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[sequenceNumber] = entityID
	return s
}

// FailReads makes every read return err.
func (s *StoredEntities) FailReads(err error) *StoredEntities {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWith = err
	return s
}

func (s *StoredEntities) GetEntity(ctx context.Context, id string) (*entities.StoredEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.failWith != nil {
		return nil, s.failWith
	}

	stored, found := s.byID[id]
	if !found {
		return nil, fmt.Errorf("fakes.StoredEntities - %s: %w", id, domain.ErrEntityNotFound)
	}
	return &stored, nil
}

func (s *StoredEntities) GetCollectionItem(ctx context.Context, sequenceNumber int64) (*entities.StoredEntity, error) {
	s.mu.Lock()
	entityID, found := s.items[sequenceNumber]
	s.mu.Unlock()

	if !found {
		return nil, fmt.Errorf("fakes.StoredEntities - item %d: %w", sequenceNumber, domain.ErrEntityNotFound)
	}
	return s.GetEntity(ctx, entityID)
}

func (s *StoredEntities) SyncEntities(ctx context.Context, request domain.SyncEntitiesRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncs = append(s.syncs, request)
	for _, stored := range request.Upserts {
		s.byID[stored.ID] = stored
	}
	for _, id := range request.Deletions {
		delete(s.byID, id)
	}
	return nil
}

func (s *StoredEntities) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reads
}

func (s *StoredEntities) Syncs() []domain.SyncEntitiesRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.SyncEntitiesRequest(nil), s.syncs...)
}
