// Package fakes holds in-memory doubles for the store-facing interfaces.
package fakes

import (
	"context"
	"sync"

	"mastodonbridge/src/domain/entities"
)

type LookupCall struct {
	ID            string
	ResolveRemote bool
}

// EntityLookup serves entities and collection items from memory and records
// every call. Safe for concurrent use.
type EntityLookup struct {
	mu       sync.Mutex
	entities map[string]entities.Entity
	items    map[int64]entities.Entity
	failures map[string]error
	blocked  map[string]bool
	calls    []LookupCall
}

func NewEntityLookup(list ...entities.Entity) *EntityLookup {
	lookup := &EntityLookup{
		entities: map[string]entities.Entity{},
		items:    map[int64]entities.Entity{},
		failures: map[string]error{},
		blocked:  map[string]bool{},
	}
	return lookup.Add(list...)
}

func (l *EntityLookup) Add(list ...entities.Entity) *EntityLookup {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entity := range list {
		l.entities[entity.ID] = entity
	}
	return l
}

func (l *EntityLookup) AddItem(sequenceNumber int64, entity entities.Entity) *EntityLookup {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items[sequenceNumber] = entity
	return l
}

// FailWith makes lookups of id return err.
func (l *EntityLookup) FailWith(id string, err error) *EntityLookup {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failures[id] = err
	return l
}

// BlockOn makes lookups of id wait for the context to end.
func (l *EntityLookup) BlockOn(id string) *EntityLookup {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.blocked[id] = true
	return l
}

func (l *EntityLookup) GetEntity(ctx context.Context, id string, resolveRemote bool) (*entities.Entity, error) {
	l.mu.Lock()
	l.calls = append(l.calls, LookupCall{ID: id, ResolveRemote: resolveRemote})
	blocked := l.blocked[id]
	failure := l.failures[id]
	entity, found := l.entities[id]
	l.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if failure != nil {
		return nil, failure
	}

	if !found {
		return nil, nil
	}

	return &entity, nil
}

func (l *EntityLookup) GetCollectionItem(ctx context.Context, sequenceNumber int64) (*entities.CollectionItem, error) {
	l.mu.Lock()
	entity, found := l.items[sequenceNumber]
	l.mu.Unlock()

	if !found || sequenceNumber < 0 {
		return nil, nil
	}

	return &entities.CollectionItem{SequenceNumber: sequenceNumber, Entity: &entity}, nil
}

func (l *EntityLookup) Calls() []LookupCall {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]LookupCall(nil), l.calls...)
}

// CallsFor counts the lookups of id.
func (l *EntityLookup) CallsFor(id string) int {
	count := 0
	for _, call := range l.Calls() {
		if call.ID == id {
			count++
		}
	}
	return count
}
