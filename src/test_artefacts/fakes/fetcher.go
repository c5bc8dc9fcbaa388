package fakes

import (
	"context"
	"errors"
	"sync"
)

var ErrNotServed = errors.New("fakes.Fetcher - document not served")

// Fetcher serves remote documents from memory. Unknown ids fail with Err,
// or ErrNotServed when Err is nil.
type Fetcher struct {
	mu        sync.Mutex
	documents map[string][]byte
	fetched   []string
	Err       error
}

func NewFetcher() *Fetcher {
	return &Fetcher{documents: map[string][]byte{}}
}

func (f *Fetcher) Serve(id string, document string) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.documents[id] = []byte(document)
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetched = append(f.fetched, id)
	if document, ok := f.documents[id]; ok {
		return document, nil
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return nil, ErrNotServed
}

func (f *Fetcher) Fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.fetched...)
}
