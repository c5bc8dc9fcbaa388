package fakes

import (
	"context"
	"sync"
)

// Cache is an in-memory EntityCache.
type Cache struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	deleted []string
}

func NewCache() *Cache {
	return &Cache{values: map[string]string{}}
}

// FailReads makes every GetKey return err.
func (c *Cache) FailReads(err error) *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getErr = err
	return c
}

func (c *Cache) GetKey(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return "", false, c.getErr
	}
	value, found := c.values[key]
	return value, found, nil
}

func (c *Cache) SetKey(ctx context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
	return nil
}

func (c *Cache) DeleteKeys(ctx context.Context, keys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.values, key)
	}
	c.deleted = append(c.deleted, keys...)
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.values)
}

func (c *Cache) Deleted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.deleted...)
}
