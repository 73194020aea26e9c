// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyderive

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/binx/lib/secret"
)

// DefaultCacheCapacity is the capacity used when NewCache is given zero.
const DefaultCacheCapacity = 256

type cacheIndex [32]byte

// Cache is a concurrency-safe [Deriver] that keeps derived keys for
// reuse. When full it derives fresh keys for new secrets instead of
// evicting, so a flood of distinct secrets cannot push out the working
// set. Close zeroes every cached key; keys handed out by the cache must
// not be used after that.
type Cache struct {
	mu       sync.Mutex
	indexKey [32]byte
	entries  map[cacheIndex]*secret.Buffer
	capacity int
	closed   bool
}

// NewCache returns an empty cache holding at most capacity keys. A
// capacity of zero selects [DefaultCacheCapacity].
func NewCache(capacity int) (*Cache, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("key cache capacity must not be negative, got %d", capacity)
	}
	if capacity == 0 {
		capacity = DefaultCacheCapacity
	}
	cache := &Cache{
		entries:  make(map[cacheIndex]*secret.Buffer),
		capacity: capacity,
	}
	if _, err := rand.Read(cache.indexKey[:]); err != nil {
		return nil, fmt.Errorf("generating key cache index key: %w", err)
	}
	return cache, nil
}

func (c *Cache) index(kid uint8, material []byte) cacheIndex {
	hasher, err := blake3.NewKeyed(c.indexKey[:])
	if err != nil {
		panic("keyderive: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte{kid})
	hasher.Write(material)
	var result cacheIndex
	copy(result[:], hasher.Sum(nil))
	return result
}

// Derive implements [Deriver].
func (c *Cache) Derive(kid uint8, material []byte) (*Key, error) {
	index := c.index(kid, material)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("key cache is closed")
	}
	if buffer, found := c.entries[index]; found {
		c.mu.Unlock()
		return &Key{buffer: buffer}, nil
	}
	c.mu.Unlock()

	// Derive outside the lock; a concurrent miss on the same index
	// derives twice and keeps the first.
	buffer, err := DeriveKey(material)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, found := c.entries[index]; found && !c.closed {
		buffer.Close()
		return &Key{buffer: existing}, nil
	}
	if c.closed || len(c.entries) >= c.capacity {
		return &Key{buffer: buffer, owned: true}, nil
	}
	c.entries[index] = buffer
	return &Key{buffer: buffer}, nil
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close zeroes and releases every cached key. Derive fails afterwards.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for index, buffer := range c.entries {
		if err := buffer.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.entries, index)
	}
	return errors.Join(errs...)
}
