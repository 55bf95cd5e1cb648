package memory

import (
	"context"
	"sync"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
)

// ConstraintCache caches encoded merged constraint sets per user. It
// stores the deterministic encoding rather than the struct so the memory
// and Redis implementations behave identically.
type ConstraintCache struct {
	data  map[uuid.UUID][]byte
	mutex sync.RWMutex
}

// NewConstraintCache creates a new in-memory constraint cache.
func NewConstraintCache() *ConstraintCache {
	return &ConstraintCache{data: make(map[uuid.UUID][]byte)}
}

var _ outbound.ConstraintCache = (*ConstraintCache)(nil)

// Get returns the cached set for a user, if present.
func (c *ConstraintCache) Get(ctx context.Context, userID uuid.UUID) (*constraint.Set, bool, error) {
	c.mutex.RLock()
	raw, ok := c.data[userID]
	c.mutex.RUnlock()
	if !ok {
		return nil, false, nil
	}

	set, err := constraint.Decode(raw)
	if err != nil {
		return nil, false, err
	}
	return set, true, nil
}

// Set stores the merged set for a user.
func (c *ConstraintCache) Set(ctx context.Context, userID uuid.UUID, set *constraint.Set) error {
	raw, err := set.Encode()
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[userID] = raw
	return nil
}

// Invalidate drops the user's cached set.
func (c *ConstraintCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, userID)
	return nil
}
