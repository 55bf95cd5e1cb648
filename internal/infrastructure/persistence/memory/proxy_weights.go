package memory

import (
	"context"
	"sync"

	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
)

// ProxyWeightStore keeps learned emphasis weights per user and custom goal
// label.
type ProxyWeightStore struct {
	data  map[uuid.UUID]map[string]map[string]float64
	mutex sync.RWMutex
}

// NewProxyWeightStore creates a new in-memory weight store.
func NewProxyWeightStore() *ProxyWeightStore {
	return &ProxyWeightStore{
		data: make(map[uuid.UUID]map[string]map[string]float64),
	}
}

var _ outbound.ProxyWeightStore = (*ProxyWeightStore)(nil)

// Weights returns a copy of the tag weights for one label.
func (s *ProxyWeightStore) Weights(ctx context.Context, userID uuid.UUID, label string) (map[string]float64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]float64)
	for tag, w := range s.data[userID][label] {
		out[tag] = w
	}
	return out, nil
}

// SetWeight stores one tag weight.
func (s *ProxyWeightStore) SetWeight(ctx context.Context, userID uuid.UUID, label, tag string, weight float64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	byLabel := s.data[userID]
	if byLabel == nil {
		byLabel = make(map[string]map[string]float64)
		s.data[userID] = byLabel
	}
	byTag := byLabel[label]
	if byTag == nil {
		byTag = make(map[string]float64)
		byLabel[label] = byTag
	}
	byTag[tag] = weight
	return nil
}
