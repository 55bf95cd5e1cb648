package memory

import (
	"context"
	"sync"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
)

// ProfileService is an in-memory stand-in for the personalization
// collaborator: per-user allergies and diet exclusions.
type ProfileService struct {
	data  map[uuid.UUID]constraint.HardRestrictions
	mutex sync.RWMutex
}

// NewProfileService creates an empty profile service.
func NewProfileService() *ProfileService {
	return &ProfileService{data: make(map[uuid.UUID]constraint.HardRestrictions)}
}

var _ outbound.ProfileService = (*ProfileService)(nil)

// HardRestrictions returns the user's profile-level exclusions. Unknown
// users have none.
func (s *ProfileService) HardRestrictions(ctx context.Context, userID uuid.UUID) (constraint.HardRestrictions, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data[userID], nil
}

// SetHardRestrictions replaces the user's profile-level exclusions.
func (s *ProfileService) SetHardRestrictions(userID uuid.UUID, restrictions constraint.HardRestrictions) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[userID] = restrictions
}
