package gorm

import (
	"context"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	restrictionAllergy       = "allergy"
	restrictionDietExclusion = "diet_exclusion"
)

// ProfileService reads profile-level hard restrictions from the database.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new GORM profile service
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

var _ outbound.ProfileService = (*ProfileService)(nil)

// HardRestrictions returns the user's allergies and diet exclusions.
func (s *ProfileService) HardRestrictions(ctx context.Context, userID uuid.UUID) (constraint.HardRestrictions, error) {
	var models []ProfileRestrictionModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("item ASC").
		Find(&models).Error
	if err != nil {
		return constraint.HardRestrictions{}, err
	}

	var out constraint.HardRestrictions
	for _, m := range models {
		switch m.Kind {
		case restrictionAllergy:
			out.Allergies = append(out.Allergies, m.Item)
		case restrictionDietExclusion:
			out.DietExclusions = append(out.DietExclusions, m.Item)
		}
	}
	return out, nil
}
