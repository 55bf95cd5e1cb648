package gorm

import (
	"context"
	"time"

	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProxyWeightStore persists learned emphasis weights for custom goal labels.
type ProxyWeightStore struct {
	db *gorm.DB
}

// NewProxyWeightStore creates a new GORM proxy weight store
func NewProxyWeightStore(db *gorm.DB) *ProxyWeightStore {
	return &ProxyWeightStore{db: db}
}

var _ outbound.ProxyWeightStore = (*ProxyWeightStore)(nil)

// Weights returns tag -> weight for one user's custom goal label.
func (s *ProxyWeightStore) Weights(ctx context.Context, userID uuid.UUID, label string) (map[string]float64, error) {
	var models []ProxyWeightModel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND label = ?", userID, label).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(models))
	for _, m := range models {
		out[m.Tag] = m.Weight
	}
	return out, nil
}

// SetWeight upserts one tag weight.
func (s *ProxyWeightStore) SetWeight(ctx context.Context, userID uuid.UUID, label, tag string, weight float64) error {
	model := ProxyWeightModel{
		UserID:    userID,
		Label:     label,
		Tag:       tag,
		Weight:    weight,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "label"}, {Name: "tag"}},
			DoUpdates: clause.AssignmentColumns([]string{"weight", "updated_at"}),
		}).
		Create(&model).Error
}
