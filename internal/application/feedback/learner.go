// Package feedback adjusts custom-goal proxy weights from meal ratings.
// Learning is best-effort: failures are logged and dropped, never surfaced
// to plan-generation callers.
package feedback

import (
	"context"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Exponential moving average parameters. Weights start at Baseline and
// stay clamped to [MinWeight, MaxWeight] so no single rating streak can
// dominate the merge.
const (
	Alpha     = 0.3
	Baseline  = 1.0
	MinWeight = 0.25
	MaxWeight = 2.0

	MinRating = 1
	MaxRating = 5
)

// Learner applies rating signal to a user's custom-goal tag weights.
type Learner struct {
	weights outbound.ProxyWeightStore
	logger  *zap.Logger
}

// NewLearner creates a feedback learner.
func NewLearner(weights outbound.ProxyWeightStore, logger *zap.Logger) *Learner {
	return &Learner{
		weights: weights,
		logger:  logger.Named("feedback-learner"),
	}
}

// RecordRating folds one rating into the weights of the rated recipe's
// tags under the given custom goal label. A rating of 3 is neutral; 5
// pulls matched tags toward MaxWeight, 1 toward MinWeight.
func (l *Learner) RecordRating(ctx context.Context, userID uuid.UUID, label string, tags []string, rating int) error {
	if rating < MinRating {
		rating = MinRating
	}
	if rating > MaxRating {
		rating = MaxRating
	}

	// Map 1..5 onto a target weight around the baseline.
	target := Baseline + float64(rating-3)/2.0

	current, err := l.weights.Weights(ctx, userID, label)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		n := constraint.NormalizeItem(tag)
		if n == "" {
			continue
		}

		old, ok := current[n]
		if !ok {
			old = Baseline
		}

		updated := Alpha*target + (1-Alpha)*old
		if updated < MinWeight {
			updated = MinWeight
		}
		if updated > MaxWeight {
			updated = MaxWeight
		}

		if err := l.weights.SetWeight(ctx, userID, label, n, updated); err != nil {
			return err
		}

		l.logger.Debug("adjusted proxy weight",
			zap.String("user_id", userID.String()),
			zap.String("label", label),
			zap.String("tag", n),
			zap.Float64("weight", updated),
		)
	}

	return nil
}
