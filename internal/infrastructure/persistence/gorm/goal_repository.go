package gorm

import (
	"context"
	stderrors "errors"

	"github.com/goalplate/v1/internal/domain/goal"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalRepository implements the goal repository using GORM. Optimistic
// versioning is enforced with version-guarded UPDATEs; atomic priority
// batches run inside one transaction.
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GORM goal repository
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

var _ outbound.GoalRepository = (*GoalRepository)(nil)

// Create stores a new goal.
func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	model, err := GoalToModel(g)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, goalID).
		Delete(&GoalModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}

// FindByID returns a goal by id.
func (r *GoalRepository) FindByID(ctx context.Context, userID, goalID uuid.UUID) (*goal.Goal, error) {
	var model GoalModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, goalID).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goal.ErrGoalNotFound
		}
		return nil, err
	}
	return ModelToGoal(&model)
}

// FindByIdentity returns the goal matching the uniqueness key, if any.
func (r *GoalRepository) FindByIdentity(ctx context.Context, userID uuid.UUID, identity string) (*goal.Goal, error) {
	var model GoalModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND identity = ?", userID, identity).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goal.ErrGoalNotFound
		}
		return nil, err
	}
	return ModelToGoal(&model)
}

// ListActive returns the user's goals by priority (desc) then created_at.
func (r *GoalRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	var models []GoalModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority DESC, created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*goal.Goal, len(models))
	for i := range models {
		g, err := ModelToGoal(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

// CountActive returns the user's active goal count.
func (r *GoalRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&GoalModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}

// UpdateWithVersion replaces a goal only when the stored version matches.
func (r *GoalRepository) UpdateWithVersion(ctx context.Context, g *goal.Goal, expectedVersion int64) error {
	model, err := GoalToModel(g)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&GoalModel{}).
		Where("id = ? AND user_id = ? AND version = ?", g.ID(), g.UserID(), expectedVersion).
		Updates(map[string]interface{}{
			"priority":        model.Priority,
			"fragment":        model.Fragment,
			"track_and_learn": model.TrackAndLearn,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(ctx, g.UserID(), g.ID())
	}
	return nil
}

// UpdatePriorities applies all updates in one transaction; any unknown
// goal or stale version rolls the whole batch back.
func (r *GoalRepository) UpdatePriorities(ctx context.Context, userID uuid.UUID, updates []outbound.VersionedPriorityUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&GoalModel{}).
				Where("id = ? AND user_id = ? AND version = ?", u.GoalID, userID, u.ExpectedVersion).
				Updates(map[string]interface{}{
					"priority": u.Priority,
					"version":  u.ExpectedVersion + 1,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&GoalModel{}).
					Where("id = ? AND user_id = ?", u.GoalID, userID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return goal.ErrGoalNotFound
				}
				return goal.ErrVersionMismatch
			}
		}
		return nil
	})
}

// classifyMiss distinguishes a missing row from a version conflict.
func (r *GoalRepository) classifyMiss(ctx context.Context, userID, goalID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&GoalModel{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return goal.ErrGoalNotFound
	}
	return goal.ErrVersionMismatch
}
