package gorm

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeCorpus serves optimizer candidate queries from the recipes table.
// Cost and prep bounds are pushed into SQL; tag exclusion happens in
// memory because tags live in a JSON column.
type RecipeCorpus struct {
	db *gorm.DB
}

// NewRecipeCorpus creates a new GORM recipe corpus
func NewRecipeCorpus(db *gorm.DB) *RecipeCorpus {
	return &RecipeCorpus{db: db}
}

var _ outbound.RecipeCorpus = (*RecipeCorpus)(nil)

// Query returns candidates matching the query, ordered by name then id.
// SQL narrows the scan; Matches is the authority on filter semantics.
func (r *RecipeCorpus) Query(ctx context.Context, q recipe.Query) ([]recipe.Candidate, error) {
	tx := r.db.WithContext(ctx).Model(&RecipeModel{})
	if q.MaxCost != nil {
		tx = tx.Where("cost_per_serving <= ?", *q.MaxCost)
	}
	if q.MaxPrepMinutes != nil {
		tx = tx.Where("prep_minutes <= ?", *q.MaxPrepMinutes)
	}
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", idStrings(q.ExcludeIDs))
	}

	var models []RecipeModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]recipe.Candidate, 0, len(models))
	for i := range models {
		c := ModelToRecipe(&models[i])
		if !q.Matches(c) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// FindByID returns a single candidate.
func (r *RecipeCorpus) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Candidate, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrCandidateNotFound
		}
		return nil, err
	}
	c := ModelToRecipe(&model)
	return &c, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
