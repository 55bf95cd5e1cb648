package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
)

// RecipeCorpus is an indexed in-memory candidate pool: an id -> candidate
// arena plus a normalized-tag inverted index, so hard-tag exclusion skips
// candidates without rescanning their tag lists.
type RecipeCorpus struct {
	arena map[uuid.UUID]recipe.Candidate
	byTag map[string][]uuid.UUID
	mutex sync.RWMutex
}

// NewRecipeCorpus creates an empty corpus.
func NewRecipeCorpus() *RecipeCorpus {
	return &RecipeCorpus{
		arena: make(map[uuid.UUID]recipe.Candidate),
		byTag: make(map[string][]uuid.UUID),
	}
}

// NewRecipeCorpusFrom creates a corpus pre-seeded with candidates.
func NewRecipeCorpusFrom(candidates []recipe.Candidate) *RecipeCorpus {
	c := NewRecipeCorpus()
	for _, cand := range candidates {
		c.Add(cand)
	}
	return c
}

var _ outbound.RecipeCorpus = (*RecipeCorpus)(nil)

// Add indexes one candidate. Re-adding an id replaces it.
func (r *RecipeCorpus) Add(c recipe.Candidate) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.arena[c.ID] = c
	for _, tag := range c.Tags {
		n := constraint.NormalizeItem(tag)
		r.byTag[n] = append(r.byTag[n], c.ID)
	}
}

// Query returns candidates matching the filter, ordered by name then id.
func (r *RecipeCorpus) Query(ctx context.Context, q recipe.Query) ([]recipe.Candidate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	// The inverted index turns hard-tag exclusion into a skip set so
	// most excluded candidates never reach Matches.
	skip := make(map[uuid.UUID]bool)
	for _, tag := range q.ExcludeTags {
		for _, id := range r.byTag[constraint.NormalizeItem(tag)] {
			skip[id] = true
		}
	}

	var out []recipe.Candidate
	for id, c := range r.arena {
		if skip[id] {
			continue
		}
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

// FindByID returns one candidate.
func (r *RecipeCorpus) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Candidate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	c, ok := r.arena[id]
	if !ok {
		return nil, recipe.ErrCandidateNotFound
	}
	return &c, nil
}

// Len returns the corpus size.
func (r *RecipeCorpus) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.arena)
}
