// Package gorm: mapping between domain entities and GORM models.
package gorm

import (
	"encoding/json"
	"fmt"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/goal"
	"github.com/goalplate/v1/internal/domain/recipe"
)

// GoalToModel converts a domain goal to a GORM model
func GoalToModel(g *goal.Goal) (*GoalModel, error) {
	fragment, err := fragmentToJSON(g.Constraints())
	if err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}

	model := &GoalModel{
		ID:            g.ID(),
		UserID:        g.UserID(),
		Identity:      g.Kind().Identity(),
		Priority:      g.Priority(),
		Fragment:      fragment,
		TrackAndLearn: g.TrackAndLearn(),
		Version:       g.Version(),
		CreatedAt:     g.CreatedAt(),
		UpdatedAt:     g.UpdatedAt(),
	}
	if g.Kind().IsCustom() {
		model.CustomLabel = g.Kind().Label()
	} else {
		model.StandardType = string(g.Kind().Standard())
	}
	return model, nil
}

// ModelToGoal reconstructs a domain goal from a GORM model
func ModelToGoal(m *GoalModel) (*goal.Goal, error) {
	fragment, err := jsonToFragment(m.Fragment)
	if err != nil {
		return nil, fmt.Errorf("decode fragment: %w", err)
	}

	var kind goal.Kind
	if m.StandardType != "" {
		kind = goal.StandardKind(goal.Type(m.StandardType))
	} else {
		kind = goal.CustomKind(m.CustomLabel)
	}

	return goal.Reconstruct(
		m.ID, m.UserID, kind, m.Priority, fragment,
		m.TrackAndLearn, m.Version, m.CreatedAt, m.UpdatedAt,
	), nil
}

// RecipeToModel converts a corpus candidate to a GORM model
func RecipeToModel(c recipe.Candidate) *RecipeModel {
	nutrients := make(JSONField, len(c.Nutrients))
	for k, v := range c.Nutrients {
		nutrients[k] = v
	}
	return &RecipeModel{
		ID:             c.ID,
		Name:           c.Name,
		CostPerServing: c.CostPerServing,
		PrepMinutes:    c.PrepMinutes,
		Nutrients:      nutrients,
		Tags:           StringSlice(c.Tags),
	}
}

// ModelToRecipe reconstructs a corpus candidate from a GORM model
func ModelToRecipe(m *RecipeModel) recipe.Candidate {
	nutrients := make(map[string]float64, len(m.Nutrients))
	for k, v := range m.Nutrients {
		if f, ok := v.(float64); ok {
			nutrients[k] = f
		}
	}
	return recipe.Candidate{
		ID:             m.ID,
		Name:           m.Name,
		CostPerServing: m.CostPerServing,
		PrepMinutes:    m.PrepMinutes,
		Nutrients:      nutrients,
		Tags:           []string(m.Tags),
	}
}

func fragmentToJSON(f constraint.Fragment) (JSONField, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	var out JSONField
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonToFragment(j JSONField) (constraint.Fragment, error) {
	var f constraint.Fragment
	if len(j) == 0 {
		return f, nil
	}
	raw, err := json.Marshal(j)
	if err != nil {
		return f, err
	}
	err = json.Unmarshal(raw, &f)
	return f, err
}
