package goal

import (
	"fmt"
	"strings"
)

// Type enumerates the standard goal taxonomy. Free text that matches none
// of these with enough confidence becomes a custom goal instead.
type Type string

const (
	TypeBudget      Type = "budget"
	TypeMuscleGain  Type = "muscle_gain"
	TypeWeightLoss  Type = "weight_loss"
	TypeHeartHealth Type = "heart_health"
	TypeQuickMeals  Type = "quick_meals"
	TypeHighFiber   Type = "high_fiber"
)

// StandardTypes returns all standard goal types.
func StandardTypes() []Type {
	return []Type{TypeBudget, TypeMuscleGain, TypeWeightLoss, TypeHeartHealth, TypeQuickMeals, TypeHighFiber}
}

// Kind is the tagged variant of a goal's identity: either a standard type
// from the fixed taxonomy or a custom free-text label. It is resolved once
// at interpretation time and never re-matched by string comparison.
type Kind struct {
	standard Type
	label    string
}

// StandardKind builds the kind for a taxonomy goal.
func StandardKind(t Type) Kind {
	return Kind{standard: t}
}

// CustomKind builds the kind for a free-text goal. The label is normalized
// so custom goals are unique per user by normalized label.
func CustomKind(label string) Kind {
	return Kind{label: NormalizeLabel(label)}
}

// IsCustom reports whether the goal is a custom (free-text) goal.
func (k Kind) IsCustom() bool {
	return k.standard == ""
}

// Standard returns the standard type; empty for custom goals.
func (k Kind) Standard() Type {
	return k.standard
}

// Label returns the normalized custom label; empty for standard goals.
func (k Kind) Label() string {
	return k.label
}

// Identity is the per-user uniqueness key: re-adding a goal with the same
// identity updates its priority rather than duplicating it.
func (k Kind) Identity() string {
	if k.IsCustom() {
		return "custom:" + k.label
	}
	return "standard:" + string(k.standard)
}

// Name is the human-readable goal name used in reports and trade-off notes.
func (k Kind) Name() string {
	if k.IsCustom() {
		return k.label
	}
	return strings.ReplaceAll(string(k.standard), "_", " ")
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k.IsCustom() {
		return fmt.Sprintf("custom(%s)", k.label)
	}
	return string(k.standard)
}

// NormalizeLabel canonicalizes a custom goal label: lowercased with
// whitespace runs collapsed.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
