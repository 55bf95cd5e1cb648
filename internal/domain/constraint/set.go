package constraint

import (
	"encoding/json"
	"sort"
)

// ResolvedBound is the winning value for one numeric dimension along with
// the goal that supplied it, kept for trade-off reporting.
type ResolvedBound struct {
	Value float64 `json:"value"`
	Owner string  `json:"owner"`
}

// WeightedItem is a set element carrying a priority-derived weight used by
// plan scoring, not filtering.
type WeightedItem struct {
	Item   string `json:"item"`
	Weight int    `json:"weight"`
}

// HardExclusion is a never-relaxable excluded item and the goals (or the
// user profile) that demanded it.
type HardExclusion struct {
	Item    string   `json:"item"`
	Sources []string `json:"sources"`
}

// Conflict kinds recorded during merging.
const (
	ConflictBound            = "bound"
	ConflictEmphasisExcluded = "emphasis_excluded"
)

// Conflict records that one goal's preference lost to another's during
// resolution. Conflicts feed the plan's human-readable trade-off notes.
type Conflict struct {
	Kind        string  `json:"kind"`
	Subject     string  `json:"subject"` // dimension name or food item
	Winner      string  `json:"winner"`
	WinnerValue float64 `json:"winner_value,omitempty"`
	Loser       string  `json:"loser"`
	LoserValue  float64 `json:"loser_value,omitempty"`
}

// Set is the merged, resolved constraint view of all of a user's active
// goals plus profile-level hard restrictions. It is a pure function of its
// inputs: all slices are normalized and sorted so identical goal lists
// produce byte-identical encodings.
type Set struct {
	Bounds            map[Dimension]ResolvedBound `json:"bounds,omitempty"`
	HardExclusions    []HardExclusion             `json:"hard_exclusions,omitempty"`
	AvoidedFoods      []string                    `json:"avoided_foods,omitempty"`
	EmphasizedFoods   []WeightedItem              `json:"emphasized_foods,omitempty"`
	RequiredNutrients []WeightedItem              `json:"required_nutrients,omitempty"`
	Conflicts         []Conflict                  `json:"conflicts,omitempty"`
}

// IsEmpty reports whether the set carries no bounds and no exclusions.
func (s *Set) IsEmpty() bool {
	return len(s.Bounds) == 0 &&
		len(s.HardExclusions) == 0 &&
		len(s.AvoidedFoods) == 0 &&
		len(s.EmphasizedFoods) == 0 &&
		len(s.RequiredNutrients) == 0
}

// Bound returns the resolved value for a dimension, if any goal defined it.
func (s *Set) Bound(d Dimension) (float64, bool) {
	rb, ok := s.Bounds[d]
	return rb.Value, ok
}

// HardExcludedItems returns the sorted list of hard-excluded items.
func (s *Set) HardExcludedItems() []string {
	items := make([]string, len(s.HardExclusions))
	for i, he := range s.HardExclusions {
		items[i] = he.Item
	}
	return items
}

// ProfileExcludedItems returns the sorted hard-excluded items that the
// user's profile contributed, goal-sourced exclusions excluded.
func (s *Set) ProfileExcludedItems() []string {
	var out []string
	for _, he := range s.HardExclusions {
		for _, src := range he.Sources {
			if src == ProfileSource {
				out = append(out, he.Item)
				break
			}
		}
	}
	return out
}

// HardSources returns the distinct sources contributing hard exclusions,
// sorted. Used to name offending goals in unsatisfiable-plan errors.
func (s *Set) HardSources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, he := range s.HardExclusions {
		for _, src := range he.Sources {
			if !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
	}
	sort.Strings(out)
	return out
}

// EmphasisWeight returns the merged weight for an emphasized item, 0 if absent.
func (s *Set) EmphasisWeight(item string) int {
	n := NormalizeItem(item)
	for _, wi := range s.EmphasizedFoods {
		if wi.Item == n {
			return wi.Weight
		}
	}
	return 0
}

// Encode serializes the set deterministically. encoding/json writes map
// keys in sorted order and every slice is sorted at merge time, so two
// merges of the same goal list encode to identical bytes.
func (s *Set) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Decode deserializes a set previously produced by Encode.
func Decode(data []byte) (*Set, error) {
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
