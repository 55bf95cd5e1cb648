package constraint

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ProfileSource labels hard exclusions that come from the user's profile
// rather than from any declared goal.
const ProfileSource = "profile"

// GoalInput is the merge-relevant view of one active goal. The merger
// deliberately does not depend on the goal aggregate so it stays a pure
// value-level function.
type GoalInput struct {
	ID        uuid.UUID
	Name      string
	Priority  int
	CreatedAt time.Time
	Fragment  Fragment
}

// HardRestrictions are profile-level exclusions folded into every merge as
// unconditional hard constraints.
type HardRestrictions struct {
	Allergies      []string
	DietExclusions []string
}

// Items returns the normalized, deduplicated, sorted union of the
// profile's exclusions. A merged Set folding in these restrictions lists
// exactly these items with a ProfileSource source.
func (r HardRestrictions) Items() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range r.Allergies {
		if n := NormalizeItem(item); n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, item := range r.DietExclusions {
		if n := NormalizeItem(item); n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Merge resolves all active goals' fragments plus profile restrictions into
// a single Set. The resolution is deterministic: the input order never
// affects the result.
//
// Rules per kind of field:
//   - Hard exclusions: unioned across all hard fragments and the profile,
//     never weakened by priority.
//   - Upper bounds: the tightest (lowest) value among defining goals wins;
//     value ties break by priority (desc) then created_at (asc).
//   - Lower bounds: the most demanding (highest) value wins, same tie-break.
//   - Emphasized foods / required nutrients: unioned; each item's weight is
//     the sum of contributing goals' priorities. Emphasized items that are
//     hard-excluded are dropped and recorded as conflicts.
func Merge(goals []GoalInput, profile HardRestrictions) *Set {
	ordered := make([]GoalInput, len(goals))
	copy(ordered, goals)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	set := &Set{}
	mergeBounds(set, ordered)
	mergeHardExclusions(set, ordered, profile)
	set.AvoidedFoods = mergeSoftAvoided(ordered)
	set.EmphasizedFoods = mergeWeighted(ordered, func(f Fragment) []string { return f.EmphasizedFoods })
	set.RequiredNutrients = mergeWeighted(ordered, func(f Fragment) []string { return f.RequiredNutrients })
	dropExcludedEmphasis(set, ordered)
	sortConflicts(set.Conflicts)
	return set
}

type definer struct {
	goal  GoalInput
	value float64
}

func mergeBounds(set *Set, ordered []GoalInput) {
	byDim := make(map[Dimension][]definer)
	for _, g := range ordered {
		for _, d := range g.Fragment.DefinedDimensions() {
			v, _ := g.Fragment.Bound(d)
			byDim[d] = append(byDim[d], definer{goal: g, value: v})
		}
	}
	if len(byDim) == 0 {
		return
	}

	set.Bounds = make(map[Dimension]ResolvedBound, len(byDim))
	for d, definers := range byDim {
		// definers inherit the priority/created_at ordering; a stable
		// sort by value keeps that ordering as the tie-break.
		upper := d.IsUpperBound()
		sort.SliceStable(definers, func(i, j int) bool {
			if upper {
				return definers[i].value < definers[j].value
			}
			return definers[i].value > definers[j].value
		})

		winner := definers[0]
		set.Bounds[d] = ResolvedBound{Value: winner.value, Owner: winner.goal.Name}

		for _, loser := range definers[1:] {
			if loser.value == winner.value {
				continue
			}
			set.Conflicts = append(set.Conflicts, Conflict{
				Kind:        ConflictBound,
				Subject:     string(d),
				Winner:      winner.goal.Name,
				WinnerValue: winner.value,
				Loser:       loser.goal.Name,
				LoserValue:  loser.value,
			})
		}
	}
}

func mergeHardExclusions(set *Set, ordered []GoalInput, profile HardRestrictions) {
	sources := make(map[string]map[string]bool)
	add := func(item, source string) {
		n := NormalizeItem(item)
		if n == "" {
			return
		}
		if sources[n] == nil {
			sources[n] = make(map[string]bool)
		}
		sources[n][source] = true
	}

	for _, item := range profile.Allergies {
		add(item, ProfileSource)
	}
	for _, item := range profile.DietExclusions {
		add(item, ProfileSource)
	}
	for _, g := range ordered {
		if !g.Fragment.Hard {
			continue
		}
		for _, item := range g.Fragment.AvoidedFoods {
			add(item, g.Name)
		}
	}

	items := make([]string, 0, len(sources))
	for item := range sources {
		items = append(items, item)
	}
	sort.Strings(items)

	for _, item := range items {
		srcs := make([]string, 0, len(sources[item]))
		for src := range sources[item] {
			srcs = append(srcs, src)
		}
		sort.Strings(srcs)
		set.HardExclusions = append(set.HardExclusions, HardExclusion{Item: item, Sources: srcs})
	}
}

func mergeSoftAvoided(ordered []GoalInput) []string {
	var all []string
	for _, g := range ordered {
		if g.Fragment.Hard {
			continue
		}
		all = append(all, g.Fragment.AvoidedFoods...)
	}
	return normalizeItems(all)
}

func mergeWeighted(ordered []GoalInput, pick func(Fragment) []string) []WeightedItem {
	weights := make(map[string]int)
	for _, g := range ordered {
		for _, item := range normalizeItems(pick(g.Fragment)) {
			weights[item] += g.Priority
		}
	}
	if len(weights) == 0 {
		return nil
	}

	out := make([]WeightedItem, 0, len(weights))
	for item, w := range weights {
		out = append(out, WeightedItem{Item: item, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

// dropExcludedEmphasis removes emphasized items that a hard exclusion bans
// outright. The emphasis loses regardless of priority; one conflict per
// emphasizing goal is kept so the plan can explain the unmet preference.
func dropExcludedEmphasis(set *Set, ordered []GoalInput) {
	if len(set.HardExclusions) == 0 || len(set.EmphasizedFoods) == 0 {
		return
	}
	excluded := make(map[string][]string, len(set.HardExclusions))
	for _, he := range set.HardExclusions {
		excluded[he.Item] = he.Sources
	}

	kept := set.EmphasizedFoods[:0]
	for _, wi := range set.EmphasizedFoods {
		srcs, banned := excluded[wi.Item]
		if !banned {
			kept = append(kept, wi)
			continue
		}
		for _, g := range ordered {
			for _, item := range g.Fragment.EmphasizedFoods {
				if NormalizeItem(item) == wi.Item {
					set.Conflicts = append(set.Conflicts, Conflict{
						Kind:    ConflictEmphasisExcluded,
						Subject: wi.Item,
						Winner:  srcs[0],
						Loser:   g.Name,
					})
					break
				}
			}
		}
	}
	if len(kept) == 0 {
		set.EmphasizedFoods = nil
		return
	}
	set.EmphasizedFoods = kept
}

func sortConflicts(conflicts []Conflict) {
	sort.Slice(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Loser < b.Loser
	})
}
