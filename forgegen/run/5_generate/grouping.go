package generate

import (
	"sort"

	model "github.com/mockforge/mockforge/forgegen/run/1_model"
)

// indexedMember pairs a member with its index into spec.Members, so the
// per-member overload suffix stays addressable after partitioning.
type indexedMember struct {
	Index  int
	Member model.Member
}

// conditionGroup is one bucket of members sharing a normalized build
// condition.
type conditionGroup struct {
	// Condition is the originating condition text of the first member in the
	// bucket; Normalized is the grouping key and sort key.
	Condition  model.BuildCondition
	Normalized string
	Members    []indexedMember
}

// partition splits members into the unconditioned bucket and one bucket per
// distinct normalized condition. The unconditioned bucket comes first;
// conditioned buckets are sorted by normalized condition text. This ordering
// is what makes repeated synthesis byte-stable.
func partition(members []model.Member) (unconditioned []indexedMember, groups []conditionGroup) {
	byCondition := map[string]int{}

	for i, member := range members {
		indexed := indexedMember{Index: i, Member: member}

		if member.Condition.IsZero() {
			unconditioned = append(unconditioned, indexed)

			continue
		}

		key := member.Condition.Normalized()

		slot, ok := byCondition[key]
		if !ok {
			slot = len(groups)
			byCondition[key] = slot

			groups = append(groups, conditionGroup{
				Condition:  member.Condition,
				Normalized: key,
			})
		}

		groups[slot].Members = append(groups[slot].Members, indexed)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Normalized < groups[b].Normalized
	})

	return unconditioned, groups
}
