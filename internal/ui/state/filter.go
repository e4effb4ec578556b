package state

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Apply computes the filtered view of labels for a query: an ordered list of
// indices into labels. An empty query yields the identity sequence. A
// non-empty query keeps only fuzzy matches, best match first; ties keep
// their original relative order. The input is never mutated.
func Apply(query string, labels []string) []int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		identity := make([]int, len(labels))
		for i := range labels {
			identity[i] = i
		}
		return identity
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	out := make([]int, len(ranks))
	for i, rank := range ranks {
		out[i] = rank.OriginalIndex
	}
	return out
}
