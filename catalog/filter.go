package catalog

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Filter returns the tracks whose label fuzzily contains query, closest first.
// An empty query keeps every track in server order.
func Filter(tracks []Track, query string) []Track {
	query = sanitize(query)
	if query == "" {
		return tracks
	}

	labels := lo.Map(tracks, func(t Track, _ int) string {
		return t.String()
	})

	ranks := fuzzy.RankFindFold(query, labels)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) Track {
		return tracks[r.OriginalIndex]
	})
}

// Find picks one track by exact id, falling back to the closest fuzzy match.
func Find(tracks []Track, query string) mo.Option[Track] {
	if t, ok := lo.Find(tracks, func(t Track) bool { return t.ID == query }); ok {
		return mo.Some(t)
	}

	matches := Filter(tracks, query)
	if sanitize(query) == "" || len(matches) == 0 {
		return mo.None[Track]()
	}
	return mo.Some(matches[0])
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
