// Package statistics computes tag usage counts and tag-pair
// co-occurrence rankings over an indexed query result.
package statistics

import (
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/jra3/tdb/internal/queryview"
)

// TagCount is one tag's usage count.
type TagCount struct {
	Name  string
	Count int
}

// PairCount is one unordered tag-pair's co-occurrence count: the number
// of files carrying both tags.
type PairCount struct {
	A, B  string
	Count int
}

// TagCounts returns, for every tag in scope, the number of files
// carrying it, sorted by count descending then name ascending.
func TagCounts(owned *queryview.OwnedMaps) []TagCount {
	out := make([]TagCount, 0, len(owned.Columns.Tags))
	for _, tg := range owned.Columns.Tags {
		out = append(out, TagCount{Name: tg.Name, Count: len(owned.Maps.FilesOf(tg.ID))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PairCounts returns, for every unordered pair of tags that co-occur on
// at least one file, their co-occurrence count, ranked by count
// descending, ties broken by lexical order of the pair.
func PairCounts(owned *queryview.OwnedMaps) []PairCount {
	counts := map[[2]string]int{}
	for _, fid := range owned.Maps.FileIDs() {
		tagIDs := owned.Maps.TagsOf(fid)
		var names []string
		for tid := range tagIDs {
			if tg, ok := owned.Maps.TagByID(tid); ok {
				names = append(names, tg.Name)
			}
		}
		sort.Strings(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				counts[[2]string{names[i], names[j]}]++
			}
		}
	}

	out := make([]PairCount, 0, len(counts))
	for pair, n := range counts {
		out = append(out, PairCount{A: pair[0], B: pair[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// FormatCount renders a count with thousands separators for display.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
