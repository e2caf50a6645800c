package insights

import (
	"sort"

	"github.com/julianstephens/sanctuary/internal/models"
)

// TopTags counts how many entries carry each tag and returns the most used,
// highest count first with ties ordered by name. Ids that no longer resolve
// to a tag are skipped.
func TopTags(entries []models.BrainDumpEntry, tags []models.Tag, limit int) []models.TagCount {
	byID := make(map[int64]models.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	counts := make(map[int64]int)
	for _, e := range entries {
		seen := make(map[int64]bool, len(e.TagIDs))
		for _, id := range e.TagIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := byID[id]; ok {
				counts[id]++
			}
		}
	}

	result := make([]models.TagCount, 0, len(counts))
	for id, n := range counts {
		result = append(result, models.TagCount{Tag: byID[id], Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag.Name < result[j].Tag.Name
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
