package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/gometeo/cityweather/internal/fuzzy"
	"github.com/gometeo/cityweather/internal/model"
)

const (
	// matchThreshold is exclusive: a city matches when its score is above it.
	matchThreshold = 95

	maxSuggestDistance = 2
)

var nonLetters = regexp.MustCompile(`[^a-zA-Z ]+`)

// normalize keeps ASCII letters and spaces only, lower-cased.
func normalize(s string) string {
	return strings.ToLower(nonLetters.ReplaceAllString(s, ""))
}

// Search returns every city whose name scores above the match threshold against
// query, in dataset order. No match yields nil.
func (c *Catalog) Search(query string) []model.CityRecord {
	q := normalize(query)
	if strings.TrimSpace(q) == "" {
		return nil
	}

	var out []model.CityRecord
	for i, name := range c.normNames {
		if fuzzy.TokenSetRatio(q, name) > matchThreshold {
			out = append(out, c.cities[i])
		}
	}
	return out
}

// Suggest returns up to limit cities whose whole name is within a small edit
// distance of query, closest first. Used when Search finds nothing.
func (c *Catalog) Suggest(query string, limit int) []model.CityRecord {
	q := strings.Join(strings.Fields(normalize(query)), " ")
	if q == "" || limit <= 0 {
		return nil
	}

	type candidate struct {
		idx  int
		dist int
	}
	var candidates []candidate
	for i, name := range c.normNames {
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			continue
		}
		// cheap length filter before the O(n*m) distance
		if abs(len(name)-len(q)) > maxSuggestDistance {
			continue
		}
		if d := levenshtein.ComputeDistance(q, name); d <= maxSuggestDistance {
			candidates = append(candidates, candidate{idx: i, dist: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]model.CityRecord, len(candidates))
	for i, cand := range candidates {
		out[i] = c.cities[cand.idx]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
