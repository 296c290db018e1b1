package usecase

import (
	"sort"
	"strings"
	"time"
)

const defaultSearchLimit = 20

// searchTerms lowercases q and splits it into unique whitespace-separated terms.
func searchTerms(q string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(q)) {
		if !seen[f] {
			seen[f] = true
			terms = append(terms, f)
		}
	}
	return terms
}

type weightedField struct {
	text   string
	weight int
}

// relevance adds a field's weight once per term it contains.
func relevance(terms []string, fields ...weightedField) int {
	score := 0
	for _, f := range fields {
		text := strings.ToLower(f.text)
		for _, t := range terms {
			if strings.Contains(text, t) {
				score += f.weight
			}
		}
	}
	return score
}

// rankByRelevance drops zero-score items and orders the rest by score, then
// by creation time, newest first.
func rankByRelevance[T any](items []T, score func(T) int, createdAt func(T) time.Time, limit int) []T {
	type scored struct {
		item  T
		score int
	}
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		if s := score(it); s > 0 {
			ranked = append(ranked, scored{item: it, score: s})
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return createdAt(ranked[a].item).After(createdAt(ranked[b].item))
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]T, len(ranked))
	for k, r := range ranked {
		out[k] = r.item
	}
	return out
}
