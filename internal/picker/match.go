package picker

import (
	"cmp"
	"slices"

	"github.com/sahilm/fuzzy"
)

// BaselineRelevance is the relevance given to every item by an empty query.
const BaselineRelevance = 0

// Matcher scores a name against a query. Implementations must be pure: the
// same inputs always produce the same result.
type Matcher interface {
	Match(name, query string) (Score, bool)
}

// FuzzyMatcher matches query characters in order anywhere in the name,
// rewarding consecutive runs, word starts and early matches.
type FuzzyMatcher struct{}

var _ Matcher = FuzzyMatcher{}

// Match implements Matcher.
func (FuzzyMatcher) Match(name, query string) (Score, bool) {
	if query == "" {
		return Score{Relevance: BaselineRelevance}, true
	}
	matches := fuzzy.Find(query, []string{name})
	if len(matches) == 0 {
		return Score{}, false
	}
	m := matches[0]
	return Score{
		Relevance: m.Score,
		Positions: m.MatchedIndexes,
	}, true
}

// Rescore recomputes the score of every item against query in place.
// Items that do not match have their score cleared.
func Rescore[T any](m Matcher, items []Item[T], query string) {
	for i := range items {
		if items[i].Blank {
			continue
		}
		score, ok := m.Match(items[i].Name, query)
		if !ok {
			items[i].Score = nil
			continue
		}
		items[i].Score = &score
	}
}

// Rank returns the scored items ordered by descending relevance. Items
// with equal relevance keep their input order.
func Rank[T any](items []Item[T]) []Item[T] {
	ranked := make([]Item[T], 0, len(items))
	for _, it := range items {
		if it.Matched() {
			ranked = append(ranked, it)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Item[T]) int {
		return cmp.Compare(b.Score.Relevance, a.Score.Relevance)
	})
	return ranked
}
