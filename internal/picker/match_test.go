package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyMatcherEmptyQuery(t *testing.T) {
	score, ok := FuzzyMatcher{}.Match("deploy.sh - release", "")
	require.True(t, ok)
	assert.Equal(t, BaselineRelevance, score.Relevance)
	assert.Empty(t, score.Positions)
}

func TestFuzzyMatcherPositions(t *testing.T) {
	score, ok := FuzzyMatcher{}.Match("build", "bld")
	require.True(t, ok)
	assert.Equal(t, []int{0, 3, 4}, score.Positions)
}

func TestFuzzyMatcherNoMatch(t *testing.T) {
	_, ok := FuzzyMatcher{}.Match("build", "xyz")
	assert.False(t, ok)
}

func TestRescoreAndRank(t *testing.T) {
	items := []Item[int]{
		NewItem("scripts/db.sh - migrate", 1),
		NewItem("scripts/web.sh - serve", 2),
		NewItem("scripts/db.sh - dump", 3),
	}

	Rescore(FuzzyMatcher{}, items, "db")
	ranked := Rank(items)
	require.Len(t, ranked, 2)
	for _, it := range ranked {
		assert.Contains(t, it.Name, "db.sh")
	}
	assert.Nil(t, items[1].Score)

	Rescore(FuzzyMatcher{}, items, "zzz")
	assert.Empty(t, Rank(items))
}

func TestRankKeepsInsertionOrderOnTies(t *testing.T) {
	items := []Item[string]{
		NewItem("c", "c"),
		NewItem("a", "a"),
		NewItem("b", "b"),
	}
	Rescore(FuzzyMatcher{}, items, "")
	ranked := Rank(items)
	require.Len(t, ranked, 3)
	assert.Equal(t, "c", ranked[0].Name)
	assert.Equal(t, "a", ranked[1].Name)
	assert.Equal(t, "b", ranked[2].Name)
}

func TestRankOrdersByRelevance(t *testing.T) {
	items := []Item[string]{
		{Name: "low", Score: &Score{Relevance: 1}},
		{Name: "none"},
		{Name: "high", Score: &Score{Relevance: 9}},
		{Name: "mid", Score: &Score{Relevance: 5}},
	}
	ranked := Rank(items)
	names := make([]string, len(ranked))
	for i, it := range ranked {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"high", "mid", "low"}, names)
}

func TestEmptyQueryIsIdempotent(t *testing.T) {
	items := []Item[int]{NewItem("one", 1), NewItem("two", 2)}
	Rescore(FuzzyMatcher{}, items, "")
	first := Rank(items)
	Rescore(FuzzyMatcher{}, items, "")
	second := Rank(items)
	assert.Equal(t, first, second)
}

func rankedNames[T any](items []Item[T]) []string {
	ranked := Rank(items)
	names := make([]string, len(ranked))
	for i, it := range ranked {
		names[i] = it.Name
	}
	return names
}

func TestEmptyQueryAfterEditingRestoresRanking(t *testing.T) {
	items := []Item[int]{
		NewItem("deploy", 1),
		NewItem("build", 2),
		NewItem("db - migrate", 3),
		NewItem("docs", 4),
		NewItem("bench", 5),
	}
	m := FuzzyMatcher{}

	Rescore(m, items, "")
	initial := rankedNames(items)
	require.Equal(t, []string{"deploy", "build", "db - migrate", "docs", "bench"}, initial)

	query := "dmi"
	for i := 1; i <= len(query); i++ {
		Rescore(m, items, query[:i])
	}
	assert.NotEqual(t, initial, rankedNames(items))
	for i := len(query) - 1; i >= 0; i-- {
		Rescore(m, items, query[:i])
	}

	assert.Equal(t, initial, rankedNames(items))
	for _, it := range items {
		require.NotNil(t, it.Score)
		assert.Equal(t, BaselineRelevance, it.Score.Relevance)
	}
}
