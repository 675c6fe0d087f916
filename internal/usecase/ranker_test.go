package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/supplymatch/backend/internal/domain"
)

func rankedCandidate(id string, f domain.RankFeatures) domain.RankedCandidate {
	return domain.RankedCandidate{
		Offer:    domain.Offer{ID: id, Price: f.Price},
		Features: f,
	}
}

func assertOrder(t *testing.T, candidates []domain.RankedCandidate, want []string) {
	t.Helper()
	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
	}
	for i, id := range want {
		if candidates[i].Offer.ID != id {
			got := make([]string, len(candidates))
			for j, c := range candidates {
				got[j] = c.Offer.ID
			}
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRankHierarchy(t *testing.T) {
	r := NewRanker()
	price := decimal.NewFromInt(10)

	t.Run("exact graded match outranks everything", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("brand-only", domain.RankFeatures{BrandMatch: true, CountryMatch: true, TextSimilarity: 99, Price: price}),
			rankedCandidate("graded", domain.RankFeatures{ExactGradedMatch: true, TextSimilarity: 10, Price: price}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"graded", "brand-only"})
	})

	t.Run("brand beats country", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("country", domain.RankFeatures{CountryMatch: true, Price: price}),
			rankedCandidate("brand", domain.RankFeatures{BrandMatch: true, Price: price}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"brand", "country"})
	})

	t.Run("fewer penalties beat higher similarity", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("penalized", domain.RankFeatures{Penalties: 1, TextSimilarity: 95, Price: price}),
			rankedCandidate("clean", domain.RankFeatures{Penalties: 0, TextSimilarity: 40, Price: price}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"clean", "penalized"})
	})

	t.Run("similarity beats price", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("cheap", domain.RankFeatures{TextSimilarity: 50, Price: decimal.NewFromInt(1)}),
			rankedCandidate("close", domain.RankFeatures{TextSimilarity: 90, Price: decimal.NewFromInt(100)}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"close", "cheap"})
	})

	t.Run("price breaks similarity ties", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("expensive", domain.RankFeatures{TextSimilarity: 80, Price: decimal.NewFromInt(20)}),
			rankedCandidate("cheap", domain.RankFeatures{TextSimilarity: 80, Price: decimal.NewFromInt(5)}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"cheap", "expensive"})
	})

	t.Run("known pack breaks price ties", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("mystery", domain.RankFeatures{Price: price, PackKnown: false}),
			rankedCandidate("known", domain.RankFeatures{Price: price, PackKnown: true}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"known", "mystery"})
	})

	t.Run("candidate id is the final tie-break", func(t *testing.T) {
		candidates := []domain.RankedCandidate{
			rankedCandidate("zzz", domain.RankFeatures{Price: price}),
			rankedCandidate("aaa", domain.RankFeatures{Price: price}),
		}
		r.Rank(candidates)
		assertOrder(t, candidates, []string{"aaa", "zzz"})
	})
}

func TestRankDeterministic(t *testing.T) {
	r := NewRanker()

	build := func() []domain.RankedCandidate {
		return []domain.RankedCandidate{
			rankedCandidate("c", domain.RankFeatures{TextSimilarity: 70, Price: decimal.NewFromInt(12)}),
			rankedCandidate("a", domain.RankFeatures{BrandMatch: true, Price: decimal.NewFromInt(15)}),
			rankedCandidate("b", domain.RankFeatures{TextSimilarity: 70, Price: decimal.NewFromInt(12)}),
			rankedCandidate("d", domain.RankFeatures{CountryMatch: true, Price: decimal.NewFromInt(9)}),
		}
	}

	first := build()
	r.Rank(first)
	for i := 0; i < 10; i++ {
		again := build()
		r.Rank(again)
		for j := range first {
			if again[j].Offer.ID != first[j].Offer.ID {
				t.Fatalf("run %d produced a different order at %d: %s vs %s", i, j, again[j].Offer.ID, first[j].Offer.ID)
			}
		}
	}
}

func TestSimilarityScore(t *testing.T) {
	t.Run("identical texts score near 100", func(t *testing.T) {
		got := similarityScore("vannamei shrimp frozen peeled", "vannamei shrimp frozen peeled")
		if got < 99 {
			t.Errorf("score = %g, want >= 99", got)
		}
	})

	t.Run("disjoint texts score 0", func(t *testing.T) {
		got := similarityScore("vannamei shrimp frozen", "olive oil virgin")
		if got != 0 {
			t.Errorf("score = %g, want 0", got)
		}
	})

	t.Run("closer candidate scores higher", func(t *testing.T) {
		ref := "vannamei shrimp frozen peeled"
		close := similarityScore(ref, "vannamei shrimp frozen")
		far := similarityScore(ref, "shrimp cocktail sauce")
		if close <= far {
			t.Errorf("close = %g, far = %g, want close > far", close, far)
		}
	})

	t.Run("stop words and numbers carry no signal", func(t *testing.T) {
		a := similarityScore("shrimp frozen", "shrimp frozen")
		b := similarityScore("shrimp frozen", "shrimp frozen premium box 1000 kg")
		// Extra noise tokens must not change the reference coverage part.
		if b > a {
			t.Errorf("noisy = %g > clean = %g", b, a)
		}
	})

	t.Run("near-miss token fuzzy matches", func(t *testing.T) {
		withTypo := similarityScore("vannamei shrimp", "vanamei shrimp")
		without := similarityScore("vannamei shrimp", "tiger shrimp")
		if withTypo <= without {
			t.Errorf("typo = %g, unrelated = %g, want typo > unrelated", withTypo, without)
		}
	})
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"vannamei", "vanamei", 1},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
