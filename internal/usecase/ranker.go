package usecase

import (
	"sort"
	"strings"

	"github.com/supplymatch/backend/internal/domain"
)

// Similarity weighting: coverage of the reference tokens matters most, the
// candidate's extra tokens matter least.
const (
	refCoverageWeight  = 0.60
	candCoverageWeight = 0.20
	jaccardWeight      = 0.20
	fuzzyEditDistance  = 1
)

// similarityStopWords are tokens that carry no matching signal in catalog
// names: units, packaging and trade noise.
var similarityStopWords = map[string]bool{
	// Units and sizes
	"kg": true, "g": true, "gr": true, "ml": true, "l": true, "oz": true,
	"lb": true, "lbs": true, "pcs": true, "pc": true, "ct": true,
	// Packaging
	"box": true, "bag": true, "pack": true, "carton": true, "case": true,
	"tray": true, "pouch": true, "vac": true, "vacuum": true,
	// Trade noise
	"premium": true, "quality": true, "grade": true, "new": true,
	"origin": true, "product": true, "net": true, "gross": true,
	"approx": true, "about": true, "per": true, "each": true,
}

// Ranker orders gate-passing candidates by the fixed tie-break hierarchy:
// exact graded-attribute match, brand match, country match, penalty count,
// text similarity, price, pack-size knownness, candidate id.
type Ranker struct{}

// NewRanker creates a ranker.
func NewRanker() *Ranker { return &Ranker{} }

// Features computes the rank features for one gate-passing candidate.
func (r *Ranker) Features(ref domain.ReferenceItem, refText string, offer domain.Offer, candText string, penalties int) domain.RankFeatures {
	return domain.RankFeatures{
		ExactGradedMatch: exactGradedMatch(ref.Signature, offer.Signature),
		BrandMatch:       ref.Signature.BrandID != "" && offer.Signature.BrandID == ref.Signature.BrandID,
		CountryMatch:     ref.Signature.Origin.SameCountry(offer.Signature.Origin),
		Penalties:        penalties,
		TextSimilarity:   similarityScore(refText, candText),
		Price:            offer.Price,
		PackKnown:        offer.PackKnown,
	}
}

// Rank sorts candidates in place. Ordering is fully deterministic: any tie
// beyond the feature hierarchy breaks on candidate id.
func (r *Ranker) Rank(candidates []domain.RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Features, candidates[j].Features
		if a.ExactGradedMatch != b.ExactGradedMatch {
			return a.ExactGradedMatch
		}
		if a.BrandMatch != b.BrandMatch {
			return a.BrandMatch
		}
		if a.CountryMatch != b.CountryMatch {
			return a.CountryMatch
		}
		if a.Penalties != b.Penalties {
			return a.Penalties < b.Penalties
		}
		if a.TextSimilarity != b.TextSimilarity {
			return a.TextSimilarity > b.TextSimilarity
		}
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
		if a.PackKnown != b.PackKnown {
			return a.PackKnown
		}
		return candidates[i].Offer.ID < candidates[j].Offer.ID
	})
}

// exactGradedMatch reports whether the candidate matches the reference on
// the domain's primary discriminating attribute: caliber for graded/count
// products, cut type for cut-graded ones.
func exactGradedMatch(ref, cand domain.Signature) bool {
	switch ref.Domain {
	case domain.DomainShrimp:
		r, c := ref.Shrimp(), cand.Shrimp()
		return r != nil && c != nil && r.Caliber.Known() && r.Caliber.Equal(c.Caliber)
	case domain.DomainFishFillet:
		r, c := ref.Fillet(), cand.Fillet()
		return r != nil && c != nil && r.CutType != "" && r.CutType == c.CutType
	default:
		return false
	}
}

// similarityScore computes token overlap between two normalized texts on a
// 0..100 scale. Coverage of the reference tokens is the dominant signal; the
// candidate's own coverage and plain Jaccard fill in the rest. Near-miss
// tokens within one edit count as fuzzy matches at reduced weight.
func similarityScore(refText, candText string) float64 {
	refTokens := similarityTokens(refText)
	candTokens := similarityTokens(candText)
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	refMatched := matchCount(refTokens, candTokens)
	candMatched := matchCount(candTokens, refTokens)

	refCoverage := refMatched / float64(len(refTokens))
	candCoverage := candMatched / float64(len(candTokens))
	union := float64(tokenUnion(refTokens, candTokens))
	jaccard := refMatched / union

	score := (refCoverage*refCoverageWeight + candCoverage*candCoverageWeight + jaccard*jaccardWeight) * 100
	if score > 100 {
		score = 100
	}
	return score
}

// similarityTokens splits normalized text into scoring tokens, dropping stop
// words, single characters and pure numbers.
func similarityTokens(s string) []string {
	var tokens []string
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, "./,~-")
		if len(w) <= 1 || similarityStopWords[w] || isNumeric(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// matchCount counts tokens of a that appear in b, exactly or within the
// fuzzy edit distance. Fuzzy hits count at 80% weight.
func matchCount(a, b []string) float64 {
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	var matched float64
	for _, t := range a {
		if set[t] {
			matched++
			continue
		}
		for _, other := range b {
			if fuzzyTokenMatch(t, other, fuzzyEditDistance) {
				matched += 0.8
				break
			}
		}
	}
	return matched
}

func tokenUnion(a, b []string) int {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	return len(set)
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance
// threshold. Short tokens never fuzzy-match to avoid false positives.
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}
	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}
	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings using
// a two-row matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
