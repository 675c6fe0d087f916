package usecase

import (
	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/lexicon"
)

// Guard applies the keyword-driven overrides and unconditional exclusions
// around classification: global forbidden classes, per-category required
// anchors, and forbidden cross-match pairs. All three run on normalized text.
type Guard struct {
	lex *lexicon.Lexicon
}

// NewGuard creates a guard over an immutable lexicon.
func NewGuard(lex *lexicon.Lexicon) *Guard {
	return &Guard{lex: lex}
}

// CheckCandidate returns the rejection reason for a candidate, or "" when all
// guard checks pass.
func (g *Guard) CheckCandidate(refText string, candText string, candDomain domain.Domain) string {
	// A candidate matching any global forbidden-class pattern can never
	// appear in any result, under any ranking.
	if g.lex.Forbidden(candText) {
		return domain.ReasonForbiddenClass
	}

	// A candidate assigned to a category must carry at least one of that
	// category's anchor tokens.
	if anchors, ok := g.lex.Anchors[candDomain]; ok {
		if !lexicon.MatchesAny(anchors, candText) {
			return domain.ReasonAnchorMissing
		}
	}

	// Cross-match pairs are forbidden in both directions: a natural-crab
	// reference rejects surimi candidates, and a surimi reference rejects
	// natural-crab candidates.
	for _, p := range g.lex.CrossMatchPairs {
		if p.A.MatchString(refText) && p.B.MatchString(candText) {
			return domain.ReasonCrossMatchForbidden
		}
		if p.B.MatchString(refText) && p.A.MatchString(candText) {
			return domain.ReasonCrossMatchForbidden
		}
	}

	return ""
}
