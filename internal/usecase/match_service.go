package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/lexicon"
)

// MatchConfig holds configuration for the match service.
type MatchConfig struct {
	CandidateCap int
	CacheTTL     time.Duration
	// MinSimilarity is the lowest text-similarity score (0..100) a rejected
	// candidate needs to be reported in the similar set.
	MinSimilarity float64
	DebugTrace    bool
}

// MatchRequest is one match query. RequiredQty is in canonical base units
// (grams, milliliters or pieces, per the reference's unit type).
type MatchRequest struct {
	Text          string           `json:"text" binding:"required"`
	RequiredQty   float64          `json:"requiredQty"`
	BrandCritical bool             `json:"brandCritical"`
	Mode          domain.MatchMode `json:"mode"`
}

// MatchService runs the full pipeline for one reference item: classify,
// retrieve a bounded candidate snapshot, gate, rank, quote.
type MatchService struct {
	classifier *Classifier
	matcher    *Matcher
	ranker     *Ranker
	catalog    domain.CatalogRepository
	cache      domain.ClassificationCache
	cacheTTL   time.Duration
	cap        int
	minSim     float64
	debug      bool
}

// NewMatchService wires the pipeline over an immutable lexicon. The cache is
// optional; pass nil to classify every time.
func NewMatchService(
	catalog domain.CatalogRepository,
	cache domain.ClassificationCache,
	lex *lexicon.Lexicon,
	config MatchConfig,
) *MatchService {
	classifier := NewClassifier(lex, config.DebugTrace)
	guard := NewGuard(lex)
	matcher := NewMatcher(lex, guard, classifier.Normalize, config.CandidateCap, config.DebugTrace)

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	capN := config.CandidateCap
	if capN <= 0 {
		capN = defaultCandidateCap
	}

	return &MatchService{
		classifier: classifier,
		matcher:    matcher,
		ranker:     NewRanker(),
		catalog:    catalog,
		cache:      cache,
		cacheTTL:   cacheTTL,
		cap:        capN,
		minSim:     config.MinSimilarity,
		debug:      config.DebugTrace,
	}
}

// Classify returns the (possibly cached) classification for a text. The
// cache key is the normalized text, so a signature is recomputed only when
// the source text actually changes.
func (s *MatchService) Classify(ctx context.Context, text string) domain.Classification {
	key := s.classifier.Normalize(text)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			return *cached
		}
	}
	cls := s.classifier.Classify(text)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &cls, s.cacheTTL); err != nil && s.debug {
			log.Printf("[MATCH] classification cache write failed: %v", err)
		}
	}
	return cls
}

// Match answers one match query. Expected outcomes (no match, excluded or
// unclassifiable reference) are data on the response; the error return is
// reserved for engine malfunction such as an unreachable catalog.
func (s *MatchService) Match(ctx context.Context, req *MatchRequest) (*domain.MatchResponse, error) {
	if req == nil || req.Text == "" {
		return nil, domain.ErrInvalidRequest
	}

	resp := &domain.MatchResponse{
		CorrelationID: uuid.New().String(),
		RejectCounts:  make(map[string]int),
	}

	cls := s.Classify(ctx, req.Text)
	resp.Reference = cls

	// Zero-trash short circuit: an unusable reference yields an empty strict
	// set with its distinguishing reason, never a looser match.
	if !cls.Classified() {
		resp.Outcome = domain.OutcomeNotFound
		resp.OutcomeReason = cls.Code
		resp.RejectCounts[cls.Code]++
		return resp, nil
	}

	ref := domain.ReferenceItem{
		Text:          req.Text,
		Signature:     cls.Signature,
		RequiredQty:   req.RequiredQty,
		BrandCritical: req.BrandCritical,
	}
	if ref.RequiredQty <= 0 {
		ref.RequiredQty = cls.Signature.NetBaseQty
	}

	candidates, err := s.catalog.ListByCore(ctx, cls.Signature.CoreID, s.cap)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Signature.Domain == "" {
			candidates[i].Signature = s.Classify(ctx, candidates[i].Name).Signature
		}
	}

	refText := s.classifier.Normalize(req.Text)
	results, histogram := s.matcher.Evaluate(ref, refText, candidates)
	resp.RejectCounts = histogram

	byID := make(map[string]domain.Offer, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	for _, res := range results {
		offer := byID[res.CandidateID]
		candText := s.classifier.Normalize(offer.Name)

		if !res.Rejected() {
			quote := Quote(ref.RequiredQty, offer)
			resp.Strict = append(resp.Strict, domain.RankedCandidate{
				Offer:       offer,
				PassedGates: res.PassedGates,
				Features:    s.ranker.Features(ref, refText, offer, candText, len(res.Penalties)),
				Quote:       &quote,
			})
			continue
		}

		// Similar items share identity with the reference but failed a
		// detail gate. They are reported separately, never mixed into the
		// strict set, and only above the similarity floor.
		if req.Mode == domain.ModeStrictSimilar && sharesIdentity(res, cls.Signature.Domain) {
			features := s.ranker.Features(ref, refText, offer, candText, len(res.Penalties)+1)
			if features.TextSimilarity < s.minSim {
				continue
			}
			resp.Similar = append(resp.Similar, domain.RankedCandidate{
				Offer:       offer,
				PassedGates: res.PassedGates,
				Features:    features,
			})
		}
	}

	s.ranker.Rank(resp.Strict)
	s.ranker.Rank(resp.Similar)

	if len(resp.Strict) == 0 {
		resp.Outcome = domain.OutcomeNotFound
		resp.OutcomeReason = domain.ReasonNoMatch
	} else {
		resp.Outcome = domain.OutcomeOK
	}

	if s.debug {
		log.Printf("[MATCH] %q strict=%d similar=%d rejects=%v corr=%s",
			req.Text, len(resp.Strict), len(resp.Similar), resp.RejectCounts, resp.CorrelationID)
	}
	return resp, nil
}

// sharesIdentity reports whether a rejected candidate got past the identity
// gates (species for the specialized domains, domain equality otherwise).
func sharesIdentity(res domain.GateResult, d domain.Domain) bool {
	target := "species"
	if d == domain.DomainGeneric {
		target = "domain"
	}
	for _, g := range res.PassedGates {
		if g == target {
			return true
		}
	}
	return false
}
