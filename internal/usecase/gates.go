package usecase

import (
	"log"
	"math"

	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/lexicon"
	"github.com/supplymatch/backend/internal/units"
)

// weightTolerance is the relative net-weight difference the fillet domain
// accepts. Exactly 20% passes.
const weightTolerance = 0.20

// defaultCandidateCap bounds how many candidates one match evaluates.
const defaultCandidateCap = 200

// gateContext carries everything one gate evaluation can look at.
type gateContext struct {
	ref      domain.ReferenceItem
	cand     domain.Offer
	refText  string // normalized
	candText string // normalized
}

// gate is one step of the ordered pipeline. A blocking gate removes the
// candidate on failure; a non-blocking one records a penalty and lets it
// through.
type gate struct {
	name     string
	blocking bool
	check    func(gc gateContext) (pass bool, reason string)
}

// Matcher applies the ordered hard-gate pipeline between a reference
// signature and each candidate. Stateless; safe for concurrent use.
type Matcher struct {
	lex          *lexicon.Lexicon
	guard        *Guard
	norm         func(string) string
	candidateCap int
	debug        bool
}

// NewMatcher creates a matcher. The normalize function must be the same one
// the classifier used, so guard patterns see identical text.
func NewMatcher(lex *lexicon.Lexicon, guard *Guard, normalize func(string) string, candidateCap int, debugTrace bool) *Matcher {
	if candidateCap <= 0 {
		candidateCap = defaultCandidateCap
	}
	return &Matcher{lex: lex, guard: guard, norm: normalize, candidateCap: candidateCap, debug: debugTrace}
}

// Evaluate runs every candidate through the reference's gate pipeline and
// returns per-candidate results plus a reject-reason histogram.
//
// A reference that is UNCLASSIFIED, EXCLUDED or parse-failed never reaches
// the domain gates: the result is empty with the distinguishing reason
// counted once. There is no fallback to a looser matching strategy.
func (m *Matcher) Evaluate(ref domain.ReferenceItem, refText string, candidates []domain.Offer) ([]domain.GateResult, map[string]int) {
	histogram := make(map[string]int)

	if len(candidates) > m.candidateCap {
		candidates = candidates[:m.candidateCap]
	}

	pipeline := m.pipelineFor(ref.Signature.Domain)
	results := make([]domain.GateResult, 0, len(candidates))

	for _, cand := range candidates {
		gc := gateContext{
			ref:      ref,
			cand:     cand,
			refText:  refText,
			candText: m.norm(cand.Name),
		}
		res := m.evaluateOne(gc, pipeline)
		if res.Rejected() {
			histogram[res.RejectReason]++
		}
		if m.debug {
			log.Printf("[GATES] cand=%s passed=%v reject=%q penalties=%v",
				cand.ID, res.PassedGates, res.RejectReason, res.Penalties)
		}
		results = append(results, res)
	}

	return results, histogram
}

func (m *Matcher) evaluateOne(gc gateContext, pipeline []gate) domain.GateResult {
	res := domain.GateResult{CandidateID: gc.cand.ID}

	// Guard checks wrap the pipeline: forbidden classes, required anchors
	// and cross-match pairs remove a candidate before any domain gate runs.
	if reason := m.guard.CheckCandidate(gc.refText, gc.candText, gc.cand.Signature.Domain); reason != "" {
		res.RejectReason = reason
		return res
	}
	res.PassedGates = append(res.PassedGates, "guard")

	for _, g := range pipeline {
		pass, reason := g.check(gc)
		if pass {
			res.PassedGates = append(res.PassedGates, g.name)
			continue
		}
		if g.blocking {
			res.RejectReason = reason
			return res
		}
		res.Penalties = append(res.Penalties, reason)
		res.PassedGates = append(res.PassedGates, g.name)
	}
	return res
}

// pipelineFor returns the fixed gate order for a reference domain. The
// switch is exhaustive over matchable domains; unmatchable ones are handled
// before Evaluate is called.
func (m *Matcher) pipelineFor(d domain.Domain) []gate {
	switch d {
	case domain.DomainShrimp:
		return shrimpGates
	case domain.DomainFishFillet:
		return filletGates
	default:
		return genericGates
	}
}

// Common gates shared by every pipeline, in their fixed positions.
var (
	gateAvailability = gate{"availability", true, func(gc gateContext) (bool, string) {
		return gc.cand.Available, domain.ReasonNotAvailable
	}}

	gateDomain = gate{"domain", true, func(gc gateContext) (bool, string) {
		return gc.cand.Signature.Domain == gc.ref.Signature.Domain, domain.ReasonDomainMismatch
	}}

	// Brand is a hard requirement only for brand-critical references; as a
	// preference it is handled by the ranker, not here.
	gateBrand = gate{"brand", true, func(gc gateContext) (bool, string) {
		if !gc.ref.BrandCritical || gc.ref.Signature.BrandID == "" {
			return true, ""
		}
		return gc.cand.Signature.BrandID == gc.ref.Signature.BrandID, domain.ReasonBrandMismatch
	}}

	// Unit families never cross. The single sanctioned exception: both sides
	// expose a net base weight, enabling per-gram comparison. An unknown on
	// either side is let through as a penalized last resort and flagged.
	gateUnitType = gate{"unit_type", true, func(gc gateContext) (bool, string) {
		r, c := gc.ref.Signature, gc.cand.Signature
		if r.NetWeightKnown() && c.NetWeightKnown() {
			return true, ""
		}
		if r.UnitType == domain.UnitUnknown || c.UnitType == domain.UnitUnknown {
			return true, ""
		}
		return units.Compatible(r.UnitType, c.UnitType), domain.ReasonUOMMismatch
	}}

	gateUnitUnknown = gate{"unit_known", false, func(gc gateContext) (bool, string) {
		known := gc.ref.Signature.UnitType != domain.UnitUnknown && gc.cand.Signature.UnitType != domain.UnitUnknown
		return known || (gc.ref.Signature.NetWeightKnown() && gc.cand.Signature.NetWeightKnown()), domain.ReasonUnitUnknown
	}}

	gatePackaging = gate{"packaging", true, func(gc gateContext) (bool, string) {
		return gc.cand.Signature.IsBox == gc.ref.Signature.IsBox, domain.ReasonPackagingMismatch
	}}
)

// shrimpGates is the blocking order for the graded/count domain. Caliber is
// the primary discriminating attribute and is always enforced when the
// reference caliber is known; an unknown candidate caliber is a reject, not
// a pass with penalty.
var shrimpGates = []gate{
	gateAvailability,
	gateDomain,
	gateBrand,
	{"species", true, func(gc gateContext) (bool, string) {
		return eqIfRefKnown(shrimpOf(gc.ref.Signature).Species, shrimpOf(gc.cand.Signature).Species), domain.ReasonSpeciesMismatch
	}},
	{"state", true, func(gc gateContext) (bool, string) {
		return eqIfRefKnown(shrimpOf(gc.ref.Signature).State, shrimpOf(gc.cand.Signature).State), domain.ReasonStateMismatch
	}},
	{"form", true, func(gc gateContext) (bool, string) {
		return eqIfRefKnown(shrimpOf(gc.ref.Signature).Form, shrimpOf(gc.cand.Signature).Form), domain.ReasonFormMismatch
	}},
	{"tail_state", true, func(gc gateContext) (bool, string) {
		return triEqIfRefKnown(shrimpOf(gc.ref.Signature).TailState, shrimpOf(gc.cand.Signature).TailState), domain.ReasonTailStateMismatch
	}},
	{"breaded", true, func(gc gateContext) (bool, string) {
		return triEqIfRefKnown(shrimpOf(gc.ref.Signature).Breaded, shrimpOf(gc.cand.Signature).Breaded), domain.ReasonBreadedMismatch
	}},
	{"caliber", true, func(gc gateContext) (bool, string) {
		r := shrimpOf(gc.ref.Signature).Caliber
		if !r.Known() {
			return true, ""
		}
		c := shrimpOf(gc.cand.Signature).Caliber
		if !c.Known() {
			return false, domain.ReasonCaliberUnknown
		}
		return r.Equal(c), domain.ReasonCaliberMismatch
	}},
	gateUnitType,
	gateUnitUnknown,
	gatePackaging,
}

// filletGates is the blocking order for the cut/structure-graded domain.
// Cut type takes caliber's place as the highest-priority discriminator, and
// the ±20% weight tolerance is the last, non-blocking gate.
var filletGates = []gate{
	gateAvailability,
	gateDomain,
	gateBrand,
	{"species", true, func(gc gateContext) (bool, string) {
		return eqIfRefKnown(filletOf(gc.ref.Signature).Species, filletOf(gc.cand.Signature).Species), domain.ReasonSpeciesMismatch
	}},
	{"cut_type", true, func(gc gateContext) (bool, string) {
		return eqIfRefKnown(filletOf(gc.ref.Signature).CutType, filletOf(gc.cand.Signature).CutType), domain.ReasonCutTypeMismatch
	}},
	{"state", true, func(gc gateContext) (bool, string) {
		return eqIfRefKnown(filletOf(gc.ref.Signature).State, filletOf(gc.cand.Signature).State), domain.ReasonStateMismatch
	}},
	{"skin", true, func(gc gateContext) (bool, string) {
		return triEqIfRefKnown(filletOf(gc.ref.Signature).Skin, filletOf(gc.cand.Signature).Skin), domain.ReasonSkinMismatch
	}},
	{"breaded", true, func(gc gateContext) (bool, string) {
		return triEqIfRefKnown(filletOf(gc.ref.Signature).Breaded, filletOf(gc.cand.Signature).Breaded), domain.ReasonBreadedMismatch
	}},
	gateUnitType,
	gateUnitUnknown,
	gatePackaging,
	{"weight_tolerance", false, func(gc gateContext) (bool, string) {
		r, c := gc.ref.Signature, gc.cand.Signature
		if !r.NetWeightKnown() || !c.NetWeightKnown() {
			return true, ""
		}
		diff := math.Abs(r.NetBaseQty-c.NetBaseQty) / r.NetBaseQty
		return diff <= weightTolerance, domain.ReasonWeightToleranceExceeded
	}},
}

// genericGates covers products outside the specialized domains: physical
// compatibility only, with ranking carried by text similarity.
var genericGates = []gate{
	gateAvailability,
	gateDomain,
	gateBrand,
	gateUnitType,
	gateUnitUnknown,
	gatePackaging,
}

// eqIfRefKnown implements the zero-trash comparison rule: an unknown
// reference attribute requires nothing, but a known reference attribute
// rejects a candidate whose value is unknown or different.
func eqIfRefKnown(ref, cand string) bool {
	if ref == "" {
		return true
	}
	return cand == ref
}

func triEqIfRefKnown(ref, cand domain.TriState) bool {
	if ref == domain.TriUnknown {
		return true
	}
	return cand == ref
}

// shrimpOf returns the shrimp payload or a zero value, so gates never panic
// on a malformed signature.
func shrimpOf(s domain.Signature) domain.ShrimpAttrs {
	if a := s.Shrimp(); a != nil {
		return *a
	}
	return domain.ShrimpAttrs{}
}

func filletOf(s domain.Signature) domain.FilletAttrs {
	if a := s.Fillet(); a != nil {
		return *a
	}
	return domain.FilletAttrs{}
}
