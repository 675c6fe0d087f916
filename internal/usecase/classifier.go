package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/lexicon"
	"github.com/supplymatch/backend/internal/units"
)

// Package-level compiled regex patterns for performance
var (
	// Keep / - × x & . , ~ : caliber bands, ranges, pack notation and
	// abbreviations like "p&d" survive normalization.
	stripPunctRegex     = regexp.MustCompile(`[^\p{L}\p{N}\s/×x&.,~-]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	wordTokenRegex      = regexp.MustCompile(`\p{L}{2,}`)
)

// diacriticsFold strips combining marks so "filé" and "file" classify alike.
var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Classifier turns free item text into a structured product signature, or an
// explicit terminal state. It holds no mutable state and is safe for
// concurrent use.
type Classifier struct {
	lex   *lexicon.Lexicon
	debug bool
}

// NewClassifier creates a classifier over an immutable lexicon.
func NewClassifier(lex *lexicon.Lexicon, debugTrace bool) *Classifier {
	return &Classifier{lex: lex, debug: debugTrace}
}

// Normalize lowercases, folds diacritics, strips punctuation the pattern
// tables do not consume, and collapses whitespace. The result is also the
// classification cache key: a signature is recomputed only when the source
// text changes.
func (c *Classifier) Normalize(text string) string {
	s := strings.ToLower(text)
	if folded, _, err := transform.String(diacriticsFold, s); err == nil {
		s = folded
	}
	s = stripPunctRegex.ReplaceAllString(s, " ")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Classify computes the signature for one text. The outcome is always data:
// a classified signature, or one of the terminal codes (SOURCE_EXCLUDED,
// REF_NOT_CLASSIFIED, REF_PARSE_FAILED).
func (c *Classifier) Classify(text string) domain.Classification {
	t := c.Normalize(text)
	if t == "" || !wordTokenRegex.MatchString(t) {
		return terminal(domain.DomainUnclassified, domain.ReasonRefNotClassified)
	}

	// Forbidden classes win over everything, including guard rules.
	if c.lex.Forbidden(t) {
		if c.debug {
			log.Printf("[CLASSIFY] %q -> EXCLUDED (forbidden class)", text)
		}
		return terminal(domain.DomainExcluded, domain.ReasonSourceExcluded)
	}

	caliber, caliberSeen, caliberOK := c.parseCaliber(t)
	if caliberSeen && !caliberOK {
		// A caliber-shaped token that does not parse is its own failure
		// mode, distinct from "nothing recognized".
		if c.debug {
			log.Printf("[CLASSIFY] %q -> PARSE_FAILED (bad caliber band)", text)
		}
		return terminal(domain.DomainUnclassified, domain.ReasonRefParseFailed)
	}

	dom, explicit := c.lex.DomainOf(t)
	if gd, guarded := c.lex.Guard(t); guarded {
		// Guard overrides always win over inferred classification.
		dom = gd
		explicit = true
	}

	if !explicit {
		// Contextual inference: a caliber band plus at least two independent
		// attribute markers is enough evidence for the graded domain. One
		// weak token alone never classifies.
		if caliberSeen && c.attributeMarkers(t) >= 2 {
			dom = domain.DomainShrimp
		} else {
			dom = domain.DomainGeneric
		}
	}

	sig := domain.Signature{
		Domain:  dom,
		BrandID: c.lex.Brand(t),
		Origin:  c.lex.OriginOf(t),
		IsBox:   c.lex.BoxPattern.MatchString(t),
	}

	if q, ok := units.Parse(t); ok {
		sig.UnitType = q.Type
		sig.NetBaseQty = q.BaseQty
	} else {
		sig.UnitType = domain.UnitUnknown
	}

	switch dom {
	case domain.DomainShrimp:
		sig.Attrs = c.shrimpAttrs(t, caliber)
	case domain.DomainFishFillet:
		sig.Attrs = c.filletAttrs(t)
	default:
		sig.Attrs = domain.GenericAttrs{}
	}
	sig.CoreID = c.coreID(t, sig)

	if c.debug {
		log.Printf("[CLASSIFY] %q -> domain=%s core=%s unit=%s qty=%.0f", text, sig.Domain, sig.CoreID, sig.UnitType, sig.NetBaseQty)
	}
	return domain.Classification{Signature: sig}
}

func terminal(d domain.Domain, code string) domain.Classification {
	return domain.Classification{
		Signature: domain.Signature{Domain: d, UnitType: domain.UnitUnknown, Attrs: domain.GenericAttrs{}},
		Code:      code,
	}
}

// parseCaliber returns (band, seen, valid). seen is true when a caliber-like
// token is present at all; valid only when it parses into a sane (min,max).
func (c *Classifier) parseCaliber(t string) (domain.Caliber, bool, bool) {
	if m := c.lex.CaliberBand.FindStringSubmatch(t); m != nil {
		min, _ := strconv.Atoi(m[1])
		max, _ := strconv.Atoi(m[2])
		if min > 0 && max > min && max <= 1000 {
			return domain.Caliber{Min: min, Max: max}, true, true
		}
		return domain.Caliber{}, true, false
	}
	// "16-20 pcs" is the count-unit spelling of the same band.
	if m := c.lex.CaliberDash.FindStringSubmatch(t); m != nil {
		min, _ := strconv.Atoi(m[1])
		max, _ := strconv.Atoi(m[2])
		if min > 0 && max > min && max <= 1000 {
			return domain.Caliber{Min: min, Max: max}, true, true
		}
		return domain.Caliber{}, true, false
	}
	if m := c.lex.CaliberUnder.FindStringSubmatch(t); m != nil {
		max, _ := strconv.Atoi(m[1])
		if max > 0 && max <= 1000 {
			return domain.Caliber{Min: 0, Max: max}, true, true
		}
		return domain.Caliber{}, true, false
	}
	return domain.Caliber{}, false, true
}

// attributeMarkers counts how many independent attribute dimensions the text
// carries evidence for.
func (c *Classifier) attributeMarkers(t string) int {
	n := 0
	for _, rules := range [][]lexicon.AttrRule{
		c.lex.ShrimpSpecies, c.lex.States, c.lex.Forms,
		c.lex.TailStates, c.lex.SkinStates, c.lex.Breaded,
	} {
		if _, ok := lexicon.MatchAttr(rules, t); ok {
			n++
		}
	}
	return n
}

func (c *Classifier) shrimpAttrs(t string, caliber domain.Caliber) domain.ShrimpAttrs {
	a := domain.ShrimpAttrs{Caliber: caliber}
	a.Species, _ = lexicon.MatchAttr(c.lex.ShrimpSpecies, t)
	a.State, _ = lexicon.MatchAttr(c.lex.States, t)
	a.Form, _ = lexicon.MatchAttr(c.lex.Forms, t)
	a.TailState = triOf(lexicon.MatchAttr(c.lex.TailStates, t))
	a.Breaded = triOf(lexicon.MatchAttr(c.lex.Breaded, t))
	return a
}

func (c *Classifier) filletAttrs(t string) domain.FilletAttrs {
	a := domain.FilletAttrs{}
	a.Species, _ = lexicon.MatchAttr(c.lex.FishSpecies, t)
	a.CutType, _ = lexicon.MatchAttr(c.lex.CutTypes, t)
	a.State, _ = lexicon.MatchAttr(c.lex.States, t)
	a.Skin = triOf(lexicon.MatchAttr(c.lex.SkinStates, t))
	a.Breaded = triOf(lexicon.MatchAttr(c.lex.Breaded, t))
	return a
}

func triOf(value string, found bool) domain.TriState {
	if !found {
		return domain.TriUnknown
	}
	if value == "on" {
		return domain.TriOn
	}
	return domain.TriOff
}

// coreID buckets a signature into a coarse product core for candidate
// prefiltering.
func (c *Classifier) coreID(t string, sig domain.Signature) string {
	switch sig.Domain {
	case domain.DomainShrimp:
		if a := sig.Shrimp(); a != nil && a.Species != "" {
			return "shrimp:" + a.Species
		}
		return "shrimp:any"
	case domain.DomainFishFillet:
		if a := sig.Fillet(); a != nil && a.Species != "" {
			return "fish:" + a.Species
		}
		return "fish:any"
	default:
		if m := wordTokenRegex.FindString(t); m != "" {
			return "generic:" + m
		}
		return "generic:any"
	}
}
