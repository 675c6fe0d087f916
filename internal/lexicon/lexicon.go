// Package lexicon holds the static token and pattern tables the classifier
// and matcher are built on: domain terms, guard rules, forbidden classes,
// ordered attribute rules, geography and brand aliases. A Lexicon is built
// once, never mutated, and injected into every component that needs it.
package lexicon

import (
	"regexp"
	"strings"

	"github.com/supplymatch/backend/internal/domain"
)

// AttrRule maps a token pattern to a resulting attribute value. Rules are
// evaluated in slice order, first match wins, so precedence between
// overlapping tokens ("skin off" before "skin on", fillet before whole) lives
// in the data instead of in nested branching.
type AttrRule struct {
	Pattern *regexp.Regexp
	Value   string
}

// GuardRule is an explicit keyword-to-category override. Guard rules always
// win over inferred classification.
type GuardRule struct {
	Pattern *regexp.Regexp
	Domain  domain.Domain
}

// DomainTerm assigns a domain when its pattern matches; the scan list is
// ordered by priority.
type DomainTerm struct {
	Pattern *regexp.Regexp
	Domain  domain.Domain
}

// CrossMatchPair names two token sets that must never co-occur between a
// reference and a candidate, in either direction.
type CrossMatchPair struct {
	A *regexp.Regexp
	B *regexp.Regexp
}

// GeoRule maps a geography token to an origin. Rules are scanned in full and
// the most specific hit (city over region over country) wins.
type GeoRule struct {
	Pattern *regexp.Regexp
	Origin  domain.Origin
}

// Lexicon is the complete, immutable pattern library.
type Lexicon struct {
	Version string

	ForbiddenClasses []*regexp.Regexp
	GuardRules       []GuardRule
	DomainTerms      []DomainTerm

	ShrimpSpecies []AttrRule
	FishSpecies   []AttrRule
	CutTypes      []AttrRule
	States        []AttrRule
	Forms         []AttrRule
	TailStates    []AttrRule // values "on"/"off"
	SkinStates    []AttrRule
	Breaded       []AttrRule

	Anchors         map[domain.Domain][]*regexp.Regexp
	CrossMatchPairs []CrossMatchPair

	BrandAliases map[string]string
	GeoRules     []GeoRule

	CaliberBand  *regexp.Regexp // "16/20"
	CaliberDash  *regexp.Regexp // "16-20 pcs"
	CaliberUnder *regexp.Regexp // "U15", "u-10"
	BoxPattern   *regexp.Regexp
}

var (
	reForbidden = []*regexp.Regexp{
		regexp.MustCompile(`\b(pet|dog|cat)\s+(food|treats?)\b`),
		regexp.MustCompile(`\bbait\b`),
		regexp.MustCompile(`\baquarium\b`),
		regexp.MustCompile(`\bfertilizer\b`),
		regexp.MustCompile(`\bnot\s+for\s+human\s+consumption\b`),
	}

	// Guard overrides: analog/processed products must never land in the
	// specialized seafood domains even though their names carry domain tokens.
	reGuards = []GuardRule{
		{regexp.MustCompile(`\b(surimi|imitation\s+crab|crab\s+sticks?|seafood\s+sticks?)\b`), domain.DomainGeneric},
		{regexp.MustCompile(`\bshrimp\s+(paste|powder|flavou?r(ed)?|crackers?)\b`), domain.DomainGeneric},
		{regexp.MustCompile(`\bfish\s+(balls?|cakes?|sauce|stock|broth)\b`), domain.DomainGeneric},
	}

	reDomainTerms = []DomainTerm{
		{regexp.MustCompile(`\b(shrimps?|prawns?|scampi|langostinos?)\b`), domain.DomainShrimp},
		{regexp.MustCompile(`\b(cod|salmon|haddock|pollock|saithe|hake|tilapia|halibut|seabass|sea\s+bass|trout|perch|mackerel)\b`), domain.DomainFishFillet},
	}

	reShrimpSpecies = []AttrRule{
		{regexp.MustCompile(`\b(vannamei|white\s?leg)\b`), "vannamei"},
		{regexp.MustCompile(`\bblack\s+tiger\b`), "black_tiger"},
		{regexp.MustCompile(`\btiger\b`), "black_tiger"},
		{regexp.MustCompile(`\b(argentine\s+red|pleoticus)\b`), "argentine_red"},
		{regexp.MustCompile(`\b(northern|coldwater|cold\s+water|pandalus)\b`), "northern"},
	}

	reFishSpecies = []AttrRule{
		{regexp.MustCompile(`\bsea\s+bass\b`), "seabass"},
		{regexp.MustCompile(`\bcod\b`), "cod"},
		{regexp.MustCompile(`\bsalmon\b`), "salmon"},
		{regexp.MustCompile(`\bhaddock\b`), "haddock"},
		{regexp.MustCompile(`\b(pollock|saithe)\b`), "pollock"},
		{regexp.MustCompile(`\bhake\b`), "hake"},
		{regexp.MustCompile(`\btilapia\b`), "tilapia"},
		{regexp.MustCompile(`\bhalibut\b`), "halibut"},
		{regexp.MustCompile(`\bseabass\b`), "seabass"},
		{regexp.MustCompile(`\btrout\b`), "trout"},
		{regexp.MustCompile(`\bperch\b`), "perch"},
		{regexp.MustCompile(`\bmackerel\b`), "mackerel"},
	}

	// A more specific cut always outranks a generic one, even when both
	// tokens co-occur ("filleted cod ... whole pack" is still a fillet).
	reCutTypes = []AttrRule{
		{regexp.MustCompile(`\b(fillets?|filleted)\b`), "fillet"},
		{regexp.MustCompile(`\bloins?\b`), "loin"},
		{regexp.MustCompile(`\bportions?\b`), "portion"},
		{regexp.MustCompile(`\bsteaks?\b`), "steak"},
		{regexp.MustCompile(`\b(whole|carcass|round|gutted|h&g|headed\s+and\s+gutted)\b`), "whole"},
	}

	// "frozen" outranks "chilled" when both appear ("frozen, previously chilled").
	reStates = []AttrRule{
		{regexp.MustCompile(`\b(frozen|iqf|deep\s*frozen|frz)\b`), "frozen"},
		{regexp.MustCompile(`\b(defrosted|thawed)\b`), "chilled"},
		{regexp.MustCompile(`\bchilled\b`), "chilled"},
		{regexp.MustCompile(`\bfresh\b`), "chilled"},
		{regexp.MustCompile(`\b(cooked|boiled|blanched)\b`), "cooked"},
		{regexp.MustCompile(`\b(dried|dry)\b`), "dried"},
	}

	reForms = []AttrRule{
		{regexp.MustCompile(`\bbutterfly\b`), "butterfly"},
		{regexp.MustCompile(`\brings?\b`), "ring"},
		{regexp.MustCompile(`\b(peeled|p&d|pud|pd|easy\s+peel)\b`), "peeled"},
		{regexp.MustCompile(`\b(whole|head\s*on|shell\s*on|hoso)\b`), "whole"},
	}

	reTailStates = []AttrRule{
		{regexp.MustCompile(`\b(tail\s*off|tail-off|tailless|tl\s*off)\b`), "off"},
		{regexp.MustCompile(`\b(tail\s*on|tail-on|tl\s*on)\b`), "on"},
	}

	reSkinStates = []AttrRule{
		{regexp.MustCompile(`\b(skin\s*off|skin-off|skinless|skinned)\b`), "off"},
		{regexp.MustCompile(`\b(skin\s*on|skin-on)\b`), "on"},
	}

	reBreaded = []AttrRule{
		{regexp.MustCompile(`\b(unbreaded|non\s*breaded)\b`), "off"},
		{regexp.MustCompile(`\b(breaded|battered|tempura|panko|crumbed)\b`), "on"},
	}

	reAnchors = map[domain.Domain][]*regexp.Regexp{
		domain.DomainShrimp: {
			regexp.MustCompile(`\b(shrimps?|prawns?|scampi|langostinos?)\b`),
		},
		domain.DomainFishFillet: {
			regexp.MustCompile(`\b(cod|salmon|haddock|pollock|saithe|hake|tilapia|halibut|seabass|sea\s+bass|trout|perch|mackerel)\b`),
		},
	}

	reCrossMatch = []CrossMatchPair{
		{
			A: regexp.MustCompile(`\b(natural\s+crab|crab\s+meat|crab\s+legs?)\b`),
			B: regexp.MustCompile(`\b(surimi|imitation|analog(ue)?)\b`),
		},
		{
			A: regexp.MustCompile(`\bcaviar\b`),
			B: regexp.MustCompile(`\b(imitation|substitute)\b`),
		},
	}

	brandAliases = map[string]string{
		"polar seafood":   "polar",
		"polar":           "polar",
		"royal greenland": "royalgreenland",
		"vici":            "vici",
		"agama":           "agama",
		"seastar":         "seastar",
		"sea star":        "seastar",
		"espersen":        "espersen",
		"nordic seafood":  "nordic",
	}

	reGeo = []GeoRule{
		{regexp.MustCompile(`\bmurmansk\b`), domain.Origin{Country: "RU", Region: "murmansk", City: "murmansk"}},
		{regexp.MustCompile(`\b(alaska|alaskan)\b`), domain.Origin{Country: "US", Region: "alaska"}},
		{regexp.MustCompile(`\bfaroe\b`), domain.Origin{Country: "FO", Region: "faroe"}},
		{regexp.MustCompile(`\b(argentin(a|e|ian))\b`), domain.Origin{Country: "AR"}},
		{regexp.MustCompile(`\b(ecuador(ian)?)\b`), domain.Origin{Country: "EC"}},
		{regexp.MustCompile(`\b(india(n)?)\b`), domain.Origin{Country: "IN"}},
		{regexp.MustCompile(`\b(vietnam(ese)?)\b`), domain.Origin{Country: "VN"}},
		{regexp.MustCompile(`\b(norway|norwegian)\b`), domain.Origin{Country: "NO"}},
		{regexp.MustCompile(`\b(china|chinese)\b`), domain.Origin{Country: "CN"}},
		{regexp.MustCompile(`\b(russia(n)?)\b`), domain.Origin{Country: "RU"}},
		{regexp.MustCompile(`\b(iceland(ic)?)\b`), domain.Origin{Country: "IS"}},
		{regexp.MustCompile(`\b(chile(an)?)\b`), domain.Origin{Country: "CL"}},
		{regexp.MustCompile(`\b(indonesia(n)?)\b`), domain.Origin{Country: "ID"}},
		{regexp.MustCompile(`\b(thai(land)?)\b`), domain.Origin{Country: "TH"}},
	}

	reCaliberBand  = regexp.MustCompile(`\b(\d{1,3})\s*/\s*(\d{1,3})\b`)
	reCaliberDash  = regexp.MustCompile(`\b(\d{1,3})\s*[-–—]\s*(\d{1,3})\s*(?:pcs?|pieces?|count|ct)\b`)
	reCaliberUnder = regexp.MustCompile(`\bu\s*-?\s*(\d{1,3})\b`)
	reBox          = regexp.MustCompile(`\b(box|case|carton|master\s*carton)\b`)
)

// Default builds the built-in lexicon. The returned value must be treated as
// read-only; every classifier and matcher instance shares it.
func Default() *Lexicon {
	return &Lexicon{
		Version:          "2026-08",
		ForbiddenClasses: reForbidden,
		GuardRules:       reGuards,
		DomainTerms:      reDomainTerms,
		ShrimpSpecies:    reShrimpSpecies,
		FishSpecies:      reFishSpecies,
		CutTypes:         reCutTypes,
		States:           reStates,
		Forms:            reForms,
		TailStates:       reTailStates,
		SkinStates:       reSkinStates,
		Breaded:          reBreaded,
		Anchors:          reAnchors,
		CrossMatchPairs:  reCrossMatch,
		BrandAliases:     brandAliases,
		GeoRules:         reGeo,
		CaliberBand:      reCaliberBand,
		CaliberDash:      reCaliberDash,
		CaliberUnder:     reCaliberUnder,
		BoxPattern:       reBox,
	}
}

// MatchAttr runs an ordered rule list against normalized text and returns the
// first matching value.
func MatchAttr(rules []AttrRule, text string) (string, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return r.Value, true
		}
	}
	return "", false
}

// MatchesAny reports whether any pattern in the list matches.
func MatchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Forbidden reports whether the text names a globally excluded product class.
func (l *Lexicon) Forbidden(text string) bool {
	return MatchesAny(l.ForbiddenClasses, text)
}

// Guard returns the override domain for the text, if a guard rule fires.
func (l *Lexicon) Guard(text string) (domain.Domain, bool) {
	for _, g := range l.GuardRules {
		if g.Pattern.MatchString(text) {
			return g.Domain, true
		}
	}
	return "", false
}

// DomainOf scans the domain-term list in priority order.
func (l *Lexicon) DomainOf(text string) (domain.Domain, bool) {
	for _, t := range l.DomainTerms {
		if t.Pattern.MatchString(text) {
			return t.Domain, true
		}
	}
	return "", false
}

// Brand resolves a brand alias appearing in the text to its canonical id.
func (l *Lexicon) Brand(text string) string {
	for alias, id := range l.BrandAliases {
		if containsWord(text, alias) {
			return id
		}
	}
	return ""
}

// OriginOf returns the most specific origin named in the text.
func (l *Lexicon) OriginOf(text string) domain.Origin {
	var best domain.Origin
	bestRank := -1
	for _, g := range l.GeoRules {
		if !g.Pattern.MatchString(text) {
			continue
		}
		rank := 0
		if g.Origin.Region != "" {
			rank = 1
		}
		if g.Origin.City != "" {
			rank = 2
		}
		if rank > bestRank {
			best = g.Origin
			bestRank = rank
		}
	}
	return best
}

// containsWord does a word-boundary substring check without compiling a
// regexp per alias.
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordChar(text[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(text) || !isWordChar(text[afterIdx])
		if before && after {
			return true
		}
		idx = i + 1
	}
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
