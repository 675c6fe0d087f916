// Package units parses free-text quantity expressions into a canonical base
// unit: WEIGHT in grams, VOLUME in milliliters, PIECE as a count.
//
// Ranged quantities ("300-400g") resolve to the upper bound. A range on a
// pack label is a fill tolerance, and costing against the upper bound never
// under-orders. This is a deliberate, documented policy, not an accident of
// parsing order.
package units

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/supplymatch/backend/internal/domain"
)

// Quantity is a parsed quantity expression in canonical base units.
type Quantity struct {
	Type        domain.UnitType
	BaseQty     float64
	Approximate bool // "~5kg", "approx 2 kg"
	Ranged      bool // "300-400g", resolved to the upper bound
}

const unitToken = `(kg|kilograms?|g|gr|grams?|lbs?|pounds?|oz|l|litres?|liters?|ml|cl|pcs?|pieces?|count|ct|ea|each)`

var (
	// "10x200g", "10 × 200 g": pack notation, total = count × per-pack qty
	reMultiplied = regexp.MustCompile(`\b(\d{1,4})\s*[x×*]\s*(\d+(?:[.,]\d+)?)\s*` + unitToken + `\b`)

	// "300-400g", "300 – 400 g"
	reRanged = regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s*[-–—]\s*(\d+(?:[.,]\d+)?)\s*` + unitToken + `\b`)

	// "1kg", "2.5 l", "~500 g", "24 pcs"
	reSimple = regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s*` + unitToken + `\b`)

	reApprox = regexp.MustCompile(`(~|\bapprox\.?\b|\babout\b|\bca\.?\b)`)

	// "16/20" is a caliber band, never a quantity; spans shaped like it are
	// masked out before quantity parsing.
	reSlashBand = regexp.MustCompile(`\b\d{1,3}\s*/\s*\d{1,3}\b`)

	// "16-20 pcs" is the count-unit spelling of a caliber band, masked like
	// the slash form so it never parses as a ranged piece quantity.
	reDashBand = regexp.MustCompile(`\b\d{1,3}\s*[-–—]\s*\d{1,3}\s*(?:pcs?|pieces?|count|ct)\b`)
)

var weightFactors = map[string]float64{
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"g": 1, "gr": 1, "gram": 1, "grams": 1,
	"lb": 453.592, "lbs": 453.592, "pound": 453.592, "pounds": 453.592,
	"oz": 28.3495,
}

var volumeFactors = map[string]float64{
	"l": 1000, "litre": 1000, "litres": 1000, "liter": 1000, "liters": 1000,
	"ml": 1, "cl": 10,
}

var pieceUnits = map[string]bool{
	"pc": true, "pcs": true, "piece": true, "pieces": true,
	"count": true, "ct": true, "ea": true, "each": true,
}

// Parse extracts the first quantity expression from text. The second return
// value is false when no parseable quantity is present.
func Parse(text string) (Quantity, bool) {
	t := strings.ToLower(text)
	t = reSlashBand.ReplaceAllString(t, " ")
	t = reDashBand.ReplaceAllString(t, " ")

	approx := reApprox.MatchString(t)

	if m := reMultiplied.FindStringSubmatch(t); m != nil {
		count, _ := strconv.ParseFloat(m[1], 64)
		per := parseNumber(m[2])
		ut, factor := unitOf(m[3])
		if ut != domain.UnitUnknown && count > 0 && per > 0 {
			return Quantity{Type: ut, BaseQty: count * per * factor, Approximate: approx}, true
		}
	}

	if m := reRanged.FindStringSubmatch(t); m != nil {
		lo := parseNumber(m[1])
		hi := parseNumber(m[2])
		ut, factor := unitOf(m[3])
		if ut != domain.UnitUnknown && hi > 0 && lo <= hi {
			return Quantity{Type: ut, BaseQty: hi * factor, Approximate: approx, Ranged: true}, true
		}
	}

	if m := reSimple.FindStringSubmatch(t); m != nil {
		v := parseNumber(m[1])
		ut, factor := unitOf(m[2])
		if ut != domain.UnitUnknown && v > 0 {
			return Quantity{Type: ut, BaseQty: v * factor, Approximate: approx}, true
		}
	}

	return Quantity{Type: domain.UnitUnknown}, false
}

// Compatible reports whether two unit types may be compared at all. Physical
// quantity families never cross: weight matches only weight, volume only
// volume, piece only piece. UNKNOWN is not compatible with anything here; the
// matcher applies its own last-resort handling for unknowns.
func Compatible(a, b domain.UnitType) bool {
	if a == domain.UnitUnknown || b == domain.UnitUnknown {
		return false
	}
	return a == b
}

// BaseUnitName returns the canonical unit suffix for display ("g", "ml",
// "pcs").
func BaseUnitName(t domain.UnitType) string {
	switch t {
	case domain.UnitWeight:
		return "g"
	case domain.UnitVolume:
		return "ml"
	case domain.UnitPiece:
		return "pcs"
	default:
		return ""
	}
}

func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func unitOf(token string) (domain.UnitType, float64) {
	if f, ok := weightFactors[token]; ok {
		return domain.UnitWeight, f
	}
	if f, ok := volumeFactors[token]; ok {
		return domain.UnitVolume, f
	}
	if pieceUnits[token] {
		return domain.UnitPiece, 1
	}
	return domain.UnitUnknown, 0
}
