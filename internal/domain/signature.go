package domain

// Domain identifies a product super-category that requires specialized
// attribute matching
type Domain string

const (
	DomainShrimp       Domain = "SHRIMP"
	DomainFishFillet   Domain = "FISH_FILLET"
	DomainGeneric      Domain = "GENERIC"
	DomainUnclassified Domain = "UNCLASSIFIED"
	DomainExcluded     Domain = "EXCLUDED"
)

// UnitType is the physical quantity family of a product's base unit
type UnitType string

const (
	UnitWeight  UnitType = "WEIGHT" // canonical base unit: grams
	UnitVolume  UnitType = "VOLUME" // canonical base unit: milliliters
	UnitPiece   UnitType = "PIECE"  // canonical base unit: count
	UnitUnknown UnitType = "UNKNOWN"
)

// TriState represents an attribute that can be affirmatively on, off, or
// simply not mentioned in the source text. Unknown-vs-known is itself
// evidence during gate matching, so the zero value must be Unknown.
type TriState int

const (
	TriUnknown TriState = iota
	TriOn
	TriOff
)

func (t TriState) String() string {
	switch t {
	case TriOn:
		return "on"
	case TriOff:
		return "off"
	default:
		return "unknown"
	}
}

// Caliber is a size/count-range band for graded products (e.g. "16/20").
// A zero Max means the caliber is unknown.
type Caliber struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Known reports whether the caliber band was actually parsed from text.
func (c Caliber) Known() bool { return c.Max > 0 }

// Equal reports exact band equality. Graded products only ever match on the
// exact band, never on overlap.
func (c Caliber) Equal(other Caliber) bool {
	return c.Min == other.Min && c.Max == other.Max
}

// Origin is the geographic provenance of a product. The most specific known
// level wins when comparing two origins.
type Origin struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// SameCountry reports whether both origins name the same country.
func (o Origin) SameCountry(other Origin) bool {
	return o.Country != "" && o.Country == other.Country
}

// DomainAttrs is the per-domain attribute payload of a Signature. The gate
// pipeline switches on the concrete type, so adding a domain without adding
// its gates fails loudly instead of silently matching nothing.
type DomainAttrs interface {
	AttrDomain() Domain
}

// ShrimpAttrs are the attributes of a graded/count product.
type ShrimpAttrs struct {
	Species   string   `json:"species,omitempty"`
	State     string   `json:"state,omitempty"` // frozen, chilled, cooked
	Form      string   `json:"form,omitempty"`  // whole, peeled, butterfly, ring
	TailState TriState `json:"tailState"`
	Breaded   TriState `json:"breaded"`
	Caliber   Caliber  `json:"caliber"`
}

func (ShrimpAttrs) AttrDomain() Domain { return DomainShrimp }

// FilletAttrs are the attributes of a cut/structure-graded fish product.
type FilletAttrs struct {
	Species string   `json:"species,omitempty"`
	CutType string   `json:"cutType,omitempty"` // fillet, loin, steak, whole
	State   string   `json:"state,omitempty"`
	Skin    TriState `json:"skin"`
	Breaded TriState `json:"breaded"`
}

func (FilletAttrs) AttrDomain() Domain { return DomainFishFillet }

// GenericAttrs is the payload for products outside the specialized domains.
type GenericAttrs struct{}

func (GenericAttrs) AttrDomain() Domain { return DomainGeneric }

// Signature is the structured attribute set classified from a free-text item
// name. It is immutable once computed; a new source text yields a new
// signature.
type Signature struct {
	Domain     Domain      `json:"domain"`
	Attrs      DomainAttrs `json:"attrs,omitempty"`
	UnitType   UnitType    `json:"unitType"`
	NetBaseQty float64     `json:"netBaseQty,omitempty"` // grams, ml or count
	BrandID    string      `json:"brandId,omitempty"`
	Origin     Origin      `json:"origin"`
	IsBox      bool        `json:"isBox"`
	CoreID     string      `json:"coreId,omitempty"` // coarse product bucket
}

// Shrimp returns the shrimp payload, or nil when the signature belongs to a
// different domain.
func (s Signature) Shrimp() *ShrimpAttrs {
	if a, ok := s.Attrs.(ShrimpAttrs); ok {
		return &a
	}
	return nil
}

// Fillet returns the fillet payload, or nil for other domains.
func (s Signature) Fillet() *FilletAttrs {
	if a, ok := s.Attrs.(FilletAttrs); ok {
		return &a
	}
	return nil
}

// NetWeightKnown reports whether the signature exposes a usable net base
// weight. This is the only sanctioned bridge across unit types: two offers
// with known net weights may be compared per gram even when their declared
// unit types differ.
func (s Signature) NetWeightKnown() bool {
	return s.UnitType == UnitWeight && s.NetBaseQty > 0
}

// Classification is the full outcome of classifying one text: either a usable
// signature (Code is empty) or an explicit terminal state. Terminal states are
// data, not errors, so the matcher can short-circuit with a reason code
// instead of degrading to a looser strategy.
type Classification struct {
	Signature Signature `json:"signature"`
	Code      string    `json:"code,omitempty"`
}

// Classified reports whether the signature may enter domain-specific gates.
func (c Classification) Classified() bool { return c.Code == "" }
