package domain

import "github.com/shopspring/decimal"

// Offer is a read-only snapshot of one purchasable catalog position. The
// catalog collaborator owns the record; the engine only reads snapshots.
type Offer struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplierId"`
	Name        string          `json:"name"` // raw catalog text
	Signature   Signature       `json:"signature"`
	Price       decimal.Decimal `json:"price"`       // per package
	PackBaseQty float64         `json:"packBaseQty"` // base units per package
	PackKnown   bool            `json:"packKnown"`
	Available   bool            `json:"available"`
}

// ReferenceItem is what the buyer asked for: a free-text item plus the
// quantity they need, in canonical base units.
type ReferenceItem struct {
	Text          string    `json:"text"`
	Signature     Signature `json:"signature"`
	RequiredQty   float64   `json:"requiredQty"`
	BrandCritical bool      `json:"brandCritical"`
}

// GateResult records one (reference, candidate) evaluation: the gates the
// candidate passed in order, and the reason it was removed if any blocking
// gate failed. Never persisted beyond the request.
type GateResult struct {
	CandidateID  string   `json:"candidateId"`
	PassedGates  []string `json:"passedGates"`
	RejectReason string   `json:"rejectReason,omitempty"`
	Penalties    []string `json:"penalties,omitempty"` // non-blocking failures
}

// Rejected reports whether a blocking gate removed the candidate.
func (g GateResult) Rejected() bool { return g.RejectReason != "" }

// RankFeatures are the inputs to the fixed tie-break hierarchy.
type RankFeatures struct {
	ExactGradedMatch bool            `json:"exactGradedMatch"`
	BrandMatch       bool            `json:"brandMatch"`
	CountryMatch     bool            `json:"countryMatch"`
	Penalties        int             `json:"penalties,omitempty"`
	TextSimilarity   float64         `json:"textSimilarity"`
	Price            decimal.Decimal `json:"price"`
	PackKnown        bool            `json:"packKnown"`
}

// PackQuote is the transparent pack/cost computation for one offer against a
// required quantity.
type PackQuote struct {
	PackBaseQty  float64         `json:"packBaseQty"`
	RequiredQty  float64         `json:"requiredQty"`
	PacksNeeded  int64           `json:"packsNeeded"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	Equation     string          `json:"equation"` // e.g. "200 × 5 g = 1000 g"
	PackStatus   string          `json:"packStatus,omitempty"` // PACK_UNKNOWN when size missing
}

// RankedCandidate is a gate-passing offer with its ranking evidence.
type RankedCandidate struct {
	Offer       Offer        `json:"offer"`
	PassedGates []string     `json:"passedGates"`
	Features    RankFeatures `json:"features"`
	Quote       *PackQuote   `json:"quote,omitempty"`
}

// MatchMode selects how much of the result surface a query wants.
type MatchMode string

const (
	ModeStrict        MatchMode = "strict"
	ModeStrictSimilar MatchMode = "strict_similar"
)

// MatchResponse is the full answer to one match query.
type MatchResponse struct {
	Reference     Classification    `json:"reference"`
	Strict        []RankedCandidate `json:"strict"`
	Similar       []RankedCandidate `json:"similar,omitempty"`
	RejectCounts  map[string]int    `json:"rejectCounts"`
	Outcome       string            `json:"outcome"`
	OutcomeReason string            `json:"outcomeReason,omitempty"`
	CorrelationID string            `json:"correlationId"`
}
