package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineIntent is the buyer's raw request for one cart line.
type LineIntent struct {
	Text          string  `json:"text"`
	RequiredQty   float64 `json:"requiredQty"`
	BrandCritical bool    `json:"brandCritical"`
}

// Substitution records an offer swap applied to a non-brand-critical line,
// kept for audit and display.
type Substitution struct {
	OriginalOfferID  string          `json:"originalOfferId"`
	OriginalSupplier string          `json:"originalSupplier"`
	OriginalPrice    decimal.Decimal `json:"originalPrice"`
	Savings          decimal.Decimal `json:"savings"`
}

// CartLine is one resolved cart position.
type CartLine struct {
	ID                  string          `json:"id"`
	Reference           ReferenceItem   `json:"reference"`
	Offer               *Offer          `json:"offer,omitempty"`
	Quote               *PackQuote      `json:"quote,omitempty"`
	EffectiveQty        float64         `json:"effectiveQty"`
	LineTotal           decimal.Decimal `json:"lineTotal"`
	Unmatched           bool            `json:"unmatched"`
	UnmatchedReason     string          `json:"unmatchedReason,omitempty"`
	SubstitutionApplied bool            `json:"substitutionApplied"`
	Substitution        *Substitution   `json:"substitution,omitempty"`
	TopupApplied        bool            `json:"topupApplied"`
	PackToleranceUsed   bool            `json:"packToleranceUsed"`
	SubstitutionRefused bool            `json:"substitutionRefused"`
}

// SupplierGroup collects the winning lines of one supplier and its
// minimum-order verdict.
type SupplierGroup struct {
	SupplierID       string          `json:"supplierId"`
	Lines            []CartLine      `json:"lines"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	MinimumThreshold decimal.Decimal `json:"minimumThreshold"`
	MeetsMinimum     bool            `json:"meetsMinimum"`
	Deficit          decimal.Decimal `json:"deficit"`
	Blocked          bool            `json:"blocked"`
	BlockedReason    string          `json:"blockedReason,omitempty"`
}

// CartPlan is the optimizer's answer for a whole cart. Blocking is
// per-supplier: BlockedReason is set only when nothing in the cart can
// proceed.
type CartPlan struct {
	CartID        string          `json:"cartId"`
	Groups        []SupplierGroup `json:"groups"`
	Unmatched     []CartLine      `json:"unmatched,omitempty"`
	Total         decimal.Decimal `json:"total"`
	BlockedReason string          `json:"blockedReason,omitempty"`
	Version       int64           `json:"version"`
}

// Order is one per-supplier order record produced at checkout. The ID is
// deterministic for a given (cart, supplier, version) so resubmission is
// idempotent.
type Order struct {
	ID          string          `json:"id"`
	CartID      string          `json:"cartId"`
	SupplierID  string          `json:"supplierId"`
	Destination string          `json:"destination"`
	Lines       []CartLine      `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// CheckoutResult reports the per-supplier fate of a checkout attempt. One
// supplier failing never drops the others.
type CheckoutResult struct {
	Submitted []Order           `json:"submitted"`
	Blocked   []SupplierGroup   `json:"blocked,omitempty"`
	Failed    map[string]string `json:"failed,omitempty"` // supplier id -> error text
	Outcome   string            `json:"outcome"`
}

// AuditIssue is one finding of the batch catalog audit.
type AuditIssue struct {
	OfferID string `json:"offerId"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// AuditReport is the result of one full catalog sweep.
type AuditReport struct {
	RanAt   time.Time      `json:"ranAt"`
	Scanned int            `json:"scanned"`
	Issues  []AuditIssue   `json:"issues"`
	ByCode  map[string]int `json:"byCode"`
}
