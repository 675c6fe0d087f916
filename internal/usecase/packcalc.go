package usecase

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/supplymatch/backend/internal/domain"
	"github.com/supplymatch/backend/internal/units"
)

// Quote computes how many packages of an offer cover a required quantity and
// what that costs. packs = ceil(required/pack), never below 1, always
// integral. An offer with an unknown pack size still gets a quote, marked
// PACK_UNKNOWN, so the ranker can keep it behind known-pack candidates.
func Quote(required float64, offer domain.Offer) domain.PackQuote {
	q := domain.PackQuote{
		PackBaseQty: offer.PackBaseQty,
		RequiredQty: required,
	}

	if !offer.PackKnown || offer.PackBaseQty <= 0 {
		q.PackStatus = domain.ReasonPackUnknown
		q.PacksNeeded = 1
		q.TotalCost = offer.Price
		q.Equation = "pack size unknown"
		return q
	}

	packs := int64(math.Ceil(required / offer.PackBaseQty))
	if packs < 1 {
		packs = 1
	}
	q.PacksNeeded = packs
	q.TotalCost = offer.Price.Mul(decimal.NewFromInt(packs))

	unit := units.BaseUnitName(offer.Signature.UnitType)
	if unit == "" {
		unit = units.BaseUnitName(domain.UnitWeight)
	}
	q.Equation = fmt.Sprintf("%d × %s %s = %s %s",
		packs, trimFloat(offer.PackBaseQty), unit,
		trimFloat(float64(packs)*offer.PackBaseQty), unit)
	return q
}

// trimFloat formats a quantity without trailing zeros.
func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
