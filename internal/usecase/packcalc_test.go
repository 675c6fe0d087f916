package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/supplymatch/backend/internal/domain"
)

func TestQuote(t *testing.T) {
	weightOffer := func(pack float64, price string) domain.Offer {
		p, _ := decimal.NewFromString(price)
		return domain.Offer{
			ID:          "off-1",
			Price:       p,
			PackBaseQty: pack,
			PackKnown:   true,
			Signature:   domain.Signature{UnitType: domain.UnitWeight},
		}
	}

	t.Run("exact multiple", func(t *testing.T) {
		q := Quote(1000, weightOffer(200, "5.94"))
		if q.PacksNeeded != 5 {
			t.Errorf("packs = %d, want 5", q.PacksNeeded)
		}
		if !q.TotalCost.Equal(decimal.RequireFromString("29.70")) {
			t.Errorf("total = %s, want 29.70", q.TotalCost)
		}
		if q.Equation != "5 × 200 g = 1000 g" {
			t.Errorf("equation = %q", q.Equation)
		}
	})

	t.Run("rounds up to whole packs", func(t *testing.T) {
		q := Quote(1001, weightOffer(200, "5.94"))
		if q.PacksNeeded != 6 {
			t.Errorf("packs = %d, want 6", q.PacksNeeded)
		}
		if !q.TotalCost.Equal(decimal.RequireFromString("35.64")) {
			t.Errorf("total = %s, want 35.64", q.TotalCost)
		}
	})

	t.Run("never quotes below one pack", func(t *testing.T) {
		q := Quote(50, weightOffer(200, "5.94"))
		if q.PacksNeeded != 1 {
			t.Errorf("packs = %d, want 1", q.PacksNeeded)
		}
	})

	t.Run("required equal to pack is one pack", func(t *testing.T) {
		q := Quote(200, weightOffer(200, "5.94"))
		if q.PacksNeeded != 1 {
			t.Errorf("packs = %d, want 1", q.PacksNeeded)
		}
	})

	t.Run("decimal money stays exact across many packs", func(t *testing.T) {
		// 200 packs at 5.94: binary floats would drift here.
		q := Quote(40000, weightOffer(200, "5.94"))
		if q.PacksNeeded != 200 {
			t.Errorf("packs = %d, want 200", q.PacksNeeded)
		}
		if !q.TotalCost.Equal(decimal.RequireFromString("1188.00")) {
			t.Errorf("total = %s, want 1188.00", q.TotalCost)
		}
	})

	t.Run("unknown pack size quoted as single pack with marker", func(t *testing.T) {
		offer := domain.Offer{ID: "off-2", Price: decimal.RequireFromString("12.50")}
		q := Quote(1000, offer)
		if q.PackStatus != domain.ReasonPackUnknown {
			t.Errorf("status = %q, want %s", q.PackStatus, domain.ReasonPackUnknown)
		}
		if q.PacksNeeded != 1 {
			t.Errorf("packs = %d, want 1", q.PacksNeeded)
		}
		if !q.TotalCost.Equal(offer.Price) {
			t.Errorf("total = %s, want %s", q.TotalCost, offer.Price)
		}
	})

	t.Run("volume equation uses ml", func(t *testing.T) {
		offer := domain.Offer{
			Price:       decimal.NewFromInt(3),
			PackBaseQty: 500,
			PackKnown:   true,
			Signature:   domain.Signature{UnitType: domain.UnitVolume},
		}
		q := Quote(1000, offer)
		if q.Equation != "2 × 500 ml = 1000 ml" {
			t.Errorf("equation = %q", q.Equation)
		}
	})
}
