package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplymatch/backend/internal/domain"
)

// orderNamespace seeds deterministic per-supplier order ids, so resubmitting
// the same cart version produces the same id and the order repository can
// deduplicate.
var orderNamespace = uuid.MustParse("9f2c1a40-3b7e-4d11-8c5a-2e9460f1b7aa")

// CartConfig holds the optimizer's tunables.
type CartConfig struct {
	// TopupBound is the largest deficit, as a fraction of the supplier
	// threshold, the optimizer may close automatically.
	TopupBound float64
	// LineTopupCap is the largest automatic quantity increase per line, as a
	// fraction of the line's current packs.
	LineTopupCap float64
	// DefaultMinimum applies to suppliers without an explicit threshold.
	DefaultMinimum decimal.Decimal
	// SupplierMinimums maps supplier id to its minimum-order threshold.
	SupplierMinimums map[string]decimal.Decimal
	DebugTrace       bool
}

type lineState struct {
	id     string
	intent domain.LineIntent
}

// cartState is all mutable state of one cart. Every operation on the cart
// runs under its mutex, so concurrent add-item and recompute-plan calls
// serialize instead of interleaving into lost updates.
type cartState struct {
	mu      sync.Mutex
	id      string
	version int64
	lines   []lineState
}

// CartService orchestrates the match pipeline per cart line, groups winners
// by supplier and resolves minimum-order constraints.
//
// Minimum-order policy is per supplier: a group that misses its threshold
// beyond the top-up bound is blocked and reported, while other suppliers
// proceed to checkout.
type CartService struct {
	match  *MatchService
	orders domain.OrderRepository
	config CartConfig

	mu    sync.Mutex
	carts map[string]*cartState
}

// NewCartService creates a cart service.
func NewCartService(match *MatchService, orders domain.OrderRepository, config CartConfig) *CartService {
	if config.TopupBound <= 0 {
		config.TopupBound = 0.10
	}
	if config.LineTopupCap <= 0 {
		config.LineTopupCap = 0.10
	}
	return &CartService{
		match:  match,
		orders: orders,
		config: config,
		carts:  make(map[string]*cartState),
	}
}

func (s *CartService) cart(cartID string, create bool) (*cartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		if !create {
			return nil, domain.ErrCartNotFound
		}
		c = &cartState{id: cartID}
		s.carts[cartID] = c
	}
	return c, nil
}

// AddItem appends a line intent to the cart, creating the cart on first use.
// Returns the new line id and the cart version after the mutation.
func (s *CartService) AddItem(ctx context.Context, cartID string, intent domain.LineIntent) (string, int64, error) {
	if cartID == "" || intent.Text == "" {
		return "", 0, domain.ErrInvalidRequest
	}
	c, err := s.cart(cartID, true)
	if err != nil {
		return "", 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	line := lineState{id: uuid.New().String(), intent: intent}
	c.lines = append(c.lines, line)
	c.version++
	return line.id, c.version, nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID, lineID string) error {
	c, err := s.cart(cartID, false)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.lines {
		if l.id == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.version++
			return nil
		}
	}
	return domain.ErrLineNotFound
}

// BuildPlan resolves every line, groups winners by supplier and applies the
// minimum-order remediation. The plan is recomputed from scratch on every
// call; nothing is cached between mutations.
func (s *CartService) BuildPlan(ctx context.Context, cartID string) (*domain.CartPlan, error) {
	c, err := s.cart(cartID, false)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return s.buildPlanLocked(ctx, c)
}

func (s *CartService) buildPlanLocked(ctx context.Context, c *cartState) (*domain.CartPlan, error) {
	plan := &domain.CartPlan{CartID: c.id, Version: c.version, Total: decimal.Zero}

	bySupplier := make(map[string][]domain.CartLine)
	for _, l := range c.lines {
		line, err := s.resolveLine(ctx, l)
		if err != nil {
			return nil, err
		}
		if line.Unmatched {
			plan.Unmatched = append(plan.Unmatched, *line)
			continue
		}
		bySupplier[line.Offer.SupplierID] = append(bySupplier[line.Offer.SupplierID], *line)
	}

	suppliers := make([]string, 0, len(bySupplier))
	for id := range bySupplier {
		suppliers = append(suppliers, id)
	}
	sort.Strings(suppliers)

	anyOpen := false
	for _, supplierID := range suppliers {
		group := s.buildGroup(supplierID, bySupplier[supplierID])
		if !group.Blocked {
			anyOpen = true
			plan.Total = plan.Total.Add(group.Subtotal)
		}
		plan.Groups = append(plan.Groups, group)
	}

	if len(plan.Groups) == 0 && len(plan.Unmatched) > 0 {
		plan.BlockedReason = domain.ReasonNoMatch
	} else if len(plan.Groups) > 0 && !anyOpen {
		plan.BlockedReason = domain.ReasonMinOrderDeficit
	}

	if s.config.DebugTrace {
		log.Printf("[CART] plan cart=%s groups=%d unmatched=%d total=%s blocked=%q",
			c.id, len(plan.Groups), len(plan.Unmatched), plan.Total, plan.BlockedReason)
	}
	return plan, nil
}

// resolveLine runs the match pipeline for one intent and applies the
// substitution policy.
func (s *CartService) resolveLine(ctx context.Context, l lineState) (*domain.CartLine, error) {
	// Match without brand enforcement first: the full strict set is needed
	// to find cheaper equivalents and to report refused substitutions.
	open, err := s.match.Match(ctx, &MatchRequest{
		Text:        l.intent.Text,
		RequiredQty: l.intent.RequiredQty,
		Mode:        domain.ModeStrict,
	})
	if err != nil {
		return nil, err
	}

	line := &domain.CartLine{
		ID: l.id,
		Reference: domain.ReferenceItem{
			Text:          l.intent.Text,
			Signature:     open.Reference.Signature,
			RequiredQty:   l.intent.RequiredQty,
			BrandCritical: l.intent.BrandCritical,
		},
		LineTotal: decimal.Zero,
	}

	strict := open.Strict
	if l.intent.BrandCritical && open.Reference.Signature.BrandID != "" {
		strict = filterBrand(strict, open.Reference.Signature.BrandID)
	}
	if len(strict) == 0 {
		line.Unmatched = true
		line.UnmatchedReason = open.OutcomeReason
		if line.UnmatchedReason == "" {
			line.UnmatchedReason = domain.ReasonNoMatch
		}
		return line, nil
	}

	winner := strict[0]
	s.applyOffer(line, winner)

	// Substitution: a strictly cheaper gate-equivalent replaces the winner
	// on non-brand-critical lines. Brand-critical lines keep their offer and
	// only record that a cheaper equivalent existed.
	cheapest := cheapestOf(open.Strict)
	if cheapest != nil && cheapest.Offer.ID != winner.Offer.ID && cheapest.Quote.TotalCost.LessThan(winner.Quote.TotalCost) {
		if l.intent.BrandCritical {
			line.SubstitutionRefused = true
		} else {
			original := winner
			s.applyOffer(line, *cheapest)
			line.SubstitutionApplied = true
			line.Substitution = &domain.Substitution{
				OriginalOfferID:  original.Offer.ID,
				OriginalSupplier: original.Offer.SupplierID,
				OriginalPrice:    original.Quote.TotalCost,
				Savings:          original.Quote.TotalCost.Sub(cheapest.Quote.TotalCost),
			}
		}
	}

	return line, nil
}

func (s *CartService) applyOffer(line *domain.CartLine, cand domain.RankedCandidate) {
	offer := cand.Offer
	quote := *cand.Quote
	line.Offer = &offer
	line.Quote = &quote
	line.LineTotal = quote.TotalCost
	line.EffectiveQty = quote.RequiredQty
	if quote.PackStatus == "" {
		purchased := float64(quote.PacksNeeded) * quote.PackBaseQty
		line.EffectiveQty = purchased
		line.PackToleranceUsed = purchased > quote.RequiredQty
	}
}

// buildGroup computes the minimum-order verdict for one supplier and applies
// the bounded top-up when the deficit is small enough.
func (s *CartService) buildGroup(supplierID string, lines []domain.CartLine) domain.SupplierGroup {
	group := domain.SupplierGroup{
		SupplierID:       supplierID,
		Lines:            lines,
		MinimumThreshold: s.threshold(supplierID),
		Subtotal:         decimal.Zero,
	}
	for _, l := range lines {
		group.Subtotal = group.Subtotal.Add(l.LineTotal)
	}

	if group.Subtotal.GreaterThanOrEqual(group.MinimumThreshold) {
		group.MeetsMinimum = true
		return group
	}

	group.Deficit = group.MinimumThreshold.Sub(group.Subtotal)
	bound := group.MinimumThreshold.Mul(decimal.NewFromFloat(s.config.TopupBound))

	if group.Deficit.LessThan(bound) {
		s.topUp(&group)
	}

	if !group.MeetsMinimum {
		group.Blocked = true
		group.BlockedReason = fmt.Sprintf("%s: short %s of %s minimum",
			domain.ReasonMinOrderDeficit, group.Deficit, group.MinimumThreshold)
	}
	return group
}

// topUp raises line quantities, cheapest pack increment first, each line
// capped at its top-up allowance, until the subtotal reaches the threshold
// or every allowance is spent.
func (s *CartService) topUp(group *domain.SupplierGroup) {
	type slot struct {
		idx      int
		packCost decimal.Decimal
		allowed  int64
	}
	var slots []slot
	for i, l := range group.Lines {
		if l.Quote == nil || l.Quote.PackStatus != "" {
			continue
		}
		allowed := int64(float64(l.Quote.PacksNeeded) * s.config.LineTopupCap)
		if allowed < 1 {
			continue
		}
		slots = append(slots, slot{idx: i, packCost: l.Offer.Price, allowed: allowed})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].packCost.LessThan(slots[j].packCost) })

	for _, sl := range slots {
		for sl.allowed > 0 && group.Subtotal.LessThan(group.MinimumThreshold) {
			line := &group.Lines[sl.idx]
			line.Quote.PacksNeeded++
			line.Quote.TotalCost = line.Quote.TotalCost.Add(line.Offer.Price)
			line.EffectiveQty += line.Quote.PackBaseQty
			line.LineTotal = line.Quote.TotalCost
			line.TopupApplied = true
			group.Subtotal = group.Subtotal.Add(line.Offer.Price)
			sl.allowed--
		}
	}

	if group.Subtotal.GreaterThanOrEqual(group.MinimumThreshold) {
		group.MeetsMinimum = true
		group.Deficit = decimal.Zero
	} else {
		group.Deficit = group.MinimumThreshold.Sub(group.Subtotal)
	}
}

func (s *CartService) threshold(supplierID string) decimal.Decimal {
	if t, ok := s.config.SupplierMinimums[supplierID]; ok {
		return t
	}
	return s.config.DefaultMinimum
}

// Checkout finalizes the cart: every group that meets its minimum becomes
// one per-supplier order. Submission is idempotent per supplier, because the
// order id is deterministic for a (cart, supplier, version) triple, and one
// supplier's failure never drops the others.
func (s *CartService) Checkout(ctx context.Context, cartID, destination string, expectedVersion int64) (*domain.CheckoutResult, error) {
	if destination == "" {
		return nil, domain.ErrNoDestination
	}
	c, err := s.cart(cartID, false)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if expectedVersion != 0 && expectedVersion != c.version {
		return nil, domain.ErrVersionConflict
	}

	plan, err := s.buildPlanLocked(ctx, c)
	if err != nil {
		return nil, err
	}

	result := &domain.CheckoutResult{Failed: make(map[string]string)}
	for _, group := range plan.Groups {
		if group.Blocked {
			result.Blocked = append(result.Blocked, group)
			continue
		}
		order := &domain.Order{
			ID:          orderID(c.id, group.SupplierID, c.version),
			CartID:      c.id,
			SupplierID:  group.SupplierID,
			Destination: destination,
			Lines:       group.Lines,
			Total:       group.Subtotal,
			SubmittedAt: time.Now(),
		}
		if err := s.orders.Save(ctx, order); err != nil {
			result.Failed[group.SupplierID] = err.Error()
			continue
		}
		result.Submitted = append(result.Submitted, *order)
	}

	switch {
	case len(result.Submitted) == 0 && (len(result.Blocked) > 0 || len(result.Failed) > 0):
		result.Outcome = domain.OutcomeBlocked
	case len(result.Submitted) == 0:
		result.Outcome = domain.OutcomeNotFound
	default:
		result.Outcome = domain.OutcomeOK
	}

	if s.config.DebugTrace {
		log.Printf("[CART] checkout cart=%s submitted=%d blocked=%d failed=%d",
			c.id, len(result.Submitted), len(result.Blocked), len(result.Failed))
	}
	return result, nil
}

func orderID(cartID, supplierID string, version int64) string {
	name := fmt.Sprintf("%s:%s:%d", cartID, supplierID, version)
	return uuid.NewSHA1(orderNamespace, []byte(name)).String()
}

func filterBrand(candidates []domain.RankedCandidate, brandID string) []domain.RankedCandidate {
	var out []domain.RankedCandidate
	for _, c := range candidates {
		if c.Offer.Signature.BrandID == brandID {
			out = append(out, c)
		}
	}
	return out
}

func cheapestOf(candidates []domain.RankedCandidate) *domain.RankedCandidate {
	var best *domain.RankedCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.Quote == nil || c.Quote.PackStatus != "" {
			continue
		}
		if best == nil || c.Quote.TotalCost.LessThan(best.Quote.TotalCost) {
			best = c
		}
	}
	return best
}
