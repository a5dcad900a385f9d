package engine

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// AddSubscription stores a new subscription. A missing id, category or
// last-used date is filled in.
func (e *Engine) AddSubscription(ctx context.Context, sub models.Subscription) models.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sub.ID == "" {
		sub.ID = e.newID()
	}
	if strings.TrimSpace(sub.Category) == "" {
		sub.Category = "Subscription"
	}
	if sub.LastUsedDate.IsZero() {
		sub.LastUsedDate = e.now()
	}

	e.subscriptions = append(e.subscriptions, sub)
	e.saveSubs(ctx)

	e.log.Info().Str("subscription_id", sub.ID).Bool("essential", sub.IsEssential).Msg("Subscription added")
	return sub
}

// DeleteSubscription removes a subscription by id and reports whether it
// existed.
func (e *Engine) DeleteSubscription(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.IndexFunc(e.subscriptions, func(s models.Subscription) bool { return s.ID == id })
	if i < 0 {
		return false
	}
	e.subscriptions = slices.Delete(e.subscriptions, i, i+1)
	e.saveSubs(ctx)

	e.log.Info().Str("subscription_id", id).Msg("Subscription deleted")
	return true
}

// Subscriptions returns the tracked subscriptions in insertion order.
func (e *Engine) Subscriptions() []models.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.subscriptions)
}

// MonthlySubscriptionCost totals all subscriptions, and the essential ones.
func (e *Engine) MonthlySubscriptionCost() (total, essential decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	total, essential = decimal.Zero, decimal.Zero
	for _, s := range e.subscriptions {
		total = total.Add(s.Amount)
		if s.IsEssential {
			essential = essential.Add(s.Amount)
		}
	}
	return total, essential
}

// AddPendingPurchase stores a proposed purchase. A missing id or creation
// time is filled in.
func (e *Engine) AddPendingPurchase(ctx context.Context, p models.PendingPurchase) models.PendingPurchase {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.ID == "" {
		p.ID = e.newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = e.now()
	}

	e.pending = append(e.pending, p)
	e.savePending(ctx)

	e.log.Info().Str("pending_id", p.ID).Str("amount", p.Amount.String()).Msg("Pending purchase added")
	return p
}

// DeletePendingPurchase drops a pending purchase without recording it.
func (e *Engine) DeletePendingPurchase(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.removePendingLocked(ctx, id)
	if ok {
		e.log.Info().Str("pending_id", id).Msg("Pending purchase rejected")
	}
	return ok
}

// ApprovePendingPurchase removes a pending purchase and records it in the
// ledger under the Shopping category, earning the usual expense points.
// The cooling-off period is advisory and does not block approval.
func (e *Engine) ApprovePendingPurchase(ctx context.Context, id string) (models.Expense, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.removePendingLocked(ctx, id)
	if !ok {
		return models.Expense{}, false
	}

	amount := p.Amount
	exp := e.appendLocked(ctx, models.ExpenseCandidate{
		Amount:      &amount,
		Category:    models.ApprovedPurchaseCategory,
		Description: p.Name,
	}, "approval")
	e.addPointsLocked(ctx, PointsPerExpense, "expense")

	if remaining := p.CoolingOffRemaining(e.now()); remaining > 0 {
		e.log.Debug().Str("pending_id", id).Dur("cooling_off_remaining", remaining).Msg("Approved before cooling-off ended")
	}
	return exp, true
}

// PendingPurchases returns pending purchases in insertion order.
func (e *Engine) PendingPurchases() []models.PendingPurchase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.pending)
}

func (e *Engine) removePendingLocked(ctx context.Context, id string) (models.PendingPurchase, bool) {
	i := slices.IndexFunc(e.pending, func(p models.PendingPurchase) bool { return p.ID == id })
	if i < 0 {
		return models.PendingPurchase{}, false
	}
	p := e.pending[i]
	e.pending = slices.Delete(e.pending, i, i+1)
	e.savePending(ctx)
	return p, true
}
