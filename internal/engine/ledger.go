package engine

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/metrics"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// RetentionMonths is how many calendar months of expenses survive a load.
const RetentionMonths = 2

// Append records one expense, filling missing fields with defaults, and
// awards PointsPerExpense.
func (e *Engine) Append(ctx context.Context, c models.ExpenseCandidate) models.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()

	exp := e.appendLocked(ctx, c, "manual")
	e.addPointsLocked(ctx, PointsPerExpense, "expense")
	return exp
}

func (e *Engine) appendLocked(ctx context.Context, c models.ExpenseCandidate, source string) models.Expense {
	exp := e.normalize(c)
	e.expenses = slices.Insert(e.expenses, 0, exp)
	e.saveExpenses(ctx)

	metrics.ExpensesRecorded.WithLabelValues(source).Inc()
	e.log.Info().
		Str("expense_id", exp.ID).
		Str("amount", exp.Amount.String()).
		Str("category", exp.Category).
		Str("description", logger.SanitizeDescription(exp.Description)).
		Str("source", source).
		Msg("Expense recorded")
	return exp
}

// AppendBatch records several expenses at once. The created expenses keep
// their input order and are placed ahead of existing entries as one block.
// The batch earns a flat PointsPerBatch regardless of its size, including
// an empty batch.
func (e *Engine) AppendBatch(ctx context.Context, cs []models.ExpenseCandidate) []models.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()

	created := make([]models.Expense, 0, len(cs))
	for _, c := range cs {
		created = append(created, e.normalize(c))
	}

	if len(created) > 0 {
		e.expenses = slices.Concat(created, e.expenses)
		e.saveExpenses(ctx)
		metrics.ExpensesRecorded.WithLabelValues("batch").Add(float64(len(created)))
	}
	e.log.Info().Int("count", len(created)).Msg("Expense batch recorded")

	e.addPointsLocked(ctx, PointsPerBatch, "batch")
	return slices.Clone(created)
}

func (e *Engine) normalize(c models.ExpenseCandidate) models.Expense {
	exp := models.Expense{
		ID:          e.newID(),
		Amount:      decimal.Zero,
		Category:    models.DefaultCategory,
		Date:        e.now(),
		Description: c.Description,
	}
	if c.Amount != nil {
		if c.Amount.IsNegative() {
			e.log.Debug().Str("amount", c.Amount.String()).Msg("Negative amount defaulted to zero")
		} else {
			exp.Amount = *c.Amount
		}
	}
	if cat := strings.TrimSpace(c.Category); cat != "" {
		exp.Category = cat
	}
	if !c.Date.IsZero() {
		exp.Date = c.Date
	}
	return exp
}

// Expenses returns the ledger, most recent first.
func (e *Engine) Expenses() []models.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.expenses)
}

// PruneExpenses keeps only expenses dated strictly after now minus
// RetentionMonths calendar months. Order is preserved.
func PruneExpenses(raw []models.Expense, now time.Time) []models.Expense {
	cutoff := SubMonths(now, RetentionMonths)
	kept := make([]models.Expense, 0, len(raw))
	for _, exp := range raw {
		if exp.Date.After(cutoff) {
			kept = append(kept, exp)
		}
	}
	return kept
}

// SubMonths subtracts n calendar months from t. When the target month is
// shorter, the day is clamped to its last day (March 31 minus one month is
// February 28 or 29), unlike time.AddDate which overflows into the next month.
func SubMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := daysIn(first.Year(), first.Month(), t.Location())
	return time.Date(first.Year(), first.Month(), min(d, last),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Summary holds spending tallies for the current week and month.
type Summary struct {
	WeekSpent     decimal.Decimal `json:"weekSpent"`
	WeeklyLimit   decimal.Decimal `json:"weeklyLimit"`
	MonthSpent    decimal.Decimal `json:"monthSpent"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	SafeToSpend   decimal.Decimal `json:"safeToSpend"`
}

// Summary totals spending over the trailing seven days and the current
// calendar month. SafeToSpend is income minus month spending, floored at 0.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().In(e.loc)
	weekStart := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, e.loc)

	s := Summary{
		WeekSpent:     decimal.Zero,
		WeeklyLimit:   e.settings.WeeklyLimit,
		MonthSpent:    decimal.Zero,
		MonthlyIncome: e.settings.MonthlyIncome,
	}
	for _, exp := range e.expenses {
		if exp.Date.After(weekStart) && !exp.Date.After(now) {
			s.WeekSpent = s.WeekSpent.Add(exp.Amount)
		}
		if !exp.Date.Before(monthStart) && !exp.Date.After(now) {
			s.MonthSpent = s.MonthSpent.Add(exp.Amount)
		}
	}
	s.SafeToSpend = decimal.Max(s.MonthlyIncome.Sub(s.MonthSpent), decimal.Zero)
	return s
}
