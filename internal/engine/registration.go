package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/locale"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/metrics"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// Registration errors.
var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrInvalidProfile    = errors.New("invalid profile")
	ErrInvalidMobile     = errors.New("invalid mobile number")
	ErrNotRegistered     = errors.New("user not registered")
)

// Register stores the user's profile, syncs it into settings and seeds the
// vice goal with the country's default amounts. Unknown countries are
// stored as the default country.
func (e *Engine) Register(ctx context.Context, p models.UserProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Mobile = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(p.Mobile))
	p.Country = strings.ToUpper(strings.TrimSpace(p.Country))
	if !locale.Supported(p.Country) {
		p.Country = models.DefaultCountry
	}

	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.MonthlyIncome.IsNegative() {
		return fmt.Errorf("%w: monthly income cannot be negative", ErrInvalidProfile)
	}
	if !locale.ValidateMobile(p.Country, p.Mobile) {
		return fmt.Errorf("%w for %s", ErrInvalidMobile, p.Country)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile != nil {
		return ErrAlreadyRegistered
	}

	cfg := locale.Resolve(p.Country)
	e.profile = &p
	e.settings.PhoneNumber = p.Mobile
	e.settings.MonthlyIncome = p.MonthlyIncome
	e.settings.Country = cfg.Code
	e.settings.CurrencySymbol = cfg.Symbol

	d := locale.DefaultViceGoal(cfg.Code)
	e.goal.TargetAmount = d.TargetAmount
	e.goal.VicePrice = d.VicePrice

	e.saveProfile(ctx)
	e.saveSettings(ctx)
	e.saveGoal(ctx)

	e.log.Info().
		Str("country", cfg.Code).
		Str("mobile", logger.RedactMobile(p.Mobile)).
		Msg("User registered")
	return nil
}

// Registered reports whether a profile exists.
func (e *Engine) Registered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile != nil
}

// Profile returns the registered profile.
func (e *Engine) Profile() (models.UserProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return models.UserProfile{}, false
	}
	return *e.profile, true
}

// UpdateMonthlyIncome changes the income on both the profile and settings.
func (e *Engine) UpdateMonthlyIncome(ctx context.Context, income decimal.Decimal) error {
	if income.IsNegative() {
		return fmt.Errorf("%w: monthly income cannot be negative", ErrInvalidProfile)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile == nil {
		return ErrNotRegistered
	}
	e.profile.MonthlyIncome = income
	e.settings.MonthlyIncome = income
	e.saveProfile(ctx)
	e.saveSettings(ctx)
	return nil
}

// SetWeeklyLimit changes the weekly spending limit.
func (e *Engine) SetWeeklyLimit(ctx context.Context, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return fmt.Errorf("%w: weekly limit cannot be negative", ErrInvalidProfile)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings.WeeklyLimit = limit
	e.saveSettings(ctx)
	return nil
}

// Settings returns the current settings.
func (e *Engine) Settings() models.AppSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Locale returns the country configuration for the current settings.
func (e *Engine) Locale() models.CountryConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return locale.Resolve(e.settings.Country)
}

// T translates key for the current country.
func (e *Engine) T(key string) string {
	return locale.Translate(e.Locale(), key)
}

// Reset wipes the store and returns every entity to its default. A store
// failure is logged and the in-memory state is reset regardless.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Clear(ctx); err != nil {
		metrics.PersistenceFailures.WithLabelValues("*", "clear").Inc()
		e.log.Error().Err(err).Msg("Failed to clear store")
	}
	e.resetToDefaults()
	e.log.Info().Msg("All data reset")
}

// State is a point-in-time copy of everything the engine holds.
type State struct {
	Profile       *models.UserProfile      `json:"profile"`
	Settings      models.AppSettings       `json:"settings"`
	Stats         models.UserStats         `json:"stats"`
	ViceGoal      models.ViceGoal          `json:"viceGoal"`
	GoalProgress  float64                  `json:"goalProgress"`
	Expenses      []models.Expense         `json:"expenses"`
	Subscriptions []models.Subscription    `json:"subscriptions"`
	Pending       []models.PendingPurchase `json:"pending"`
	Notifications []string                 `json:"notifications"`
}

// Snapshot returns a deep copy of the engine state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	var profile *models.UserProfile
	if e.profile != nil {
		p := *e.profile
		profile = &p
	}
	stats := e.stats
	stats.Badges = slices.Clone(e.stats.Badges)

	return State{
		Profile:       profile,
		Settings:      e.settings,
		Stats:         stats,
		ViceGoal:      e.goal,
		GoalProgress:  e.goal.Progress(),
		Expenses:      slices.Clone(e.expenses),
		Subscriptions: slices.Clone(e.subscriptions),
		Pending:       slices.Clone(e.pending),
		Notifications: slices.Clone(e.notifications),
	}
}
