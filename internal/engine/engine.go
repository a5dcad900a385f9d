// Package engine holds the finance tracker's state and rules: the ledger,
// planner, vice goal, reward economy, notification log and registration.
//
// An Engine owns all in-memory state. Every operation runs under one mutex
// and writes the keys it touched back to the store before returning. Store
// failures are logged and counted, never returned; in-memory state stays
// authoritative for the life of the process.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/catalog"
	"gitlab.com/yelinaung/spendwise/internal/locale"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/metrics"
	"gitlab.com/yelinaung/spendwise/internal/models"
	"gitlab.com/yelinaung/spendwise/internal/store"
)

// Point awards.
const (
	PointsPerExpense = 10
	PointsPerBatch   = 30
	PointsPerSkip    = 15
	DailyBonusPoints = 50
)

// Default settings values.
var (
	DefaultWeeklyLimit   = decimal.NewFromInt(5000)
	DefaultMonthlyIncome = decimal.NewFromInt(30000)
)

// DefaultLanguage is the settings language before registration.
const DefaultLanguage = "en"

// Engine is the single owner of finance state for one user.
type Engine struct {
	mu sync.Mutex

	store   store.Store
	catalog *catalog.Catalog
	now     func() time.Time
	newID   func() string
	loc     *time.Location
	log     zerolog.Logger

	profile       *models.UserProfile
	expenses      []models.Expense
	subscriptions []models.Subscription
	pending       []models.PendingPurchase
	settings      models.AppSettings
	stats         models.UserStats
	goal          models.ViceGoal
	notifications []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides entity id generation.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithCatalog sets the reward catalog used by RedeemByID.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// New creates an engine holding default state. Call Load to read the store.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		catalog: catalog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
		loc:     time.Local,
		log:     logger.Component("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetToDefaults()
	return e
}

// Open creates an engine and loads persisted state.
func Open(ctx context.Context, s store.Store, opts ...Option) *Engine {
	e := New(s, opts...)
	e.Load(ctx)
	return e
}

// Now returns the engine clock's current time in its location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Location returns the time zone that defines a calendar day.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func defaultSettings() models.AppSettings {
	cfg := locale.Resolve(models.DefaultCountry)
	return models.AppSettings{
		WeeklyLimit:    DefaultWeeklyLimit,
		PhoneNumber:    "",
		MonthlyIncome:  DefaultMonthlyIncome,
		Country:        cfg.Code,
		CurrencySymbol: cfg.Symbol,
		Language:       DefaultLanguage,
	}
}

func defaultStats() models.UserStats {
	return models.UserStats{Points: 0, Level: 1, Badges: []string{}}
}

func defaultViceGoal() models.ViceGoal {
	d := locale.DefaultViceGoal(models.DefaultCountry)
	return models.ViceGoal{
		GoalName:       "New Goal",
		TargetAmount:   d.TargetAmount,
		CurrentSavings: decimal.Zero,
		ViceName:       "Morning Snack",
		VicePrice:      d.VicePrice,
	}
}

func (e *Engine) resetToDefaults() {
	e.profile = nil
	e.expenses = []models.Expense{}
	e.subscriptions = []models.Subscription{}
	e.pending = []models.PendingPurchase{}
	e.settings = defaultSettings()
	e.stats = defaultStats()
	e.goal = defaultViceGoal()
	e.notifications = []string{}
}

// Load replaces in-memory state with what the store holds. Missing keys
// keep their defaults. Records that fail to decode are logged and skipped.
// The stored profile is synced into settings before the stored settings
// record is applied.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetToDefaults()

	var profile models.UserProfile
	switch {
	case !e.read(ctx, store.KeyUser, &profile):
	case profile.Name == "":
		e.log.Warn().Str("key", store.KeyUser).Msg("Stored profile has no name, treating user as unregistered")
	default:
		e.profile = &profile
		cfg := locale.Resolve(profile.Country)
		e.settings.Country = profile.Country
		e.settings.CurrencySymbol = cfg.Symbol
		e.settings.MonthlyIncome = profile.MonthlyIncome
	}

	var subs []models.Subscription
	if e.read(ctx, store.KeySubs, &subs) && subs != nil {
		e.subscriptions = subs
	}

	var pending []models.PendingPurchase
	if e.read(ctx, store.KeyPending, &pending) && pending != nil {
		e.pending = pending
	}

	var settings models.AppSettings
	if e.read(ctx, store.KeySettings, &settings) {
		e.settings = settings
	}

	var stats models.UserStats
	if e.read(ctx, store.KeyStats, &stats) {
		stats.Points = max(stats.Points, 0)
		stats.Level = models.LevelFor(stats.Points)
		if stats.Badges == nil {
			stats.Badges = []string{}
		}
		e.stats = stats
	}

	var goal models.ViceGoal
	if e.read(ctx, store.KeyViceGoal, &goal) {
		e.goal = goal
	}

	var raw []models.Expense
	if e.read(ctx, store.KeyExpenses, &raw) {
		e.expenses = PruneExpenses(raw, e.Now())
		if pruned := len(raw) - len(e.expenses); pruned > 0 {
			metrics.ExpensesPruned.Add(float64(pruned))
			e.log.Info().Int("pruned", pruned).Int("kept", len(e.expenses)).Msg("Dropped expenses outside retention window")
			e.write(ctx, store.KeyExpenses, e.expenses)
		}
	}

	e.log.Debug().
		Bool("registered", e.profile != nil).
		Int("expenses", len(e.expenses)).
		Int("subscriptions", len(e.subscriptions)).
		Int("pending", len(e.pending)).
		Int64("points", e.stats.Points).
		Msg("Engine state loaded")
}

// read decodes key into v and reports whether a usable record was found.
func (e *Engine) read(ctx context.Context, key string, v any) bool {
	err := store.GetJSON(ctx, e.store, key, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrNotFound):
		return false
	default:
		metrics.PersistenceFailures.WithLabelValues(key, "get").Inc()
		e.log.Error().Err(err).Str("key", key).Msg("Failed to load record, using default")
		return false
	}
}

// write persists v under key. Failures are logged and counted only.
func (e *Engine) write(ctx context.Context, key string, v any) {
	if err := store.PutJSON(ctx, e.store, key, v); err != nil {
		metrics.PersistenceFailures.WithLabelValues(key, "put").Inc()
		e.log.Error().Err(err).Str("key", key).Msg("Failed to persist record")
	}
}

func (e *Engine) saveExpenses(ctx context.Context) { e.write(ctx, store.KeyExpenses, e.expenses) }
func (e *Engine) saveStats(ctx context.Context) { e.write(ctx, store.KeyStats, e.stats) }
func (e *Engine) saveGoal(ctx context.Context) { e.write(ctx, store.KeyViceGoal, e.goal) }
func (e *Engine) saveSettings(ctx context.Context) { e.write(ctx, store.KeySettings, e.settings) }
func (e *Engine) saveSubs(ctx context.Context) { e.write(ctx, store.KeySubs, e.subscriptions) }
func (e *Engine) savePending(ctx context.Context) { e.write(ctx, store.KeyPending, e.pending) }

func (e *Engine) saveProfile(ctx context.Context) {
	if e.profile != nil {
		e.write(ctx, store.KeyUser, e.profile)
	}
}
