// Package models defines the domain entities for the finance tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCountry is used when a country code is unknown.
const DefaultCountry = "IN"

// DefaultCategory is assigned to expenses that arrive without a category.
const DefaultCategory = "Other"

// ApprovedPurchaseCategory is the category given to approved pending purchases.
const ApprovedPurchaseCategory = "Shopping"

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = 50

// Categories lists the expense categories offered to the user and recognizers.
var Categories = []string{
	"Food",
	"Transport",
	"Utilities",
	"Shopping",
	"Entertainment",
	"Health",
	"Subscription",
	"Other",
}

// UserProfile represents the single registered user of an installation.
type UserProfile struct {
	Name          string          `json:"name"`
	Mobile        string          `json:"mobile"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Country       string          `json:"country"`
}

// Expense represents a single ledger entry.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// ExpenseCandidate is a partially filled expense produced by a recognizer or
// a form. Nil or empty fields are defaulted when the candidate is appended.
type ExpenseCandidate struct {
	Amount      *decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// Subscription represents a recurring charge the user tracks.
type Subscription struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	LastUsedDate time.Time       `json:"lastUsedDate"`
	Category     string          `json:"category"`
	IsEssential  bool            `json:"isEssential"`
}

// CoolingOffPeriod is how long a pending purchase should wait before approval.
const CoolingOffPeriod = 24 * time.Hour

// PendingPurchase is a proposed purchase awaiting approval.
type PendingPurchase struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
	Description string          `json:"description"`
}

// CoolingOffRemaining returns how long until the purchase has cooled off.
// Zero means it is ready for a decision.
func (p *PendingPurchase) CoolingOffRemaining(now time.Time) time.Duration {
	remaining := p.CreatedAt.Add(CoolingOffPeriod).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ViceGoal is the savings goal funded by skipping a recurring vice purchase.
type ViceGoal struct {
	GoalName       string          `json:"goalName"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	CurrentSavings decimal.Decimal `json:"currentSavings"`
	ViceName       string          `json:"viceName"`
	VicePrice      decimal.Decimal `json:"vicePrice"`
}

// Achieved reports whether savings have reached the target.
func (g *ViceGoal) Achieved() bool {
	return g.CurrentSavings.GreaterThanOrEqual(g.TargetAmount)
}

// Progress returns savings as a fraction of the target, capped at 1.
func (g *ViceGoal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 1
	}
	p := g.CurrentSavings.Div(g.TargetAmount).InexactFloat64()
	return min(max(p, 0), 1)
}

// PointsPerLevel is the number of points needed to gain one level.
const PointsPerLevel = 100

// UserStats holds the reward economy state.
type UserStats struct {
	Points      int64      `json:"points"`
	Level       int64      `json:"level"`
	Badges      []string   `json:"badges"`
	LastBonusAt *time.Time `json:"lastBonusAt,omitempty"`
}

// LevelFor returns the level reached with the given number of points.
func LevelFor(points int64) int64 {
	return points/PointsPerLevel + 1
}

// RewardCategory classifies catalog rewards.
type RewardCategory string

// Reward categories.
const (
	RewardBadge RewardCategory = "badge"
	RewardPerk  RewardCategory = "perk"
	RewardTheme RewardCategory = "theme"
)

// Valid reports whether c is a known reward category.
func (c RewardCategory) Valid() bool {
	switch c {
	case RewardBadge, RewardPerk, RewardTheme:
		return true
	}
	return false
}

// Reward is a catalog item that can be bought with points.
type Reward struct {
	ID          string         `json:"id" toml:"id"`
	Name        string         `json:"name" toml:"name"`
	Description string         `json:"description" toml:"description"`
	Cost        int64          `json:"cost" toml:"cost"`
	Icon        string         `json:"icon" toml:"icon"`
	Category    RewardCategory `json:"category" toml:"category"`
}

// AppSettings holds user-adjustable preferences.
type AppSettings struct {
	WeeklyLimit    decimal.Decimal `json:"weeklyLimit"`
	PhoneNumber    string          `json:"phoneNumber"`
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	Country        string          `json:"country"`
	CurrencySymbol string          `json:"currencySymbol"`
	Language       string          `json:"language"`
}

// CountryConfig describes locale data for a supported country.
type CountryConfig struct {
	Name         string            `json:"name"`
	Code         string            `json:"code"`
	Flag         string            `json:"flag"`
	Currency     string            `json:"currency"`
	Symbol       string            `json:"symbol"`
	CallingCode  string            `json:"callingCode"`
	Locale       string            `json:"locale"`
	Translations map[string]string `json:"translations"`
}
