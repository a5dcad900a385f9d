// Package locale provides static per-country configuration: currency,
// calling code, translations and the defaults seeded at registration.
package locale

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// countries is keyed by ISO country code.
var countries = map[string]models.CountryConfig{
	"IN": {
		Name:        "India",
		Code:        "IN",
		Flag:        "🇮🇳",
		Currency:    "INR",
		Symbol:      "₹",
		CallingCode: "+91",
		Locale:      "en-IN",
		Translations: map[string]string{
			"home":            "Home",
			"ledger":          "Ledger",
			"plan":            "Plan",
			"ocr":             "Scan",
			"lab":             "Lab",
			"prefs":           "Prefs",
			"rewards":         "FHP",
			"safeToSpend":     "Safe-to-Spend",
			"monthlyIncome":   "Monthly Income",
			"weeklyActivity":  "Weekly Activity",
			"logExpense":      "Log Expense",
			"confirmPurchase": "Confirm Purchase",
			"dreamGoal":       "Dream Goal",
			"skipped":         "I skipped my",
			"voiceLog":        "Voice Log",
		},
	},
	"US": {
		Name:        "United States",
		Code:        "US",
		Flag:        "🇺🇸",
		Currency:    "USD",
		Symbol:      "$",
		CallingCode: "+1",
		Locale:      "en-US",
		Translations: map[string]string{
			"home":            "Home",
			"ledger":          "History",
			"plan":            "Planner",
			"ocr":             "Scan",
			"lab":             "Studio",
			"prefs":           "Settings",
			"rewards":         "Rewards",
			"safeToSpend":     "Safe-to-Spend",
			"monthlyIncome":   "Monthly Income",
			"weeklyActivity":  "Weekly Spending",
			"logExpense":      "Add Expense",
			"confirmPurchase": "Confirm Purchase",
			"dreamGoal":       "Dream Goal",
			"skipped":         "I skipped my",
			"voiceLog":        "Voice Log",
		},
	},
	"JP": {
		Name:        "Japan",
		Code:        "JP",
		Flag:        "🇯🇵",
		Currency:    "JPY",
		Symbol:      "¥",
		CallingCode: "+81",
		Locale:      "ja-JP",
		Translations: map[string]string{
			"home":            "ホーム",
			"ledger":          "履歴",
			"plan":            "計画",
			"ocr":             "スキャン",
			"lab":             "ラボ",
			"prefs":           "設定",
			"rewards":         "リワード",
			"safeToSpend":     "利用可能残高",
			"monthlyIncome":   "月収",
			"weeklyActivity":  "週間の活動",
			"logExpense":      "支出を記録",
			"confirmPurchase": "購入を確定",
			"dreamGoal":       "夢の目標",
			"skipped":         "を我慢しました",
			"voiceLog":        "音声入力",
		},
	},
	"FR": {
		Name:        "France",
		Code:        "FR",
		Flag:        "🇫🇷",
		Currency:    "EUR",
		Symbol:      "€",
		CallingCode: "+33",
		Locale:      "fr-FR",
		Translations: map[string]string{
			"home":            "Accueil",
			"ledger":          "Historique",
			"plan":            "Planning",
			"ocr":             "Scanner",
			"lab":             "Atelier",
			"prefs":           "Réglages",
			"rewards":         "Prix",
			"safeToSpend":     "Solde disponible",
			"monthlyIncome":   "Revenu mensuel",
			"weeklyActivity":  "Activité hebdo",
			"logExpense":      "Nouvelle dépense",
			"confirmPurchase": "Confirmer l'achat",
			"dreamGoal":       "Objectif de rêve",
			"skipped":         "J'ai évité mon",
			"voiceLog":        "Dictée",
		},
	},
}

// Resolve returns the configuration for code, or the default country's
// configuration if code is unknown. Lookup is case-insensitive.
func Resolve(code string) models.CountryConfig {
	if cfg, ok := countries[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return cfg
	}
	return countries[models.DefaultCountry]
}

// Supported reports whether code names a configured country.
func Supported(code string) bool {
	_, ok := countries[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Codes returns the supported country codes in display order.
func Codes() []string {
	return []string{"IN", "US", "JP", "FR"}
}

// Translate returns the translation for key, falling back to key itself.
func Translate(cfg models.CountryConfig, key string) string {
	if s, ok := cfg.Translations[key]; ok && s != "" {
		return s
	}
	return key
}

// ViceDefaults holds the vice goal amounts seeded at registration.
type ViceDefaults struct {
	TargetAmount decimal.Decimal
	VicePrice    decimal.Decimal
}

// viceDefaults covers currencies whose typical prices differ by an order of
// magnitude. Countries not listed use standardViceDefaults.
var viceDefaults = map[string]ViceDefaults{
	"JP": {TargetAmount: decimal.NewFromInt(50000), VicePrice: decimal.NewFromInt(500)},
}

var standardViceDefaults = ViceDefaults{
	TargetAmount: decimal.NewFromInt(5000),
	VicePrice:    decimal.NewFromInt(100),
}

// DefaultViceGoal returns the vice goal amounts for a country code.
func DefaultViceGoal(code string) ViceDefaults {
	if d, ok := viceDefaults[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return d
	}
	return standardViceDefaults
}

var (
	indianMobileRegex  = regexp.MustCompile(`^[6-9]\d{9}$`)
	genericMobileRegex = regexp.MustCompile(`^\d{4,15}$`)
)

// ValidateMobile reports whether mobile is a plausible national number for
// the given country. Spaces and dashes are ignored.
func ValidateMobile(code, mobile string) bool {
	mobile = strings.NewReplacer(" ", "", "-", "").Replace(mobile)
	if strings.ToUpper(strings.TrimSpace(code)) == "IN" || !Supported(code) {
		return indianMobileRegex.MatchString(mobile)
	}
	return genericMobileRegex.MatchString(mobile)
}
