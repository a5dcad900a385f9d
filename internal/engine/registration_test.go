package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/spendwise/internal/models"
	"gitlab.com/yelinaung/spendwise/internal/store"
)

func validProfile() models.UserProfile {
	return models.UserProfile{
		Name:          "Priya",
		Mobile:        "9876543210",
		MonthlyIncome: dec("45000"),
		Country:       "IN",
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("syncs settings and seeds vice goal", func(t *testing.T) {
		t.Parallel()
		e, mem, _ := newTestEngine(t)

		require.NoError(t, e.Register(ctx, validProfile()))

		s := e.Settings()
		require.Equal(t, "9876543210", s.PhoneNumber)
		requireDecimal(t, "45000", s.MonthlyIncome)
		require.Equal(t, "IN", s.Country)
		require.Equal(t, "₹", s.CurrencySymbol)

		goal := e.ViceGoal()
		requireDecimal(t, "5000", goal.TargetAmount)
		requireDecimal(t, "100", goal.VicePrice)
		require.Equal(t, "New Goal", goal.GoalName)

		var stored models.UserProfile
		require.NoError(t, store.GetJSON(ctx, mem, store.KeyUser, &stored))
		require.Equal(t, "Priya", stored.Name)
	})

	t.Run("japan uses larger vice defaults", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)

		p := validProfile()
		p.Country = "jp"
		p.Mobile = "090-1234-5678"
		require.NoError(t, e.Register(ctx, p))

		goal := e.ViceGoal()
		requireDecimal(t, "50000", goal.TargetAmount)
		requireDecimal(t, "500", goal.VicePrice)
		require.Equal(t, "¥", e.Settings().CurrencySymbol)
		require.Equal(t, "履歴", e.T("ledger"))
	})

	t.Run("unknown country is stored as default", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)

		p := validProfile()
		p.Country = "XX"
		require.NoError(t, e.Register(ctx, p))

		profile, ok := e.Profile()
		require.True(t, ok)
		require.Equal(t, "IN", profile.Country)
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			mutate  func(*models.UserProfile)
			wantErr error
		}{
			{"empty name", func(p *models.UserProfile) { p.Name = "  " }, ErrInvalidProfile},
			{"negative income", func(p *models.UserProfile) { p.MonthlyIncome = dec("-1") }, ErrInvalidProfile},
			{"indian mobile must start 6-9", func(p *models.UserProfile) { p.Mobile = "1234567890" }, ErrInvalidMobile},
			{"mobile too short", func(p *models.UserProfile) { p.Mobile = "98765" }, ErrInvalidMobile},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				e, _, _ := newTestEngine(t)
				p := validProfile()
				tt.mutate(&p)

				require.ErrorIs(t, e.Register(ctx, p), tt.wantErr)
				require.False(t, e.Registered())
			})
		}
	})

	t.Run("second registration is rejected", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)
		require.NoError(t, e.Register(ctx, validProfile()))

		other := validProfile()
		other.Name = "Someone Else"
		require.ErrorIs(t, e.Register(ctx, other), ErrAlreadyRegistered)

		profile, _ := e.Profile()
		require.Equal(t, "Priya", profile.Name)
	})
}

func TestSettingsMutators(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("income requires registration", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)
		require.ErrorIs(t, e.UpdateMonthlyIncome(ctx, dec("1")), ErrNotRegistered)
	})

	t.Run("income updates profile and settings", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)
		require.NoError(t, e.Register(ctx, validProfile()))

		require.NoError(t, e.UpdateMonthlyIncome(ctx, dec("52000")))
		requireDecimal(t, "52000", e.Settings().MonthlyIncome)
		profile, _ := e.Profile()
		requireDecimal(t, "52000", profile.MonthlyIncome)

		require.ErrorIs(t, e.UpdateMonthlyIncome(ctx, dec("-5")), ErrInvalidProfile)
	})

	t.Run("weekly limit", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)

		require.NoError(t, e.SetWeeklyLimit(ctx, dec("2500")))
		requireDecimal(t, "2500", e.Settings().WeeklyLimit)
		require.Error(t, e.SetWeeklyLimit(ctx, dec("-1")))
		requireDecimal(t, "2500", e.Settings().WeeklyLimit)
	})
}

func TestReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e, mem, _ := newTestEngine(t)
	require.NoError(t, e.Register(ctx, validProfile()))
	e.Append(ctx, models.ExpenseCandidate{Amount: decPtr("10")})
	e.Skip(ctx)

	e.Reset(ctx)

	require.False(t, e.Registered())
	require.Empty(t, e.Expenses())
	require.Empty(t, e.Notifications())
	require.Equal(t, int64(0), e.Stats().Points)
	require.Equal(t, 0, mem.Len())

	// Registration is possible again after a reset.
	require.NoError(t, e.Register(ctx, validProfile()))
}

func TestNotifications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e, mem, _ := newTestEngine(t)
	e.Skip(ctx)
	e.AddPoints(ctx, 200)
	e.Redeem(ctx, models.Reward{Name: "Gold Icon", Cost: 100, Icon: "✨"})

	require.Equal(t, []string{"Unlocked Gold Icon! 🎉", MsgSkipPoints}, e.Notifications())

	e.ClearNotifications()
	require.Empty(t, e.Notifications())

	// The log is not persisted.
	reloaded := Open(ctx, mem)
	require.Empty(t, reloaded.Notifications())
}

func TestLocale(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t)
	require.Equal(t, "IN", e.Locale().Code)
	require.Equal(t, "Ledger", e.T("ledger"))
	require.Equal(t, "unknownKey", e.T("unknownKey"))
}
