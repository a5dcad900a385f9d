package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/spendwise/internal/metrics"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		apiKey  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty API key returns error",
			apiKey:  "",
			wantErr: true,
			errMsg:  "API key is required",
		},
		{
			name:    "whitespace-only API key is treated as valid input",
			apiKey:  "   ",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(context.Background(), tt.apiKey)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, client)
				require.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, client)
			require.NotNil(t, client.generator)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	require.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	require.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
}

func TestMatchCategory(t *testing.T) {
	t.Parallel()

	cats := []string{"Food", "Transport"}
	require.Equal(t, "Food", matchCategory(" food ", cats))
	require.Equal(t, "Transport", matchCategory("TRANSPORT", cats))
	require.Empty(t, matchCategory("Rent", cats))
	require.Empty(t, matchCategory("", cats))
}

// Not parallel: reads shared counters.
func TestObserve(t *testing.T) {
	cases := []struct {
		err     error
		outcome string
	}{
		{nil, "ok"},
		{ErrParseTimeout, "timeout"},
		{ErrVoiceParseTimeout, "timeout"},
		{ErrNoData, "empty"},
		{ErrNoVoiceData, "empty"},
		{errors.New("other"), "error"},
	}

	for _, tc := range cases {
		c := metrics.RecognizerRequests.WithLabelValues("observe_test", tc.outcome)
		before := testutil.ToFloat64(c)
		observe("observe_test", tc.err)
		require.InDelta(t, before+1, testutil.ToFloat64(c), 0.001, "outcome %s", tc.outcome)
	}
}
