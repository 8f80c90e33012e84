package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDaysStored(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		days  int64
	}{
		{"ten days", "2024-01-01", "2024-01-11", 10},
		{"same day", "2024-03-15", "2024-03-15", 0},
		{"one day", "2024-03-15", "2024-03-16", 1},
		{"across month boundary", "2024-01-31", "2024-02-02", 2},
		{"across leap day", "2024-02-28", "2024-03-01", 2},
		{"reversed", "2024-01-11", "2024-01-01", -10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.days, DaysStored(date(tc.start), date(tc.end)))
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		rate     string
		quantity int64
		expected string
	}{
		{"ten days at 50 for 3", "2024-01-01", "2024-01-11", "50", 3, "1500"},
		{"same day is free", "2024-01-01", "2024-01-01", "50", 3, "0"},
		{"zero quantity", "2024-01-01", "2024-01-11", "50", 0, "0"},
		{"zero rate", "2024-01-01", "2024-01-11", "0", 3, "0"},
		{"fractional rate keeps precision", "2024-01-01", "2024-01-04", "1.25", 2, "7.5"},
		{"small fractional rate", "2024-01-01", "2024-01-11", "0.01", 7, "0.7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rate := decimal.RequireFromString(tc.rate)
			amount, err := Compute(date(tc.start), date(tc.end), rate, tc.quantity)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(amount),
				"expected %s, got %s", tc.expected, amount)
		})
	}
}

func TestComputeInvalidRange(t *testing.T) {
	amount, err := Compute(date("2024-01-11"), date("2024-01-01"), decimal.NewFromInt(50), 3)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.True(t, amount.IsZero())
}

func TestComputeIgnoresTimeOfDay(t *testing.T) {
	// Only the calendar date matters, not the clock.
	start := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)

	amount, err := Compute(start, end, decimal.NewFromInt(10), 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(amount))
}
