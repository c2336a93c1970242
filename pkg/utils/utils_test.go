package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePeriodicPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		periods   int
		expected  decimal.Decimal
	}{
		{
			name:      "flat interest loan",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromInt(5),
			periods:   20,
			expected:  decimal.NewFromInt(10000), // 100,000 / 20 + 5,000
		},
		{
			name:      "zero interest rate",
			principal: decimal.NewFromInt(5000000),
			rate:      decimal.Zero,
			periods:   50,
			expected:  decimal.NewFromInt(100000),
		},
		{
			name:      "rounds to cents",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(1),
			periods:   3,
			expected:  decimal.RequireFromString("343.33"), // 333.333... + 10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePeriodicPayment(tt.principal, tt.rate, tt.periods)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestSplitPrincipal(t *testing.T) {
	parts := SplitPrincipal(decimal.NewFromInt(1000), 3)
	require.Len(t, parts, 3)

	assert.True(t, parts[0].Equal(decimal.RequireFromString("333.33")))
	assert.True(t, parts[1].Equal(decimal.RequireFromString("333.33")))
	assert.True(t, parts[2].Equal(decimal.RequireFromString("333.34")))

	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1000)))
}

func TestCalculateDueDate(t *testing.T) {
	baseDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency string
		n         int
		expected  time.Time
	}{
		{"first day", "daily", 1, baseDate.AddDate(0, 0, 1)},
		{"second week", "weekly", 2, baseDate.AddDate(0, 0, 14)},
		{"first fortnight", "biweekly", 1, baseDate.AddDate(0, 0, 14)},
		{"third month", "monthly", 3, baseDate.AddDate(0, 3, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDueDate(baseDate, tt.frequency, tt.n))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(due, due))
	assert.Equal(t, 10, DaysBetween(due, due.AddDate(0, 0, 10)))
	assert.Equal(t, 0, DaysBetween(due, due.Add(23*time.Hour)))
	assert.Equal(t, -1, DaysBetween(due, due.Add(-time.Hour)))
	assert.Equal(t, -5, DaysBetween(due, due.AddDate(0, 0, -5)))
}

func TestDaysBetween_CalendarDays(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("across spring forward", func(t *testing.T) {
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, newYork)
		to := time.Date(2026, 3, 11, 0, 0, 0, 0, newYork)
		assert.Equal(t, 10, DaysBetween(from, to))
	})

	t.Run("across fall back", func(t *testing.T) {
		from := time.Date(2026, 10, 30, 0, 0, 0, 0, newYork)
		to := time.Date(2026, 11, 2, 0, 0, 0, 0, newYork)
		assert.Equal(t, 3, DaysBetween(from, to))
	})

	t.Run("mixed zones use each date as written", func(t *testing.T) {
		west := time.FixedZone("UTC-5", -5*60*60)
		due := time.Date(2026, 2, 1, 0, 0, 0, 0, west)
		asOf := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 10, DaysBetween(due, asOf))
	})
}

func TestCalendarDate(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2026, 2, 1, 22, 30, 0, 0, west)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), CalendarDate(late))
}
