package engine

import (
	"testing"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	customError "github.com/segyhp/lending-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func dailyPolicy() domain.FeePolicy {
	return domain.FeePolicy{
		Enabled:         true,
		RatePerPeriod:   decimal.NewFromInt(2),
		GracePeriodDays: 0,
		MaxLateFee:      decimal.Zero,
		CalculationMode: domain.ModeDaily,
	}
}

func withMode(p domain.FeePolicy, mode domain.CalculationMode) domain.FeePolicy {
	p.CalculationMode = mode
	return p
}

func daysAgo(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func TestAccrue(t *testing.T) {
	graced := dailyPolicy()
	graced.GracePeriodDays = 3

	capped := dailyPolicy()
	capped.MaxLateFee = decimal.NewFromInt(1000)

	compound := withMode(dailyPolicy(), domain.ModeCompound)
	compound.RatePerPeriod = decimal.NewFromInt(1)

	halfCent := dailyPolicy()
	halfCent.RatePerPeriod = decimal.NewFromInt(10)

	tests := []struct {
		name         string
		policy       domain.FeePolicy
		base         decimal.Decimal
		dueDate      time.Time
		expectedDays int
		expectedFee  string
	}{
		{
			name:         "daily installment ten days late",
			policy:       dailyPolicy(),
			base:         decimal.NewFromInt(7500),
			dueDate:      daysAgo(10),
			expectedDays: 10,
			expectedFee:  "1500.00", // 7500 * 0.02 * 10
		},
		{
			name:         "grace period shortens the count",
			policy:       graced,
			base:         decimal.NewFromInt(7500),
			dueDate:      daysAgo(10),
			expectedDays: 7,
			expectedFee:  "1050.00",
		},
		{
			name:         "inside grace period",
			policy:       graced,
			base:         decimal.NewFromInt(7500),
			dueDate:      daysAgo(3),
			expectedDays: 0,
			expectedFee:  "0",
		},
		{
			name:         "monthly rounds partial months up",
			policy:       withMode(dailyPolicy(), domain.ModeMonthly),
			base:         decimal.NewFromInt(7500),
			dueDate:      daysAgo(31),
			expectedDays: 31,
			expectedFee:  "300.00", // 7500 * 0.02 * 2
		},
		{
			name:         "monthly exactly thirty days",
			policy:       withMode(dailyPolicy(), domain.ModeMonthly),
			base:         decimal.NewFromInt(7500),
			dueDate:      daysAgo(30),
			expectedDays: 30,
			expectedFee:  "150.00",
		},
		{
			name:         "compound",
			policy:       compound,
			base:         decimal.NewFromInt(1000),
			dueDate:      daysAgo(3),
			expectedDays: 3,
			expectedFee:  "30.30", // 1000 * (1.01^3 - 1) = 30.301
		},
		{
			name:         "cap applied",
			policy:       capped,
			base:         decimal.NewFromInt(7500),
			dueDate:      daysAgo(10),
			expectedDays: 10,
			expectedFee:  "1000",
		},
		{
			name:         "rounds half up once at the end",
			policy:       halfCent,
			base:         decimal.RequireFromString("0.25"),
			dueDate:      daysAgo(1),
			expectedDays: 1,
			expectedFee:  "0.03", // 0.025
		},
		{
			name:         "due date in the future",
			policy:       dailyPolicy(),
			base:         decimal.NewFromInt(7500),
			dueDate:      asOf.AddDate(0, 0, 5),
			expectedDays: 0,
			expectedFee:  "0",
		},
		{
			name:         "less than a full day late",
			policy:       dailyPolicy(),
			base:         decimal.NewFromInt(7500),
			dueDate:      asOf.Add(-20 * time.Hour),
			expectedDays: 0,
			expectedFee:  "0",
		},
		{
			name:         "zero principal base",
			policy:       withMode(dailyPolicy(), domain.ModeCompound),
			base:         decimal.Zero,
			dueDate:      daysAgo(10),
			expectedDays: 10,
			expectedFee:  "0",
		},
		{
			name:         "negative principal base",
			policy:       withMode(dailyPolicy(), domain.ModeCompound),
			base:         decimal.NewFromInt(-100),
			dueDate:      daysAgo(10),
			expectedDays: 10,
			expectedFee:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Accrue(tt.policy, tt.base, tt.dueDate, asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDays, result.DaysOverdue)
			assert.True(t, result.FeeAmount.Equal(decimal.RequireFromString(tt.expectedFee)),
				"Expected %s, but got %s", tt.expectedFee, result.FeeAmount)
		})
	}
}

func TestDaysOverdue_CalendarDays(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	west := time.FixedZone("UTC-5", -5*60*60)

	tests := []struct {
		name     string
		dueDate  time.Time
		asOf     time.Time
		grace    int
		expected int
	}{
		{
			name:     "due before spring forward",
			dueDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, newYork),
			asOf:     time.Date(2026, 3, 11, 0, 0, 0, 0, newYork),
			expected: 10,
		},
		{
			name:     "due before fall back",
			dueDate:  time.Date(2026, 10, 25, 0, 0, 0, 0, newYork),
			asOf:     time.Date(2026, 11, 4, 0, 0, 0, 0, newYork),
			expected: 10,
		},
		{
			name:     "due west of UTC, as of a UTC date",
			dueDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, west).AddDate(0, 1, 0),
			asOf:     time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
			expected: 10,
		},
		{
			name:     "as of late in the day still counts the date",
			dueDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			asOf:     time.Date(2026, 2, 11, 23, 59, 0, 0, west),
			grace:    3,
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysOverdue(tt.dueDate, tt.asOf, tt.grace))
		})
	}
}

func TestAccrue_DailyAcrossDST(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, newYork)
	result, err := Accrue(dailyPolicy(), decimal.NewFromInt(7500), due, time.Date(2026, 3, 11, 0, 0, 0, 0, newYork))
	require.NoError(t, err)

	assert.Equal(t, 10, result.DaysOverdue)
	assert.True(t, result.FeeAmount.Equal(decimal.NewFromInt(1500)), "got %s", result.FeeAmount)
}

func TestAccrue_InvalidPolicy(t *testing.T) {
	negativeRate := dailyPolicy()
	negativeRate.RatePerPeriod = decimal.NewFromInt(-1)

	negativeGrace := dailyPolicy()
	negativeGrace.GracePeriodDays = -2

	negativeCap := dailyPolicy()
	negativeCap.MaxLateFee = decimal.NewFromInt(-5)

	unknownMode := withMode(dailyPolicy(), "weekly")
	missingMode := withMode(dailyPolicy(), "")

	for name, policy := range map[string]domain.FeePolicy{
		"negative rate":  negativeRate,
		"negative grace": negativeGrace,
		"negative cap":   negativeCap,
		"unknown mode":   unknownMode,
		"missing mode":   missingMode,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Accrue(policy, decimal.NewFromInt(7500), daysAgo(10), asOf)
			require.Error(t, err)
			assert.ErrorIs(t, err, customError.ErrInvalidFeePolicy)
		})
	}
}

func TestAccrue_DisabledPolicyIsAlwaysZero(t *testing.T) {
	policies := []domain.FeePolicy{
		{Enabled: false, RatePerPeriod: decimal.NewFromInt(50), CalculationMode: domain.ModeCompound},
		{Enabled: false, RatePerPeriod: decimal.NewFromInt(-3), GracePeriodDays: -1, CalculationMode: "bogus"},
		{},
	}
	bases := []decimal.Decimal{decimal.NewFromInt(7500), decimal.Zero, decimal.NewFromInt(-1)}

	for _, policy := range policies {
		for _, base := range bases {
			for _, days := range []int{-5, 0, 1, 365} {
				result, err := Accrue(policy, base, daysAgo(days), asOf)
				require.NoError(t, err)
				assert.True(t, result.FeeAmount.IsZero())
				assert.Equal(t, 0, result.DaysOverdue)
			}
		}
	}
}

func TestAccrue_DailyIsNonDecreasing(t *testing.T) {
	base := decimal.NewFromInt(7500)

	first, err := Accrue(dailyPolicy(), base, asOf, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, first.DaysOverdue)
	assert.True(t, first.FeeAmount.IsZero())

	previous := first.FeeAmount
	for days := 1; days <= 90; days++ {
		result, err := Accrue(dailyPolicy(), base, daysAgo(days), asOf)
		require.NoError(t, err)
		assert.True(t, result.FeeAmount.GreaterThanOrEqual(previous),
			"fee dropped at day %d: %s < %s", days, result.FeeAmount, previous)
		previous = result.FeeAmount
	}
}

func TestAccrue_CompoundOutgrowsDaily(t *testing.T) {
	base := decimal.NewFromInt(10000)

	for days := 2; days <= 60; days++ {
		daily, err := Accrue(dailyPolicy(), base, daysAgo(days), asOf)
		require.NoError(t, err)
		compound, err := Accrue(withMode(dailyPolicy(), domain.ModeCompound), base, daysAgo(days), asOf)
		require.NoError(t, err)

		assert.True(t, compound.FeeAmount.GreaterThan(daily.FeeAmount),
			"day %d: compound %s should exceed daily %s", days, compound.FeeAmount, daily.FeeAmount)
	}
}

func TestAccrue_NeverExceedsCap(t *testing.T) {
	limit := decimal.NewFromInt(250)

	for _, mode := range []domain.CalculationMode{domain.ModeDaily, domain.ModeMonthly, domain.ModeCompound} {
		policy := withMode(dailyPolicy(), mode)
		policy.MaxLateFee = limit

		for _, days := range []int{1, 5, 30, 45, 120, 400} {
			result, err := Accrue(policy, decimal.NewFromInt(7500), daysAgo(days), asOf)
			require.NoError(t, err)
			assert.True(t, result.FeeAmount.LessThanOrEqual(limit),
				"%s mode, %d days: %s exceeds cap", mode, days, result.FeeAmount)
		}
	}
}
