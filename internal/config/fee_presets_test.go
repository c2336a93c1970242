package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/segyhp/lending-engine/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetsYAML = `
presets:
  standard:
    enabled: true
    rate_per_period: "2"
    grace_period_days: 3
    max_late_fee: "0"
    calculation_mode: daily
  pawn:
    enabled: true
    rate_per_period: "10"
    grace_period_days: 0
    max_late_fee: "5000"
    calculation_mode: monthly
  none:
    enabled: false
`

func TestParseFeePresets(t *testing.T) {
	presets, err := ParseFeePresets([]byte(presetsYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"none", "pawn", "standard"}, presets.Names())

	standard, ok := presets.Lookup("standard")
	require.True(t, ok)
	assert.True(t, standard.Enabled)
	assert.True(t, standard.RatePerPeriod.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 3, standard.GracePeriodDays)
	assert.Equal(t, domain.ModeDaily, standard.CalculationMode)

	pawn, ok := presets.Lookup("pawn")
	require.True(t, ok)
	assert.True(t, pawn.IsCapped())
	assert.Equal(t, domain.ModeMonthly, pawn.CalculationMode)

	none, ok := presets.Lookup("none")
	require.True(t, ok)
	assert.False(t, none.Enabled)

	_, ok = presets.Lookup("missing")
	assert.False(t, ok)
}

func TestParseFeePresets_RejectsUnknownMode(t *testing.T) {
	_, err := ParseFeePresets([]byte(`
presets:
  odd:
    enabled: true
    rate_per_period: "1"
    calculation_mode: hourly
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly")
}

func TestParseFeePresets_RejectsNegativeGrace(t *testing.T) {
	_, err := ParseFeePresets([]byte(`
presets:
  odd:
    enabled: true
    rate_per_period: "1"
    grace_period_days: -1
    calculation_mode: daily
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"odd"`)
}

func TestLoadFeePresets(t *testing.T) {
	empty, err := LoadFeePresets("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	path := filepath.Join(t.TempDir(), "fee_presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetsYAML), 0o600))

	presets, err := LoadFeePresets(path)
	require.NoError(t, err)
	assert.Len(t, presets, 3)

	_, err = LoadFeePresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
