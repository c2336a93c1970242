package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CalculationMode selects the late-fee formula. Only the constants below are
// valid; anything else is rejected when parsed or validated.
type CalculationMode string

const (
	ModeDaily    CalculationMode = "daily"
	ModeMonthly  CalculationMode = "monthly"
	ModeCompound CalculationMode = "compound"
)

// ParseCalculationMode converts s into a CalculationMode.
func ParseCalculationMode(s string) (CalculationMode, error) {
	switch m := CalculationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDaily, ModeMonthly, ModeCompound:
		return m, nil
	}
	return "", fmt.Errorf("unknown late fee calculation mode %q", s)
}

// UnmarshalText rejects unknown modes at decode time. An empty value is kept
// for disabled policies and left to Validate.
func (m *CalculationMode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = ""
		return nil
	}
	parsed, err := ParseCalculationMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FeePolicy describes how late fees accrue for one loan. It is a value object:
// callers copy it, never mutate it in place.
type FeePolicy struct {
	Enabled         bool            `json:"enabled" yaml:"enabled"`
	RatePerPeriod   decimal.Decimal `json:"rate_per_period" yaml:"rate_per_period"`
	GracePeriodDays int             `json:"grace_period_days" yaml:"grace_period_days"`
	MaxLateFee      decimal.Decimal `json:"max_late_fee" yaml:"max_late_fee"`
	CalculationMode CalculationMode `json:"calculation_mode,omitempty" yaml:"calculation_mode,omitempty"`
}

// Validate checks the policy fields. A disabled policy may leave the mode
// empty, but numeric fields are checked either way.
func (p FeePolicy) Validate() error {
	if p.RatePerPeriod.IsNegative() {
		return fmt.Errorf("rate_per_period must not be negative, got %s", p.RatePerPeriod)
	}
	if p.GracePeriodDays < 0 {
		return fmt.Errorf("grace_period_days must not be negative, got %d", p.GracePeriodDays)
	}
	if p.MaxLateFee.IsNegative() {
		return fmt.Errorf("max_late_fee must not be negative, got %s", p.MaxLateFee)
	}
	if !p.Enabled && p.CalculationMode == "" {
		return nil
	}
	if _, err := ParseCalculationMode(string(p.CalculationMode)); err != nil {
		return err
	}
	return nil
}

// IsCapped reports whether MaxLateFee limits the fee.
func (p FeePolicy) IsCapped() bool {
	return p.MaxLateFee.IsPositive()
}

// Value stores the policy as a JSONB column.
func (p FeePolicy) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan reads the policy from a JSONB column.
func (p *FeePolicy) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*p = FeePolicy{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into FeePolicy", src)
	}
	return json.Unmarshal(data, p)
}
