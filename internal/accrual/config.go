// Package accrual computes overdue penalty, mora interest and monetary
// correction on bills, given an interest policy and a snapshot of
// macroeconomic rate indices.
//
// All calculations are pure and deterministic: no I/O, no hidden clock. The
// reference date is always an explicit input, so the same inputs always
// produce the same outputs. Missing or unknown policy values degrade to a
// zero contribution instead of failing; only a zero due date is rejected.
//
// Example usage:
//
//	config := accrual.DefaultInterestConfig()
//	config.GracePeriodDays = 5
//
//	result, err := accrual.CalculateInterest(amount, dueDate, config, rates, today)
//	breakdown := accrual.BuildBreakdown(result, config, amount)
package accrual

import (
	"fmt"
	"strings"

	"github.com/F-O-T/montte-core/internal/models"

	"github.com/shopspring/decimal"
)

// PenaltyType defines how the one-off late penalty is computed
type PenaltyType string

const (
	// PenaltyNone disables the late penalty
	PenaltyNone PenaltyType = "none"
	// PenaltyPercentage charges a percentage of the original amount
	PenaltyPercentage PenaltyType = "percentage"
	// PenaltyFixed charges a flat fee regardless of the original amount
	PenaltyFixed PenaltyType = "fixed"
)

// String returns the string representation of PenaltyType
func (pt PenaltyType) String() string {
	return string(pt)
}

// IsValid checks if the penalty type is a known value
func (pt PenaltyType) IsValid() bool {
	switch pt {
	case PenaltyNone, PenaltyPercentage, PenaltyFixed:
		return true
	default:
		return false
	}
}

// ParsePenaltyType parses and validates a penalty type from string
func ParsePenaltyType(s string) (PenaltyType, error) {
	pt := PenaltyType(strings.ToLower(strings.TrimSpace(s)))
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid penalty type '%s': must be none, percentage or fixed", s)
	}
	return pt, nil
}

// InterestType defines how mora interest accrues over time
type InterestType string

const (
	// InterestNone disables mora interest
	InterestNone InterestType = "none"
	// InterestDaily accrues simple interest per overdue day
	InterestDaily InterestType = "daily"
	// InterestMonthly accrues simple interest per 30-day month, pro-rated by day
	InterestMonthly InterestType = "monthly"
)

// String returns the string representation of InterestType
func (it InterestType) String() string {
	return string(it)
}

// IsValid checks if the interest type is a known value
func (it InterestType) IsValid() bool {
	switch it {
	case InterestNone, InterestDaily, InterestMonthly:
		return true
	default:
		return false
	}
}

// ParseInterestType parses and validates an interest type from string
func ParseInterestType(s string) (InterestType, error) {
	it := InterestType(strings.ToLower(strings.TrimSpace(s)))
	if !it.IsValid() {
		return "", fmt.Errorf("invalid interest type '%s': must be none, daily or monthly", s)
	}
	return it, nil
}

// InterestConfig holds the overdue accrual policy for a bill or an
// organization default.
//
// A zero PenaltyValue or InterestValue means "absent" and contributes
// nothing, matching the engine's graceful-degradation contract. Overdue days
// within GracePeriodDays accrue no penalty or interest but still count
// toward the raw days-overdue figure, which monetary correction uses.
type InterestConfig struct {
	// PenaltyType selects the late penalty mode
	PenaltyType PenaltyType `json:"penalty_type"`

	// PenaltyValue is a percentage for PenaltyPercentage or a flat amount for PenaltyFixed
	PenaltyValue decimal.Decimal `json:"penalty_value"`

	// InterestType selects the mora interest mode
	InterestType InterestType `json:"interest_type"`

	// InterestValue is the percentage rate per day or per 30-day month
	InterestValue decimal.Decimal `json:"interest_value"`

	// CorrectionIndex selects the macroeconomic index for monetary correction
	CorrectionIndex models.RateIndex `json:"correction_index"`

	// GracePeriodDays suppresses penalty and interest for this many overdue days
	GracePeriodDays int `json:"grace_period_days"`
}

// DefaultInterestConfig returns the statutory Brazilian late-payment policy:
// 2% penalty plus 1% monthly mora interest, no monetary correction.
func DefaultInterestConfig() *InterestConfig {
	return &InterestConfig{
		PenaltyType:     PenaltyPercentage,
		PenaltyValue:    decimal.NewFromInt(2),
		InterestType:    InterestMonthly,
		InterestValue:   decimal.NewFromInt(1),
		CorrectionIndex: models.RateIndexNone,
		GracePeriodDays: 0,
	}
}

// ZeroInterestConfig returns a policy that accrues nothing
func ZeroInterestConfig() *InterestConfig {
	return &InterestConfig{
		PenaltyType:     PenaltyNone,
		InterestType:    InterestNone,
		CorrectionIndex: models.RateIndexNone,
		GracePeriodDays: 0,
	}
}

// Validate checks if the interest configuration is valid
func (ic *InterestConfig) Validate() error {
	if !ic.PenaltyType.IsValid() {
		return fmt.Errorf("invalid penalty type: %s", ic.PenaltyType)
	}

	if !ic.InterestType.IsValid() {
		return fmt.Errorf("invalid interest type: %s", ic.InterestType)
	}

	if !ic.CorrectionIndex.IsValid() {
		return fmt.Errorf("invalid correction index: %s", ic.CorrectionIndex)
	}

	if ic.PenaltyValue.IsNegative() {
		return fmt.Errorf("penalty value cannot be negative: %s", ic.PenaltyValue.String())
	}

	if ic.InterestValue.IsNegative() {
		return fmt.Errorf("interest value cannot be negative: %s", ic.InterestValue.String())
	}

	if ic.GracePeriodDays < 0 {
		return fmt.Errorf("grace period days cannot be negative: %d", ic.GracePeriodDays)
	}

	return nil
}

// Clone creates a deep copy of the interest configuration
func (ic *InterestConfig) Clone() *InterestConfig {
	if ic == nil {
		return nil
	}

	clone := *ic
	return &clone
}

// String returns a human-readable description of the configuration
func (ic *InterestConfig) String() string {
	return fmt.Sprintf("InterestConfig{Penalty: %s %s, Interest: %s %s, Correction: %s, Grace: %d days}",
		ic.PenaltyType, ic.PenaltyValue.String(), ic.InterestType, ic.InterestValue.String(),
		ic.CorrectionIndex, ic.GracePeriodDays)
}
