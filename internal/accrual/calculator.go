package accrual

import (
	"time"

	apperrors "github.com/F-O-T/montte-core/pkg/errors"

	"github.com/F-O-T/montte-core/internal/models"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysInMonth = decimal.NewFromInt(30)
	daysInYear  = decimal.NewFromInt(365)
)

// InterestResult holds the outcome of an overdue accrual computation.
// All monetary fields are rounded to 2 decimal places, half away from zero.
type InterestResult struct {
	// DaysOverdue is the raw number of days past the due date
	DaysOverdue int `json:"days_overdue"`

	// EffectiveDaysOverdue is DaysOverdue minus the grace period, floored at 0
	EffectiveDaysOverdue int `json:"effective_days_overdue"`

	PenaltyAmount    decimal.Decimal `json:"penalty_amount"`
	InterestAmount   decimal.Decimal `json:"interest_amount"`
	CorrectionAmount decimal.Decimal `json:"correction_amount"`

	// TotalInterest is the sum of penalty, interest and correction
	TotalInterest decimal.Decimal `json:"total_interest"`

	// UpdatedAmount is the original amount plus TotalInterest
	UpdatedAmount decimal.Decimal `json:"updated_amount"`
}

// zeroResult returns an all-zero result for a bill that is not yet overdue
func zeroResult(originalAmount decimal.Decimal) *InterestResult {
	return &InterestResult{
		PenaltyAmount:    decimal.Zero,
		InterestAmount:   decimal.Zero,
		CorrectionAmount: decimal.Zero,
		TotalInterest:    decimal.Zero,
		UpdatedAmount:    originalAmount.Round(2),
	}
}

// resolveReferenceDate substitutes the current time for a zero reference date
func resolveReferenceDate(referenceDate time.Time) time.Time {
	if referenceDate.IsZero() {
		return time.Now()
	}
	return referenceDate
}

// CalculateDaysOverdue returns the number of whole days the reference date is
// past the due date, never negative. Both dates are normalized to midnight
// before comparison, so time-of-day never affects the count. A zero
// referenceDate means "now".
func CalculateDaysOverdue(dueDate, referenceDate time.Time) int {
	due := models.NormalizeDate(dueDate)
	ref := models.NormalizeDate(resolveReferenceDate(referenceDate))

	days := int(ref.Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether the bill is past due at the reference date
func IsOverdue(dueDate, referenceDate time.Time) bool {
	return CalculateDaysOverdue(dueDate, referenceDate) > 0
}

// IsWithinGracePeriod reports whether the bill is overdue but still inside
// the grace period window.
func IsWithinGracePeriod(dueDate time.Time, gracePeriodDays int, referenceDate time.Time) bool {
	days := CalculateDaysOverdue(dueDate, referenceDate)
	return days > 0 && days <= gracePeriodDays
}

// CalculatePenalty computes the one-off late penalty. PenaltyNone, unknown
// types and a zero value all contribute nothing.
func CalculatePenalty(originalAmount decimal.Decimal, penaltyType PenaltyType, penaltyValue decimal.Decimal) decimal.Decimal {
	if penaltyValue.IsZero() {
		return decimal.Zero
	}

	switch penaltyType {
	case PenaltyFixed:
		return penaltyValue
	case PenaltyPercentage:
		return originalAmount.Mul(penaltyValue).Div(hundred)
	case PenaltyNone:
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// CalculateMoraInterest computes simple mora interest over the effective
// overdue days. Monthly interest treats a month as exactly 30 days and
// pro-rates by day.
func CalculateMoraInterest(originalAmount decimal.Decimal, effectiveDaysOverdue int, interestType InterestType, interestValue decimal.Decimal) decimal.Decimal {
	if interestValue.IsZero() || effectiveDaysOverdue <= 0 {
		return decimal.Zero
	}

	days := decimal.NewFromInt(int64(effectiveDaysOverdue))

	switch interestType {
	case InterestDaily:
		return originalAmount.Mul(interestValue).Div(hundred).Mul(days)
	case InterestMonthly:
		return originalAmount.Mul(interestValue).Div(hundred).Mul(days).Div(daysInMonth)
	case InterestNone:
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// CalculateMonetaryCorrection computes simple daily accrual of the selected
// annual index rate over the raw overdue days. The annual percentage rate is
// converted to a daily rate by dividing by 365.
//
// Correction deliberately uses the raw days overdue, not the grace-adjusted
// figure: correction accrues from the due date regardless of grace period.
func CalculateMonetaryCorrection(originalAmount decimal.Decimal, daysOverdue int, index models.RateIndex, rates models.RateSnapshot) decimal.Decimal {
	if index == models.RateIndexNone || daysOverdue <= 0 {
		return decimal.Zero
	}

	annualRate := rates.Rate(index)
	if annualRate.IsZero() {
		return decimal.Zero
	}

	dailyRate := annualRate.Div(daysInYear)
	days := decimal.NewFromInt(int64(daysOverdue))

	return originalAmount.Mul(dailyRate).Div(hundred).Mul(days)
}

// CalculateInterest computes the full overdue accrual for a bill:
//
//  1. If the bill is not yet overdue, every accrual field is zero and the
//     updated amount equals the original.
//  2. Penalty applies only once the grace period is exhausted; the grace
//     period suppresses it entirely, it does not reduce it.
//  3. Mora interest accrues over the grace-adjusted effective days.
//  4. Monetary correction accrues over the raw days overdue.
//
// Each monetary output field is rounded to 2 decimals at the end of its own
// computation, never at intermediate steps. A zero dueDate is rejected; a
// zero referenceDate means "now".
func CalculateInterest(originalAmount decimal.Decimal, dueDate time.Time, config *InterestConfig, rates models.RateSnapshot, referenceDate time.Time) (*InterestResult, error) {
	if dueDate.IsZero() {
		return nil, apperrors.ValidationError(apperrors.CodeInvalidDate, "dueDate", dueDate)
	}

	if config == nil {
		config = ZeroInterestConfig()
	}

	daysOverdue := CalculateDaysOverdue(dueDate, referenceDate)
	if daysOverdue <= 0 {
		return zeroResult(originalAmount), nil
	}

	effectiveDays := daysOverdue - config.GracePeriodDays
	if effectiveDays < 0 {
		effectiveDays = 0
	}

	penalty := decimal.Zero
	if effectiveDays > 0 {
		penalty = CalculatePenalty(originalAmount, config.PenaltyType, config.PenaltyValue).Round(2)
	}

	interest := CalculateMoraInterest(originalAmount, effectiveDays, config.InterestType, config.InterestValue).Round(2)
	correction := CalculateMonetaryCorrection(originalAmount, daysOverdue, config.CorrectionIndex, rates).Round(2)

	total := penalty.Add(interest).Add(correction)

	return &InterestResult{
		DaysOverdue:          daysOverdue,
		EffectiveDaysOverdue: effectiveDays,
		PenaltyAmount:        penalty,
		InterestAmount:       interest,
		CorrectionAmount:     correction,
		TotalInterest:        total,
		UpdatedAmount:        originalAmount.Add(total).Round(2),
	}, nil
}
