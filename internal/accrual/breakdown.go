package accrual

import (
	"github.com/F-O-T/montte-core/internal/models"

	"github.com/shopspring/decimal"
)

// LineKind identifies the kind of a breakdown line. The engine emits
// structured lines; rendering them as display text (and in which language)
// is the renderer's concern.
type LineKind string

const (
	LineOriginal          LineKind = "original"
	LinePenaltyPercentage LineKind = "penalty-percentage"
	LinePenaltyFixed      LineKind = "penalty-fixed"
	LineInterestDaily     LineKind = "interest-daily"
	LineInterestMonthly   LineKind = "interest-monthly"
	LineCorrection        LineKind = "correction"
)

// BreakdownLine is one structured line item of an accrual breakdown.
// Which parameter fields are meaningful depends on Kind:
//
//	penalty-percentage: Rate
//	interest-daily:     Rate, Days
//	interest-monthly:   Rate, Months
//	correction:         Index, Days
type BreakdownLine struct {
	Kind   LineKind         `json:"kind"`
	Rate   decimal.Decimal  `json:"rate,omitempty"`
	Days   int              `json:"days,omitempty"`
	Months decimal.Decimal  `json:"months,omitempty"`
	Index  models.RateIndex `json:"index,omitempty"`
	Amount decimal.Decimal  `json:"amount"`
}

// Breakdown is the display-ready ordered decomposition of an accrual result
type Breakdown struct {
	Lines []BreakdownLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// BuildBreakdown builds the ordered line-item decomposition of an accrual
// result. The original amount line is always present; penalty, interest and
// correction lines are included only when their amount is positive. Total is
// the updated payable amount.
func BuildBreakdown(result *InterestResult, config *InterestConfig, originalAmount decimal.Decimal) *Breakdown {
	lines := []BreakdownLine{
		{Kind: LineOriginal, Amount: originalAmount},
	}

	if result.PenaltyAmount.IsPositive() {
		kind := LinePenaltyPercentage
		rate := config.PenaltyValue
		if config.PenaltyType == PenaltyFixed {
			kind = LinePenaltyFixed
			rate = decimal.Zero
		}
		lines = append(lines, BreakdownLine{
			Kind:   kind,
			Rate:   rate,
			Amount: result.PenaltyAmount,
		})
	}

	if result.InterestAmount.IsPositive() {
		line := BreakdownLine{
			Rate:   config.InterestValue,
			Amount: result.InterestAmount,
		}
		if config.InterestType == InterestMonthly {
			line.Kind = LineInterestMonthly
			line.Months = decimal.NewFromInt(int64(result.EffectiveDaysOverdue)).Div(daysInMonth)
		} else {
			line.Kind = LineInterestDaily
			line.Days = result.EffectiveDaysOverdue
		}
		lines = append(lines, line)
	}

	if result.CorrectionAmount.IsPositive() {
		lines = append(lines, BreakdownLine{
			Kind:   LineCorrection,
			Index:  config.CorrectionIndex,
			Days:   result.DaysOverdue,
			Amount: result.CorrectionAmount,
		})
	}

	return &Breakdown{
		Lines: lines,
		Total: result.UpdatedAmount,
	}
}
