package accrual

import (
	"fmt"
	"time"

	"github.com/F-O-T/montte-core/internal/models"

	"github.com/shopspring/decimal"
)

// Engine applies one interest policy and one rate snapshot to a set of bills
type Engine struct {
	Config *InterestConfig
	Rates  models.RateSnapshot
}

// BillResult pairs a bill with its accrual outcome
type BillResult struct {
	Bill      *models.Bill
	Result    *InterestResult
	Breakdown *Breakdown
}

// RunSummary provides aggregate statistics about an accrual run
type RunSummary struct {
	TotalBills        int
	OverdueBills      int
	WithinGracePeriod int
	TotalOriginal     decimal.Decimal
	TotalAccrued      decimal.Decimal
	TotalUpdated      decimal.Decimal
}

// RunResult represents the complete result of an accrual run
type RunResult struct {
	Bills   []*BillResult
	Summary RunSummary
}

// NewEngine creates a new accrual engine with the specified policy and rates.
// A nil config falls back to the statutory default policy.
func NewEngine(config *InterestConfig, rates models.RateSnapshot) *Engine {
	if config == nil {
		config = DefaultInterestConfig()
	}

	return &Engine{
		Config: config.Clone(),
		Rates:  rates,
	}
}

// Run computes accrual for every bill against the reference date.
// Bills failing validation abort the run; the engine never produces partial
// output for malformed input.
func (e *Engine) Run(bills []*models.Bill, referenceDate time.Time) (*RunResult, error) {
	if err := e.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid accrual policy: %w", err)
	}

	summary := RunSummary{
		TotalBills:    len(bills),
		TotalOriginal: decimal.Zero,
		TotalAccrued:  decimal.Zero,
		TotalUpdated:  decimal.Zero,
	}

	results := make([]*BillResult, 0, len(bills))

	for _, bill := range bills {
		if err := bill.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bill %s: %w", bill.ID, err)
		}

		result, err := CalculateInterest(bill.Amount, bill.DueDate, e.Config, e.Rates, referenceDate)
		if err != nil {
			return nil, fmt.Errorf("accrual failed for bill %s: %w", bill.ID, err)
		}

		if result.DaysOverdue > 0 {
			summary.OverdueBills++
		}
		if IsWithinGracePeriod(bill.DueDate, e.Config.GracePeriodDays, referenceDate) {
			summary.WithinGracePeriod++
		}

		summary.TotalOriginal = summary.TotalOriginal.Add(bill.Amount)
		summary.TotalAccrued = summary.TotalAccrued.Add(result.TotalInterest)
		summary.TotalUpdated = summary.TotalUpdated.Add(result.UpdatedAmount)

		results = append(results, &BillResult{
			Bill:      bill,
			Result:    result,
			Breakdown: BuildBreakdown(result, e.Config, bill.Amount),
		})
	}

	return &RunResult{
		Bills:   results,
		Summary: summary,
	}, nil
}
