package accrual

import (
	"testing"
	"time"

	"github.com/F-O-T/montte-core/internal/models"

	"github.com/shopspring/decimal"
)

var testRates = models.RateSnapshot{
	Selic: decimal.NewFromFloat(13.25),
	IPCA:  decimal.NewFromFloat(4.5),
	CDI:   decimal.NewFromFloat(13.15),
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDaysOverdue(t *testing.T) {
	tests := []struct {
		name      string
		dueDate   time.Time
		reference time.Time
		expected  int
	}{
		{
			name:      "five days overdue",
			dueDate:   date(2026, 8, 1),
			reference: date(2026, 8, 6),
			expected:  5,
		},
		{
			name:      "due today",
			dueDate:   date(2026, 8, 1),
			reference: date(2026, 8, 1),
			expected:  0,
		},
		{
			name:      "not yet due",
			dueDate:   date(2026, 8, 10),
			reference: date(2026, 8, 1),
			expected:  0,
		},
		{
			name:      "time of day is stripped",
			dueDate:   time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC),
			reference: time.Date(2026, 8, 2, 0, 1, 0, 0, time.UTC),
			expected:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDaysOverdue(tt.dueDate, tt.reference)
			if got != tt.expected {
				t.Errorf("Expected %d days overdue, got %d", tt.expected, got)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	if !IsOverdue(date(2026, 8, 1), date(2026, 8, 2)) {
		t.Error("Expected bill one day past due to be overdue")
	}

	if IsOverdue(date(2026, 8, 1), date(2026, 8, 1)) {
		t.Error("Expected bill due today not to be overdue")
	}
}

func TestIsWithinGracePeriod(t *testing.T) {
	due := date(2026, 8, 1)

	if !IsWithinGracePeriod(due, 10, date(2026, 8, 6)) {
		t.Error("Expected 5 days overdue with 10-day grace to be within grace period")
	}

	if IsWithinGracePeriod(due, 10, date(2026, 8, 1)) {
		t.Error("Expected bill due today not to be within grace period")
	}

	if IsWithinGracePeriod(due, 3, date(2026, 8, 6)) {
		t.Error("Expected 5 days overdue with 3-day grace to be past grace period")
	}
}

func TestCalculatePenalty(t *testing.T) {
	amount := decimal.NewFromInt(1000)

	tests := []struct {
		name        string
		penaltyType PenaltyType
		value       decimal.Decimal
		expected    string
	}{
		{"percentage", PenaltyPercentage, decimal.NewFromInt(2), "20"},
		{"fixed is flat", PenaltyFixed, decimal.NewFromInt(50), "50"},
		{"none", PenaltyNone, decimal.NewFromInt(2), "0"},
		{"zero value means absent", PenaltyPercentage, decimal.Zero, "0"},
		{"unknown type degrades to zero", PenaltyType("weekly"), decimal.NewFromInt(2), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePenalty(amount, tt.penaltyType, tt.value)
			if got.String() != tt.expected {
				t.Errorf("Expected penalty %s, got %s", tt.expected, got.String())
			}
		})
	}
}

func TestCalculateMoraInterest(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	rate := decimal.NewFromInt(1)

	t.Run("daily simple interest", func(t *testing.T) {
		// 1000 * 1% * 5 days
		got := CalculateMoraInterest(amount, 5, InterestDaily, rate)
		if got.String() != "50" {
			t.Errorf("Expected 50, got %s", got.String())
		}
	})

	t.Run("monthly pro-rated by 30-day month", func(t *testing.T) {
		// 1000 * 1% * 15/30
		got := CalculateMoraInterest(amount, 15, InterestMonthly, rate)
		if got.String() != "5" {
			t.Errorf("Expected 5, got %s", got.String())
		}
	})

	t.Run("full month equals one daily unit", func(t *testing.T) {
		// 30 days of monthly accrual is exactly one month, which matches
		// a single day of daily accrual at the same rate
		monthly := CalculateMoraInterest(amount, 30, InterestMonthly, rate)
		daily := CalculateMoraInterest(amount, 1, InterestDaily, rate)
		if !monthly.Equal(daily) {
			t.Errorf("Expected monthly(30) %s to equal daily(1) %s", monthly.String(), daily.String())
		}
	})

	t.Run("monthly is daily divided by thirty", func(t *testing.T) {
		monthly := CalculateMoraInterest(amount, 30, InterestMonthly, rate)
		daily := CalculateMoraInterest(amount, 30, InterestDaily, rate)
		if !monthly.Mul(decimal.NewFromInt(30)).Equal(daily) {
			t.Errorf("Expected daily(30) %s to be 30x monthly(30) %s", daily.String(), monthly.String())
		}
	})

	t.Run("guards", func(t *testing.T) {
		if got := CalculateMoraInterest(amount, 0, InterestDaily, rate); !got.IsZero() {
			t.Errorf("Expected zero interest for zero days, got %s", got.String())
		}
		if got := CalculateMoraInterest(amount, 5, InterestNone, rate); !got.IsZero() {
			t.Errorf("Expected zero interest for none type, got %s", got.String())
		}
		if got := CalculateMoraInterest(amount, 5, InterestDaily, decimal.Zero); !got.IsZero() {
			t.Errorf("Expected zero interest for zero rate, got %s", got.String())
		}
		if got := CalculateMoraInterest(amount, 5, InterestType("hourly"), rate); !got.IsZero() {
			t.Errorf("Expected zero interest for unknown type, got %s", got.String())
		}
	})
}

func TestCalculateMonetaryCorrection(t *testing.T) {
	amount := decimal.NewFromInt(1000)

	t.Run("simple daily accrual of annual rate", func(t *testing.T) {
		// 1000 * (13.25/365)/100 * 10
		got := CalculateMonetaryCorrection(amount, 10, models.RateIndexSelic, testRates)
		if got.Round(2).String() != "3.63" {
			t.Errorf("Expected 3.63, got %s", got.Round(2).String())
		}
	})

	t.Run("guards", func(t *testing.T) {
		if got := CalculateMonetaryCorrection(amount, 10, models.RateIndexNone, testRates); !got.IsZero() {
			t.Errorf("Expected zero correction for none index, got %s", got.String())
		}
		if got := CalculateMonetaryCorrection(amount, 0, models.RateIndexSelic, testRates); !got.IsZero() {
			t.Errorf("Expected zero correction for zero days, got %s", got.String())
		}
		if got := CalculateMonetaryCorrection(amount, 10, models.RateIndexSelic, models.RateSnapshot{}); !got.IsZero() {
			t.Errorf("Expected zero correction for zero rate, got %s", got.String())
		}
	})
}

func TestCalculateInterestNotYetDue(t *testing.T) {
	amount := decimal.NewFromFloat(250.40)
	config := DefaultInterestConfig()

	result, err := CalculateInterest(amount, date(2026, 9, 1), config, testRates, date(2026, 8, 31))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.DaysOverdue != 0 || result.EffectiveDaysOverdue != 0 {
		t.Errorf("Expected zero overdue days, got %d/%d", result.DaysOverdue, result.EffectiveDaysOverdue)
	}

	if !result.TotalInterest.IsZero() {
		t.Errorf("Expected zero total interest, got %s", result.TotalInterest.String())
	}

	if !result.UpdatedAmount.Equal(amount.Round(2)) {
		t.Errorf("Expected updated amount %s, got %s", amount.String(), result.UpdatedAmount.String())
	}
}

func TestCalculateInterestGracePeriod(t *testing.T) {
	// 5 days overdue with a 10-day grace period: penalty and interest are
	// fully suppressed, but correction accrues over the raw overdue days.
	amount := decimal.NewFromInt(1000)
	config := &InterestConfig{
		PenaltyType:     PenaltyPercentage,
		PenaltyValue:    decimal.NewFromInt(2),
		InterestType:    InterestMonthly,
		InterestValue:   decimal.NewFromInt(1),
		CorrectionIndex: models.RateIndexIPCA,
		GracePeriodDays: 10,
	}

	result, err := CalculateInterest(amount, date(2026, 8, 1), config, testRates, date(2026, 8, 6))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.DaysOverdue != 5 {
		t.Errorf("Expected 5 days overdue, got %d", result.DaysOverdue)
	}

	if result.EffectiveDaysOverdue != 0 {
		t.Errorf("Expected 0 effective days, got %d", result.EffectiveDaysOverdue)
	}

	if !result.PenaltyAmount.IsZero() {
		t.Errorf("Expected grace period to suppress penalty, got %s", result.PenaltyAmount.String())
	}

	if !result.InterestAmount.IsZero() {
		t.Errorf("Expected grace period to suppress interest, got %s", result.InterestAmount.String())
	}

	if !result.CorrectionAmount.IsPositive() {
		t.Errorf("Expected correction to accrue despite grace period, got %s", result.CorrectionAmount.String())
	}
}

func TestCalculateInterestFixedPenaltyIsFlat(t *testing.T) {
	config := &InterestConfig{
		PenaltyType:     PenaltyFixed,
		PenaltyValue:    decimal.NewFromInt(50),
		InterestType:    InterestNone,
		CorrectionIndex: models.RateIndexNone,
	}

	for _, amount := range []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(100000)} {
		result, err := CalculateInterest(amount, date(2026, 8, 1), config, testRates, date(2026, 8, 20))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if result.PenaltyAmount.String() != "50" {
			t.Errorf("Expected flat penalty 50 for amount %s, got %s", amount.String(), result.PenaltyAmount.String())
		}
	}
}

func TestCalculateInterestRounding(t *testing.T) {
	// 12.345% of 100 rounds half away from zero to 12.35
	config := &InterestConfig{
		PenaltyType:     PenaltyPercentage,
		PenaltyValue:    decimal.NewFromFloat(12.345),
		InterestType:    InterestNone,
		CorrectionIndex: models.RateIndexNone,
	}

	result, err := CalculateInterest(decimal.NewFromInt(100), date(2026, 8, 1), config, testRates, date(2026, 8, 2))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.PenaltyAmount.String() != "12.35" {
		t.Errorf("Expected 12.35, got %s", result.PenaltyAmount.String())
	}

	if result.UpdatedAmount.String() != "112.35" {
		t.Errorf("Expected 112.35, got %s", result.UpdatedAmount.String())
	}
}

func TestCalculateInterestTotals(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	config := &InterestConfig{
		PenaltyType:     PenaltyPercentage,
		PenaltyValue:    decimal.NewFromInt(2),
		InterestType:    InterestDaily,
		InterestValue:   decimal.NewFromFloat(0.1),
		CorrectionIndex: models.RateIndexSelic,
	}

	result, err := CalculateInterest(amount, date(2026, 8, 1), config, testRates, date(2026, 8, 11))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// penalty 20.00, interest 1000*0.1%*10 = 10.00, correction 3.63
	expectedTotal := decimal.NewFromFloat(33.63)
	if !result.TotalInterest.Equal(expectedTotal) {
		t.Errorf("Expected total interest %s, got %s", expectedTotal.String(), result.TotalInterest.String())
	}

	if !result.UpdatedAmount.Equal(amount.Add(expectedTotal)) {
		t.Errorf("Expected updated amount %s, got %s", amount.Add(expectedTotal).String(), result.UpdatedAmount.String())
	}

	sum := result.PenaltyAmount.Add(result.InterestAmount).Add(result.CorrectionAmount)
	if !result.TotalInterest.Equal(sum) {
		t.Errorf("Expected total %s to equal field sum %s", result.TotalInterest.String(), sum.String())
	}
}

func TestCalculateInterestZeroDueDate(t *testing.T) {
	_, err := CalculateInterest(decimal.NewFromInt(100), time.Time{}, DefaultInterestConfig(), testRates, date(2026, 8, 1))
	if err == nil {
		t.Fatal("Expected error for zero due date")
	}
}

func TestCalculateInterestNilConfig(t *testing.T) {
	result, err := CalculateInterest(decimal.NewFromInt(100), date(2026, 8, 1), nil, testRates, date(2026, 8, 11))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !result.TotalInterest.IsZero() {
		t.Errorf("Expected nil config to accrue nothing, got %s", result.TotalInterest.String())
	}

	if result.DaysOverdue != 10 {
		t.Errorf("Expected 10 days overdue, got %d", result.DaysOverdue)
	}
}

func TestCalculateInterestDeterminism(t *testing.T) {
	amount := decimal.NewFromFloat(987.65)
	config := DefaultInterestConfig()
	config.CorrectionIndex = models.RateIndexCDI

	first, err := CalculateInterest(amount, date(2026, 7, 1), config, testRates, date(2026, 8, 15))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, err := CalculateInterest(amount, date(2026, 7, 1), config, testRates, date(2026, 8, 15))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !first.UpdatedAmount.Equal(second.UpdatedAmount) || !first.TotalInterest.Equal(second.TotalInterest) {
		t.Error("Expected identical inputs to produce identical results")
	}
}
