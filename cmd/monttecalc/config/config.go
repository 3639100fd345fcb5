// Package config assembles engine configurations from command-line inputs.
package config

import (
	"fmt"
	"time"

	"github.com/F-O-T/montte-core/internal/accrual"
	"github.com/F-O-T/montte-core/internal/dedup"
	"github.com/F-O-T/montte-core/internal/models"
	"github.com/F-O-T/montte-core/internal/rates"
	"github.com/F-O-T/montte-core/pkg/logger"

	"github.com/shopspring/decimal"
)

// CreateInterestConfig builds an accrual policy from flag values
func CreateInterestConfig(penaltyType string, penaltyValue float64, interestType string, interestValue float64, correctionIndex string, graceDays int) (*accrual.InterestConfig, error) {
	pt, err := accrual.ParsePenaltyType(penaltyType)
	if err != nil {
		return nil, err
	}

	it, err := accrual.ParseInterestType(interestType)
	if err != nil {
		return nil, err
	}

	index, err := models.ParseRateIndex(correctionIndex)
	if err != nil {
		return nil, err
	}

	config := &accrual.InterestConfig{
		PenaltyType:     pt,
		PenaltyValue:    decimal.NewFromFloat(penaltyValue),
		InterestType:    it,
		InterestValue:   decimal.NewFromFloat(interestValue),
		CorrectionIndex: index,
		GracePeriodDays: graceDays,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid accrual policy: %w", err)
	}

	return config, nil
}

// CreateRateSnapshot builds a snapshot from flag values, substituting the
// documented fallback for any non-positive rate.
func CreateRateSnapshot(selic, ipca, cdi float64) models.RateSnapshot {
	snapshot := models.RateSnapshot{
		Selic: decimal.NewFromFloat(selic),
		IPCA:  decimal.NewFromFloat(ipca),
		CDI:   decimal.NewFromFloat(cdi),
	}
	return snapshot.Sanitize()
}

// CreateRatesProvider wires the rate-index collaborator: the Banco Central
// HTTP source, optionally cached in redis, always wrapped with the fallback
// policy so a failing source degrades to the default snapshot.
func CreateRatesProvider(redisAddr string, cacheTTL time.Duration, log logger.Logger) rates.Provider {
	var provider rates.Provider = rates.NewHTTPProvider(nil, log)

	if redisAddr != "" {
		provider = rates.NewCachedProvider(redisAddr, provider, cacheTTL, log)
	}

	return rates.WithFallback(provider, log)
}

// CreateScorerConfig builds a duplicate scorer configuration with the
// specified overrides applied to the defaults.
func CreateScorerConfig(dateTolerance int, threshold float64) (*dedup.ScorerConfig, error) {
	config := dedup.DefaultScorerConfig()
	config.DateToleranceDays = dateTolerance
	config.ThresholdPercentage = threshold

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scorer configuration: %w", err)
	}

	return config, nil
}
