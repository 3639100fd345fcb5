// Package dedup scores candidate transactions against existing ones to flag
// likely duplicates during bank-statement import.
//
// The score is a weighted sum of three signals: exact amount equality, date
// proximity, and description token similarity. It is a heuristic, not a
// guarantee: the contract is reproducibility (same inputs, same score), not
// semantic correctness.
package dedup

import "fmt"

// ScorerConfig holds the weights and thresholds for duplicate scoring.
// The defaults are the normative contract; Validate guards custom configs.
type ScorerConfig struct {
	// AmountWeight is awarded in full for an exact amount match
	AmountWeight float64 `json:"amount_weight"`

	// DateWeight is awarded in full when dates fall within the tolerance
	DateWeight float64 `json:"date_weight"`

	// DescriptionWeight is scaled by token similarity above the floor
	DescriptionWeight float64 `json:"description_weight"`

	// MaxScore is the denominator for the score percentage
	MaxScore float64 `json:"max_score"`

	// ThresholdPercentage is the pass mark for the duplicate verdict
	ThresholdPercentage float64 `json:"threshold_percentage"`

	// DateToleranceDays defines how many days apart two dates may be
	DateToleranceDays int `json:"date_tolerance_days"`

	// MinTokenSimilarity is the floor below which description similarity
	// contributes nothing. The jump at the floor is intentional.
	MinTokenSimilarity float64 `json:"min_token_similarity"`
}

// DefaultScorerConfig returns the standard duplicate-detection configuration
func DefaultScorerConfig() *ScorerConfig {
	return &ScorerConfig{
		AmountWeight:        3,
		DateWeight:          2,
		DescriptionWeight:   1,
		MaxScore:            6,
		ThresholdPercentage: 0.8,
		DateToleranceDays:   1,
		MinTokenSimilarity:  0.5,
	}
}

// Validate checks if the scorer configuration is valid
func (sc *ScorerConfig) Validate() error {
	if sc.AmountWeight < 0 {
		return fmt.Errorf("amount weight cannot be negative: %f", sc.AmountWeight)
	}

	if sc.DateWeight < 0 {
		return fmt.Errorf("date weight cannot be negative: %f", sc.DateWeight)
	}

	if sc.DescriptionWeight < 0 {
		return fmt.Errorf("description weight cannot be negative: %f", sc.DescriptionWeight)
	}

	if sc.MaxScore <= 0 {
		return fmt.Errorf("max score must be positive: %f", sc.MaxScore)
	}

	total := sc.AmountWeight + sc.DateWeight + sc.DescriptionWeight
	if total > sc.MaxScore {
		return fmt.Errorf("weights sum %f exceeds max score %f", total, sc.MaxScore)
	}

	if sc.ThresholdPercentage < 0 || sc.ThresholdPercentage > 1 {
		return fmt.Errorf("threshold percentage must be between 0.0 and 1.0: %f", sc.ThresholdPercentage)
	}

	if sc.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance days cannot be negative: %d", sc.DateToleranceDays)
	}

	if sc.MinTokenSimilarity < 0 || sc.MinTokenSimilarity > 1 {
		return fmt.Errorf("minimum token similarity must be between 0.0 and 1.0: %f", sc.MinTokenSimilarity)
	}

	return nil
}

// Clone creates a deep copy of the scorer configuration
func (sc *ScorerConfig) Clone() *ScorerConfig {
	if sc == nil {
		return nil
	}

	clone := *sc
	return &clone
}

// String returns a human-readable description of the configuration
func (sc *ScorerConfig) String() string {
	return fmt.Sprintf("ScorerConfig{Weights: %.0f/%.0f/%.0f, MaxScore: %.0f, Threshold: %.2f, DateTolerance: %d days}",
		sc.AmountWeight, sc.DateWeight, sc.DescriptionWeight, sc.MaxScore, sc.ThresholdPercentage, sc.DateToleranceDays)
}
