package dedup

import (
	"fmt"
	"time"

	"github.com/F-O-T/montte-core/internal/models"
)

// ScoreResult represents the outcome of scoring a candidate transaction
// against a target transaction.
type ScoreResult struct {
	// Score is the weighted sum of the three signals
	Score float64 `json:"score"`

	// ScorePercentage is Score divided by the configured maximum
	ScorePercentage float64 `json:"score_percentage"`

	// Passed reports whether the score clears the duplicate threshold
	Passed bool `json:"passed"`

	// Reasons lists human-readable explanations of the score
	Reasons []string `json:"reasons,omitempty"`
}

// DatesWithinTolerance reports whether two dates are at most toleranceDays
// apart. Pure calendar-time distance, not business-day aware.
func DatesWithinTolerance(date1, date2 time.Time, toleranceDays int) bool {
	return models.CompareDatesWithTolerance(date1, date2, toleranceDays)
}

// CalculateDuplicateScore scores a candidate transaction against a target:
//
//   - exact amount equality awards the full amount weight
//   - dates within tolerance award the full date weight
//   - description token similarity at or above the floor awards the
//     description weight scaled by the similarity; below the floor it
//     awards nothing (the discontinuity at the floor is deliberate)
//
// A nil config falls back to the default scorer configuration.
func CalculateDuplicateScore(candidate, target *models.DetectionTransaction, config *ScorerConfig) *ScoreResult {
	if config == nil {
		config = DefaultScorerConfig()
	}

	result := &ScoreResult{}

	if candidate.Amount.Equal(target.Amount) {
		result.Score += config.AmountWeight
		result.Reasons = append(result.Reasons, "Exact amount match")
	}

	if DatesWithinTolerance(candidate.Date, target.Date, config.DateToleranceDays) {
		result.Score += config.DateWeight
		result.Reasons = append(result.Reasons, "Date within tolerance")
	}

	candidateTokens := ExtractDescriptionTokens(candidate.Description)
	targetTokens := ExtractDescriptionTokens(target.Description)
	similarity := CalculateTokenSimilarity(candidateTokens, targetTokens)

	if similarity >= config.MinTokenSimilarity {
		result.Score += config.DescriptionWeight * similarity
		result.Reasons = append(result.Reasons, fmt.Sprintf("Description similarity %.2f", similarity))
	}

	result.ScorePercentage = result.Score / config.MaxScore
	result.Passed = result.ScorePercentage >= config.ThresholdPercentage

	return result
}
