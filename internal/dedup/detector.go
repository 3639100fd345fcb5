package dedup

import (
	"fmt"

	"github.com/F-O-T/montte-core/internal/models"
)

// Detector runs duplicate scoring for batches of imported rows against
// existing transactions.
type Detector struct {
	Config *ScorerConfig
}

// CandidateResult pairs an imported row with its best-scoring existing
// transaction and the verdict.
type CandidateResult struct {
	Candidate *models.DetectionTransaction
	BestMatch *models.DetectionTransaction
	Result    *ScoreResult

	// IsDuplicate mirrors Result.Passed for the best match
	IsDuplicate bool
}

// DetectionSummary provides aggregate statistics about a detection run
type DetectionSummary struct {
	TotalCandidates int
	Duplicates      int
	Unique          int
}

// DetectionResult represents the complete result of a detection run
type DetectionResult struct {
	Candidates []*CandidateResult
	Summary    DetectionSummary
}

// NewDetector creates a new detector with the specified configuration.
// A nil config falls back to the default scorer configuration.
func NewDetector(config *ScorerConfig) *Detector {
	if config == nil {
		config = DefaultScorerConfig()
	}

	return &Detector{Config: config.Clone()}
}

// Detect scores every candidate against every existing transaction and keeps
// the best-scoring pairing. A candidate with no existing transactions to
// compare against is reported as unique.
func (d *Detector) Detect(candidates, existing []*models.DetectionTransaction) (*DetectionResult, error) {
	if err := d.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scorer configuration: %w", err)
	}

	results := make([]*CandidateResult, 0, len(candidates))
	summary := DetectionSummary{TotalCandidates: len(candidates)}

	for _, candidate := range candidates {
		best := d.findBestMatch(candidate, existing)
		results = append(results, best)

		if best.IsDuplicate {
			summary.Duplicates++
		} else {
			summary.Unique++
		}
	}

	return &DetectionResult{
		Candidates: results,
		Summary:    summary,
	}, nil
}

// findBestMatch scores the candidate against all existing transactions and
// returns the highest-scoring pairing.
func (d *Detector) findBestMatch(candidate *models.DetectionTransaction, existing []*models.DetectionTransaction) *CandidateResult {
	best := &CandidateResult{
		Candidate: candidate,
		Result:    &ScoreResult{},
	}

	for _, target := range existing {
		result := CalculateDuplicateScore(candidate, target, d.Config)
		if result.Score > best.Result.Score {
			best.BestMatch = target
			best.Result = result
		}
	}

	best.IsDuplicate = best.Result.Passed
	return best
}
