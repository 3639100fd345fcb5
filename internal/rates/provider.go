// Package rates fetches rate-index snapshots for the accrual engine.
//
// The engine itself never fetches anything: callers obtain a
// models.RateSnapshot through a Provider and pass it in. Decorators add
// caching and the documented fallback policy.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/F-O-T/montte-core/internal/models"
	apperrors "github.com/F-O-T/montte-core/pkg/errors"
	"github.com/F-O-T/montte-core/pkg/logger"

	"github.com/shopspring/decimal"
)

// Provider supplies rate-index snapshots
type Provider interface {
	Fetch(ctx context.Context) (models.RateSnapshot, error)
}

// Banco Central SGS time-series codes for the supported indices
const (
	seriesSelic = 432   // Selic target rate, % p.a.
	seriesCDI   = 4389  // CDI rate, % p.a.
	seriesIPCA  = 13522 // IPCA accumulated over 12 months, %
)

const defaultBaseURL = "https://api.bcb.gov.br/dados/serie"

// HTTPProvider fetches rates from the Banco Central do Brasil open-data API
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	log     logger.Logger
}

// NewHTTPProvider creates a provider against the Banco Central API.
// A nil client falls back to a client with a 10 second timeout.
func NewHTTPProvider(client *http.Client, log logger.Logger) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &HTTPProvider{
		client:  client,
		baseURL: defaultBaseURL,
		log:     log.WithComponent("rates"),
	}
}

// WithBaseURL overrides the API base URL. Useful in tests.
func (p *HTTPProvider) WithBaseURL(baseURL string) *HTTPProvider {
	p.baseURL = baseURL
	return p
}

// sgsObservation is one entry of an SGS series response
type sgsObservation struct {
	Date  string `json:"data"`
	Value string `json:"valor"`
}

// Fetch retrieves the latest published value of each index series
func (p *HTTPProvider) Fetch(ctx context.Context) (models.RateSnapshot, error) {
	selic, err := p.fetchSeries(ctx, seriesSelic)
	if err != nil {
		return models.RateSnapshot{}, apperrors.RatesError(apperrors.CodeRatesUnavailable, "selic", err)
	}

	cdi, err := p.fetchSeries(ctx, seriesCDI)
	if err != nil {
		return models.RateSnapshot{}, apperrors.RatesError(apperrors.CodeRatesUnavailable, "cdi", err)
	}

	ipca, err := p.fetchSeries(ctx, seriesIPCA)
	if err != nil {
		return models.RateSnapshot{}, apperrors.RatesError(apperrors.CodeRatesUnavailable, "ipca", err)
	}

	snapshot := models.RateSnapshot{
		Selic:     selic,
		CDI:       cdi,
		IPCA:      ipca,
		FetchedAt: time.Now(),
	}

	p.log.WithFields(logger.Fields{
		"selic": snapshot.Selic.String(),
		"cdi":   snapshot.CDI.String(),
		"ipca":  snapshot.IPCA.String(),
	}).Debug("fetched rate snapshot")

	return snapshot, nil
}

// fetchSeries retrieves the most recent observation of one SGS series
func (p *HTTPProvider) fetchSeries(ctx context.Context, code int) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/bcdata.sgs.%d/dados/ultimos/1?formato=json", p.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request for series %d: %w", code, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching series %d: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("series %d returned status %d", code, resp.StatusCode)
	}

	var observations []sgsObservation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return decimal.Zero, fmt.Errorf("decoding series %d response: %w", code, err)
	}

	if len(observations) == 0 {
		return decimal.Zero, fmt.Errorf("series %d returned no observations", code)
	}

	value, err := decimal.NewFromString(observations[0].Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("series %d returned invalid value '%s': %w", code, observations[0].Value, err)
	}

	return value, nil
}

// StaticProvider always returns a fixed snapshot. Useful for tests and for
// running with caller-supplied rates.
type StaticProvider struct {
	Snapshot models.RateSnapshot
}

// Fetch returns the fixed snapshot
func (p *StaticProvider) Fetch(ctx context.Context) (models.RateSnapshot, error) {
	return p.Snapshot, nil
}
