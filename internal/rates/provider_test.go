package rates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/F-O-T/montte-core/internal/models"

	"github.com/shopspring/decimal"
)

// sgsHandler mimics the SGS open-data API for the three series the
// provider fetches.
func sgsHandler(t *testing.T, values map[string]string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		for series, value := range values {
			if strings.Contains(r.URL.Path, "bcdata.sgs."+series) {
				fmt.Fprintf(w, `[{"data":"29/08/2026","valor":"%s"}]`, value)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func TestHTTPProviderFetch(t *testing.T) {
	server := httptest.NewServer(sgsHandler(t, map[string]string{
		"432":   "13.25",
		"4389":  "13.15",
		"13522": "4.50",
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.Client(), nil).WithBaseURL(server.URL)

	snapshot, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if snapshot.Selic.String() != "13.25" {
		t.Errorf("Expected selic 13.25, got %s", snapshot.Selic)
	}

	if snapshot.CDI.String() != "13.15" {
		t.Errorf("Expected cdi 13.15, got %s", snapshot.CDI)
	}

	if snapshot.IPCA.String() != "4.5" {
		t.Errorf("Expected ipca 4.5, got %s", snapshot.IPCA)
	}

	if snapshot.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestHTTPProviderFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.Client(), nil).WithBaseURL(server.URL)

	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestHTTPProviderFetchMalformedValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"data":"29/08/2026","valor":"n/a"}]`)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.Client(), nil).WithBaseURL(server.URL)

	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Error("Expected error for non-numeric observation value")
	}
}

func TestHTTPProviderFetchEmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.Client(), nil).WithBaseURL(server.URL)

	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Error("Expected error for empty series response")
	}
}

func TestStaticProvider(t *testing.T) {
	snapshot := models.RateSnapshot{
		Selic: decimal.NewFromFloat(11.0),
		IPCA:  decimal.NewFromFloat(3.8),
		CDI:   decimal.NewFromFloat(10.9),
	}

	provider := &StaticProvider{Snapshot: snapshot}

	got, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !got.Selic.Equal(snapshot.Selic) {
		t.Errorf("Expected selic %s, got %s", snapshot.Selic, got.Selic)
	}
}

// failingProvider always errors, to exercise the fallback path
type failingProvider struct{}

func (failingProvider) Fetch(ctx context.Context) (models.RateSnapshot, error) {
	return models.RateSnapshot{}, errors.New("connection refused")
}

func TestWithFallbackOnError(t *testing.T) {
	provider := WithFallback(failingProvider{}, nil)

	snapshot, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fallback provider must never fail: %v", err)
	}

	expected := models.DefaultRateSnapshot()
	if !snapshot.Selic.Equal(expected.Selic) || !snapshot.IPCA.Equal(expected.IPCA) || !snapshot.CDI.Equal(expected.CDI) {
		t.Errorf("Expected default snapshot, got %s", snapshot)
	}
}

func TestWithFallbackSanitizesPartialSnapshot(t *testing.T) {
	partial := models.RateSnapshot{
		Selic: decimal.NewFromFloat(11.0),
		IPCA:  decimal.Zero,
		CDI:   decimal.NewFromFloat(-1),
	}

	provider := WithFallback(&StaticProvider{Snapshot: partial}, nil)

	snapshot, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fallback provider must never fail: %v", err)
	}

	fallback := models.DefaultRateSnapshot()

	if !snapshot.Selic.Equal(partial.Selic) {
		t.Errorf("Expected fetched selic to survive, got %s", snapshot.Selic)
	}

	if !snapshot.IPCA.Equal(fallback.IPCA) {
		t.Errorf("Expected zero ipca replaced, got %s", snapshot.IPCA)
	}

	if !snapshot.CDI.Equal(fallback.CDI) {
		t.Errorf("Expected negative cdi replaced, got %s", snapshot.CDI)
	}
}

func TestWithFallbackPassesValidSnapshot(t *testing.T) {
	valid := models.RateSnapshot{
		Selic: decimal.NewFromFloat(12.0),
		IPCA:  decimal.NewFromFloat(4.0),
		CDI:   decimal.NewFromFloat(11.9),
	}

	provider := WithFallback(&StaticProvider{Snapshot: valid}, nil)

	snapshot, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !snapshot.Selic.Equal(valid.Selic) {
		t.Errorf("Expected valid snapshot untouched, got %s", snapshot)
	}
}
