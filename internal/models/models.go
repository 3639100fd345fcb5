package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bill represents a payable or receivable subject to overdue accrual
type Bill struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"dueDate"`
}

// NewBill creates a new Bill instance
func NewBill(id, description string, amount decimal.Decimal, dueDate time.Time) *Bill {
	return &Bill{
		ID:          id,
		Description: description,
		Amount:      amount,
		DueDate:     dueDate,
	}
}

// Validate performs basic validation on the Bill
func (b *Bill) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("bill ID cannot be empty")
	}

	if b.Amount.IsZero() {
		return fmt.Errorf("bill amount cannot be zero")
	}

	if b.Amount.IsNegative() {
		return fmt.Errorf("bill amount cannot be negative: %s", b.Amount.String())
	}

	if b.DueDate.IsZero() {
		return fmt.Errorf("bill due date cannot be zero")
	}

	return nil
}

// String returns a string representation of the Bill
func (b *Bill) String() string {
	return fmt.Sprintf("Bill{ID: %s, Amount: %s, DueDate: %s}",
		b.ID, b.Amount.String(), b.DueDate.Format("2006-01-02"))
}

// MarshalJSON implements custom JSON marshaling for Bill
func (b *Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Amount  string `json:"amount"`
		DueDate string `json:"dueDate"`
		*Alias
	}{
		Amount:  b.Amount.String(),
		DueDate: b.DueDate.Format("2006-01-02"),
		Alias:   (*Alias)(b),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Bill
func (b *Bill) UnmarshalJSON(data []byte) error {
	type Alias Bill
	aux := &struct {
		Amount  string `json:"amount"`
		DueDate string `json:"dueDate"`
		*Alias
	}{
		Alias: (*Alias)(b),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	b.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	b.DueDate, err = ParseTimeWithFormats(aux.DueDate)
	if err != nil {
		return fmt.Errorf("invalid due date format: %w", err)
	}

	return nil
}

// RateIndex identifies a macroeconomic rate index used for monetary correction
type RateIndex string

const (
	// RateIndexNone disables monetary correction
	RateIndexNone RateIndex = "none"
	// RateIndexIPCA is the Brazilian consumer price index
	RateIndexIPCA RateIndex = "ipca"
	// RateIndexSelic is the Brazilian base interest rate
	RateIndexSelic RateIndex = "selic"
	// RateIndexCDI is the Brazilian interbank deposit rate
	RateIndexCDI RateIndex = "cdi"
)

// String returns the string representation of RateIndex
func (ri RateIndex) String() string {
	return string(ri)
}

// IsValid checks if the rate index is a known value
func (ri RateIndex) IsValid() bool {
	switch ri {
	case RateIndexNone, RateIndexIPCA, RateIndexSelic, RateIndexCDI:
		return true
	default:
		return false
	}
}

// ParseRateIndex parses and validates a rate index from string
func ParseRateIndex(s string) (RateIndex, error) {
	ri := RateIndex(strings.ToLower(strings.TrimSpace(s)))
	if !ri.IsValid() {
		return "", fmt.Errorf("invalid rate index '%s': must be none, ipca, selic or cdi", s)
	}
	return ri, nil
}

// RateSnapshot holds annualized percentage rates for the supported indices,
// as published by the rate-index source at FetchedAt.
type RateSnapshot struct {
	Selic     decimal.Decimal `json:"selic"`
	IPCA      decimal.Decimal `json:"ipca"`
	CDI       decimal.Decimal `json:"cdi"`
	FetchedAt time.Time       `json:"fetchedAt,omitempty"`
}

// DefaultRateSnapshot returns the documented fallback snapshot used when the
// rate-index source is unavailable or returns invalid values.
func DefaultRateSnapshot() RateSnapshot {
	return RateSnapshot{
		Selic: decimal.NewFromFloat(13.25),
		IPCA:  decimal.NewFromFloat(4.5),
		CDI:   decimal.NewFromFloat(13.15),
	}
}

// Rate returns the annual percentage rate for the given index.
// RateIndexNone and unknown indices return zero.
func (rs RateSnapshot) Rate(index RateIndex) decimal.Decimal {
	switch index {
	case RateIndexSelic:
		return rs.Selic
	case RateIndexIPCA:
		return rs.IPCA
	case RateIndexCDI:
		return rs.CDI
	default:
		return decimal.Zero
	}
}

// Sanitize replaces each non-positive rate with the corresponding value from
// the default snapshot. Rates must be positive to be usable for accrual.
func (rs RateSnapshot) Sanitize() RateSnapshot {
	fallback := DefaultRateSnapshot()

	if !rs.Selic.IsPositive() {
		rs.Selic = fallback.Selic
	}
	if !rs.IPCA.IsPositive() {
		rs.IPCA = fallback.IPCA
	}
	if !rs.CDI.IsPositive() {
		rs.CDI = fallback.CDI
	}

	return rs
}

// IsValid checks that every rate in the snapshot is positive
func (rs RateSnapshot) IsValid() bool {
	return rs.Selic.IsPositive() && rs.IPCA.IsPositive() && rs.CDI.IsPositive()
}

// String returns a string representation of the RateSnapshot
func (rs RateSnapshot) String() string {
	return fmt.Sprintf("RateSnapshot{Selic: %s, IPCA: %s, CDI: %s}",
		rs.Selic.String(), rs.IPCA.String(), rs.CDI.String())
}

// DetectionTransaction is the minimal projection of a transaction used for
// duplicate comparison, regardless of whether it came from an imported
// statement row or an existing stored transaction.
type DetectionTransaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// NewDetectionTransaction creates a new DetectionTransaction instance
func NewDetectionTransaction(date time.Time, amount decimal.Decimal, description string) *DetectionTransaction {
	return &DetectionTransaction{
		Date:        date,
		Amount:      amount,
		Description: description,
	}
}

// Validate performs basic validation on the DetectionTransaction
func (dt *DetectionTransaction) Validate() error {
	if dt.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}

	if dt.Amount.IsZero() {
		return fmt.Errorf("transaction amount cannot be zero")
	}

	return nil
}

// String returns a string representation of the DetectionTransaction
func (dt *DetectionTransaction) String() string {
	return fmt.Sprintf("DetectionTransaction{Date: %s, Amount: %s, Description: %q}",
		dt.Date.Format("2006-01-02"), dt.Amount.String(), dt.Description)
}

// Equals compares two DetectionTransaction instances for equality
func (dt *DetectionTransaction) Equals(other *DetectionTransaction) bool {
	if other == nil {
		return false
	}

	return dt.Amount.Equal(other.Amount) &&
		dt.Description == other.Description &&
		NormalizeDate(dt.Date).Equal(NormalizeDate(other.Date))
}

// Utility functions for type conversion and validation

// NormalizeDate strips the time-of-day component, returning midnight UTC of
// the same calendar day.
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CompareDatesWithTolerance compares two dates within a day tolerance
func CompareDatesWithTolerance(a, b time.Time, toleranceDays int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}

	maxDiff := time.Duration(toleranceDays) * 24 * time.Hour
	return diff <= maxDiff
}

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTimeWithFormats attempts to parse time from string using multiple common formats
func ParseTimeWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	// Common formats found in statement exports
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"02/01/2006",
		"2006/01/02",
		"Jan 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time '%s': %w", s, lastErr)
}
