// Package renderer turns structured accrual breakdowns and duplicate
// detection results into display output.
//
// The accrual engine emits breakdown lines as {kind, params} tuples; every
// label string lives here, so the calculation core stays language-neutral.
// Portuguese is the default locale, matching the labels the billing surfaces
// historically displayed.
package renderer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/F-O-T/montte-core/internal/accrual"
	"github.com/F-O-T/montte-core/internal/dedup"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Locale selects the label language
type Locale string

const (
	LocalePTBR Locale = "pt-BR"
	LocaleENUS Locale = "en-US"
)

// IsValid checks if the locale is supported
func (l Locale) IsValid() bool {
	switch l {
	case LocalePTBR, LocaleENUS:
		return true
	default:
		return false
	}
}

// RenderedLine is one display-ready label/value pair
type RenderedLine struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// RenderedBreakdown is a display-ready accrual breakdown
type RenderedBreakdown struct {
	Lines []RenderedLine  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Renderer renders results in a fixed locale
type Renderer struct {
	Locale Locale
}

// NewRenderer creates a renderer. An empty locale defaults to pt-BR.
func NewRenderer(locale Locale) *Renderer {
	if locale == "" {
		locale = LocalePTBR
	}
	return &Renderer{Locale: locale}
}

// RenderBreakdown converts a structured breakdown into labeled lines
func (r *Renderer) RenderBreakdown(b *accrual.Breakdown) *RenderedBreakdown {
	rendered := &RenderedBreakdown{
		Lines: make([]RenderedLine, 0, len(b.Lines)),
		Total: b.Total,
	}

	for _, line := range b.Lines {
		rendered.Lines = append(rendered.Lines, RenderedLine{
			Label: r.lineLabel(line),
			Value: line.Amount,
		})
	}

	return rendered
}

// lineLabel formats the label for one breakdown line
func (r *Renderer) lineLabel(line accrual.BreakdownLine) string {
	pt := r.Locale == LocalePTBR

	switch line.Kind {
	case accrual.LineOriginal:
		if pt {
			return "Valor original"
		}
		return "Original Amount"
	case accrual.LinePenaltyPercentage:
		if pt {
			return fmt.Sprintf("Multa (%s%%)", line.Rate.String())
		}
		return fmt.Sprintf("Penalty (%s%%)", line.Rate.String())
	case accrual.LinePenaltyFixed:
		if pt {
			return "Multa (fixa)"
		}
		return "Penalty (fixed)"
	case accrual.LineInterestDaily:
		if pt {
			return fmt.Sprintf("Juros (%s%%/dia × %d)", line.Rate.String(), line.Days)
		}
		return fmt.Sprintf("Interest (%s%%/day × %d)", line.Rate.String(), line.Days)
	case accrual.LineInterestMonthly:
		if pt {
			return fmt.Sprintf("Juros (%s%%/mês × %s)", line.Rate.String(), line.Months.StringFixed(1))
		}
		return fmt.Sprintf("Interest (%s%%/month × %s)", line.Rate.String(), line.Months.StringFixed(1))
	case accrual.LineCorrection:
		index := strings.ToUpper(line.Index.String())
		if pt {
			return fmt.Sprintf("Correção monetária (%s × %d dias)", index, line.Days)
		}
		return fmt.Sprintf("Monetary Correction (%s × %d days)", index, line.Days)
	default:
		return string(line.Kind)
	}
}

// WriteBreakdownConsole writes a breakdown as an aligned text table
func (r *Renderer) WriteBreakdownConsole(w io.Writer, b *accrual.Breakdown) error {
	rendered := r.RenderBreakdown(b)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range rendered.Lines {
		fmt.Fprintf(tw, "%s\t%s\n", line.Label, line.Value.StringFixed(2))
	}

	totalLabel := "Total"
	if r.Locale == LocalePTBR {
		totalLabel = "Valor atualizado"
	}
	fmt.Fprintf(tw, "%s\t%s\n", totalLabel, rendered.Total.StringFixed(2))

	return tw.Flush()
}

// WriteBreakdownJSON writes a breakdown as indented JSON
func (r *Renderer) WriteBreakdownJSON(w io.Writer, b *accrual.Breakdown) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.RenderBreakdown(b))
}

// WriteDetectionConsole writes a detection result as an aligned text table
func (r *Renderer) WriteDetectionConsole(w io.Writer, result *dedup.DetectionResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "DATE\tAMOUNT\tDESCRIPTION\tSCORE\tVERDICT")
	for _, c := range result.Candidates {
		verdict := "unique"
		if c.IsDuplicate {
			verdict = "duplicate"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\t%s\n",
			c.Candidate.Date.Format("2006-01-02"),
			c.Candidate.Amount.StringFixed(2),
			c.Candidate.Description,
			c.Result.ScorePercentage*100,
			verdict)
	}

	fmt.Fprintf(tw, "\nTotal: %d\tDuplicates: %d\tUnique: %d\n",
		result.Summary.TotalCandidates, result.Summary.Duplicates, result.Summary.Unique)

	return tw.Flush()
}

// WriteDetectionJSON writes a detection result as indented JSON
func (r *Renderer) WriteDetectionJSON(w io.Writer, result *dedup.DetectionResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// WriteDetectionCSV writes a detection result as CSV rows
func (r *Renderer) WriteDetectionCSV(w io.Writer, result *dedup.DetectionResult) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"date", "amount", "description", "score", "score_percentage", "duplicate"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range result.Candidates {
		row := []string{
			c.Candidate.Date.Format("2006-01-02"),
			c.Candidate.Amount.StringFixed(2),
			c.Candidate.Description,
			fmt.Sprintf("%.2f", c.Result.Score),
			fmt.Sprintf("%.4f", c.Result.ScorePercentage),
			fmt.Sprintf("%t", c.IsDuplicate),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
