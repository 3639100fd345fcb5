// Package parsers reads transaction and bill CSV files for the import and
// accrual flows. Header names are matched case-insensitively, with a set of
// aliases covering common statement export layouts.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/F-O-T/montte-core/internal/models"
	apperrors "github.com/F-O-T/montte-core/pkg/errors"
	"github.com/F-O-T/montte-core/pkg/logger"
)

// TransactionParserConfig controls how transaction CSV files are read
type TransactionParserConfig struct {
	DateColumn        string
	AmountColumn      string
	DescriptionColumn string
	Delimiter         rune
	ColumnAliases     map[string]string
}

// DefaultTransactionParserConfig returns a configuration covering common
// statement export layouts.
func DefaultTransactionParserConfig() *TransactionParserConfig {
	return &TransactionParserConfig{
		DateColumn:        "date",
		AmountColumn:      "amount",
		DescriptionColumn: "description",
		Delimiter:         ',',
		ColumnAliases: map[string]string{
			"data":             "date",
			"transaction_date": "date",
			"posting_date":     "date",
			"valor":            "amount",
			"amt":              "amount",
			"value":            "amount",
			"descricao":        "description",
			"descrição":        "description",
			"memo":             "description",
			"details":          "description",
			"historico":        "description",
		},
	}
}

// TransactionParser reads DetectionTransaction rows from CSV
type TransactionParser struct {
	config *TransactionParserConfig
	log    logger.Logger
}

// NewTransactionParser creates a parser with the given configuration.
// A nil config falls back to the default configuration.
func NewTransactionParser(config *TransactionParserConfig, log logger.Logger) *TransactionParser {
	if config == nil {
		config = DefaultTransactionParserConfig()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &TransactionParser{
		config: config,
		log:    log.WithComponent("parsers"),
	}
}

// ParseFile reads all transactions from a CSV file
func (p *TransactionParser) ParseFile(path string) ([]*models.DetectionTransaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	return p.Parse(file, path)
}

// Parse reads all transactions from a CSV stream. The name parameter is
// used in error messages only.
func (p *TransactionParser) Parse(r io.Reader, name string) ([]*models.DetectionTransaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.config.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidFormat, name, 1, "", "", err)
	}

	columns, err := p.mapColumns(header, name)
	if err != nil {
		return nil, err
	}

	var transactions []*models.DetectionTransaction
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.ParseError(apperrors.CodeInvalidFormat, name, line, "", "", err)
		}

		tx, err := p.parseRecord(record, columns, name, line)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, tx)
	}

	p.log.WithFields(logger.Fields{
		"file":  name,
		"count": len(transactions),
	}).Debug("parsed transactions")

	return transactions, nil
}

// columnIndices holds the resolved positions of the required columns
type columnIndices struct {
	date        int
	amount      int
	description int
}

// mapColumns resolves header names to column positions, applying aliases
func (p *TransactionParser) mapColumns(header []string, name string) (*columnIndices, error) {
	indices := &columnIndices{date: -1, amount: -1, description: -1}

	for i, raw := range header {
		col := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := p.config.ColumnAliases[col]; ok {
			col = canonical
		}

		switch col {
		case p.config.DateColumn:
			indices.date = i
		case p.config.AmountColumn:
			indices.amount = i
		case p.config.DescriptionColumn:
			indices.description = i
		}
	}

	if indices.date < 0 {
		return nil, apperrors.ParseError(apperrors.CodeMissingColumn, name, 1, p.config.DateColumn, "", nil)
	}
	if indices.amount < 0 {
		return nil, apperrors.ParseError(apperrors.CodeMissingColumn, name, 1, p.config.AmountColumn, "", nil)
	}
	if indices.description < 0 {
		return nil, apperrors.ParseError(apperrors.CodeMissingColumn, name, 1, p.config.DescriptionColumn, "", nil)
	}

	return indices, nil
}

// parseRecord converts one CSV record into a DetectionTransaction
func (p *TransactionParser) parseRecord(record []string, columns *columnIndices, name string, line int) (*models.DetectionTransaction, error) {
	max := columns.date
	if columns.amount > max {
		max = columns.amount
	}
	if columns.description > max {
		max = columns.description
	}
	if len(record) <= max {
		return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, "", strings.Join(record, ","), nil)
	}

	date, err := models.ParseTimeWithFormats(record[columns.date])
	if err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, p.config.DateColumn, record[columns.date], err)
	}

	amount, err := models.ParseDecimalFromString(record[columns.amount])
	if err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, p.config.AmountColumn, record[columns.amount], err)
	}

	return models.NewDetectionTransaction(date, amount, strings.TrimSpace(record[columns.description])), nil
}
