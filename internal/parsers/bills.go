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

// BillParserConfig controls how bill CSV files are read
type BillParserConfig struct {
	IDColumn          string
	DescriptionColumn string
	AmountColumn      string
	DueDateColumn     string
	Delimiter         rune
	ColumnAliases     map[string]string
}

// DefaultBillParserConfig returns a configuration covering common bill
// export layouts.
func DefaultBillParserConfig() *BillParserConfig {
	return &BillParserConfig{
		IDColumn:          "id",
		DescriptionColumn: "description",
		AmountColumn:      "amount",
		DueDateColumn:     "due_date",
		Delimiter:         ',',
		ColumnAliases: map[string]string{
			"bill_id":         "id",
			"codigo":          "id",
			"descricao":       "description",
			"descrição":       "description",
			"valor":           "amount",
			"value":           "amount",
			"amt":             "amount",
			"vencimento":      "due_date",
			"duedate":         "due_date",
			"due":             "due_date",
			"data_vencimento": "due_date",
		},
	}
}

// BillParser reads Bill rows from CSV
type BillParser struct {
	config *BillParserConfig
	log    logger.Logger
}

// NewBillParser creates a parser with the given configuration.
// A nil config falls back to the default configuration.
func NewBillParser(config *BillParserConfig, log logger.Logger) *BillParser {
	if config == nil {
		config = DefaultBillParserConfig()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BillParser{
		config: config,
		log:    log.WithComponent("parsers"),
	}
}

// ParseFile reads all bills from a CSV file
func (p *BillParser) ParseFile(path string) ([]*models.Bill, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	return p.Parse(file, path)
}

// Parse reads all bills from a CSV stream
func (p *BillParser) Parse(r io.Reader, name string) ([]*models.Bill, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.config.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidFormat, name, 1, "", "", err)
	}

	indices, err := p.mapColumns(header, name)
	if err != nil {
		return nil, err
	}

	var bills []*models.Bill
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

		bill, err := p.parseRecord(record, indices, name, line)
		if err != nil {
			return nil, err
		}

		bills = append(bills, bill)
	}

	p.log.WithFields(logger.Fields{
		"file":  name,
		"count": len(bills),
	}).Debug("parsed bills")

	return bills, nil
}

type billColumnIndices struct {
	id          int
	description int
	amount      int
	dueDate     int
}

func (p *BillParser) mapColumns(header []string, name string) (*billColumnIndices, error) {
	indices := &billColumnIndices{id: -1, description: -1, amount: -1, dueDate: -1}

	for i, raw := range header {
		col := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := p.config.ColumnAliases[col]; ok {
			col = canonical
		}

		switch col {
		case p.config.IDColumn:
			indices.id = i
		case p.config.DescriptionColumn:
			indices.description = i
		case p.config.AmountColumn:
			indices.amount = i
		case p.config.DueDateColumn:
			indices.dueDate = i
		}
	}

	if indices.id < 0 {
		return nil, apperrors.ParseError(apperrors.CodeMissingColumn, name, 1, p.config.IDColumn, "", nil)
	}
	if indices.amount < 0 {
		return nil, apperrors.ParseError(apperrors.CodeMissingColumn, name, 1, p.config.AmountColumn, "", nil)
	}
	if indices.dueDate < 0 {
		return nil, apperrors.ParseError(apperrors.CodeMissingColumn, name, 1, p.config.DueDateColumn, "", nil)
	}

	return indices, nil
}

func (p *BillParser) parseRecord(record []string, indices *billColumnIndices, name string, line int) (*models.Bill, error) {
	required := []int{indices.id, indices.amount, indices.dueDate}
	for _, idx := range required {
		if len(record) <= idx {
			return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, "", strings.Join(record, ","), nil)
		}
	}

	amount, err := models.ParseDecimalFromString(record[indices.amount])
	if err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, p.config.AmountColumn, record[indices.amount], err)
	}

	dueDate, err := models.ParseTimeWithFormats(record[indices.dueDate])
	if err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, p.config.DueDateColumn, record[indices.dueDate], err)
	}

	description := ""
	if indices.description >= 0 && indices.description < len(record) {
		description = strings.TrimSpace(record[indices.description])
	}

	bill := models.NewBill(strings.TrimSpace(record[indices.id]), description, amount, dueDate)

	if err := bill.Validate(); err != nil {
		return nil, apperrors.ParseError(apperrors.CodeInvalidData, name, line, "", "", err)
	}

	return bill, nil
}
