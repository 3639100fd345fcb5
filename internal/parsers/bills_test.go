package parsers

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/F-O-T/montte-core/pkg/errors"
)

func TestBillParserParse(t *testing.T) {
	csvData := `id,description,amount,due_date
B001,Aluguel escritório,1500.00,2026-08-01
B002,Internet,120.50,2026-08-10
`

	parser := NewBillParser(nil, nil)

	bills, err := parser.Parse(strings.NewReader(csvData), "bills.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(bills) != 2 {
		t.Fatalf("Expected 2 bills, got %d", len(bills))
	}

	first := bills[0]
	if first.ID != "B001" {
		t.Errorf("Expected ID B001, got %s", first.ID)
	}

	if first.Amount.String() != "1500" {
		t.Errorf("Expected amount 1500, got %s", first.Amount)
	}

	expected := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !first.DueDate.Equal(expected) {
		t.Errorf("Expected due date %s, got %s", expected, first.DueDate)
	}
}

func TestBillParserColumnAliases(t *testing.T) {
	csvData := `Codigo,Descricao,Valor,Vencimento
B001,Aluguel,"R$ 1,500.00",01/08/2026
`

	parser := NewBillParser(nil, nil)

	bills, err := parser.Parse(strings.NewReader(csvData), "contas.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(bills) != 1 {
		t.Fatalf("Expected 1 bill, got %d", len(bills))
	}

	if bills[0].Amount.String() != "1500" {
		t.Errorf("Expected amount 1500, got %s", bills[0].Amount)
	}

	expected := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !bills[0].DueDate.Equal(expected) {
		t.Errorf("Expected due date %s, got %s", expected, bills[0].DueDate)
	}
}

func TestBillParserMissingColumn(t *testing.T) {
	csvData := `id,description,amount
B001,Aluguel,1500.00
`

	parser := NewBillParser(nil, nil)

	_, err := parser.Parse(strings.NewReader(csvData), "bills.csv")
	if err == nil {
		t.Fatal("Expected error for missing due date column")
	}

	if code, ok := apperrors.GetCode(err); !ok || code != apperrors.CodeMissingColumn {
		t.Errorf("Expected missing column code, got %q", code)
	}
}

func TestBillParserInvalidBill(t *testing.T) {
	// Amount of zero fails the bill's own validation
	csvData := `id,description,amount,due_date
B001,Aluguel,0,2026-08-01
`

	parser := NewBillParser(nil, nil)

	_, err := parser.Parse(strings.NewReader(csvData), "bills.csv")
	if err == nil {
		t.Fatal("Expected error for zero amount bill")
	}

	if code, ok := apperrors.GetCode(err); !ok || code != apperrors.CodeInvalidData {
		t.Errorf("Expected invalid data code, got %q", code)
	}
}

func TestBillParserMissingDescriptionColumn(t *testing.T) {
	// Description is optional: bills without one still parse
	csvData := `id,amount,due_date
B001,1500.00,2026-08-01
`

	parser := NewBillParser(nil, nil)

	bills, err := parser.Parse(strings.NewReader(csvData), "bills.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(bills) != 1 || bills[0].Description != "" {
		t.Errorf("Expected a single bill with empty description, got %+v", bills)
	}
}
