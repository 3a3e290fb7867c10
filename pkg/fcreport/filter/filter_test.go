package filter

import (
	"errors"
	"testing"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

func row(round float64, customer, product string) models.Row {
	cells := map[string]models.Value{"Round": models.Number(round)}
	if customer != "" {
		cells["Customer"] = models.Text(customer)
	}
	if product != "" {
		cells["Product"] = models.Text(product)
	}
	return models.Row{SourceFile: "a.xlsx", Sheet: "Sheet1", Cells: cells}
}

func testTable() *models.Table {
	return &models.Table{
		Columns: []string{"Round", "Customer", "Product", models.SourceFileColumn, models.SheetColumn},
		Rows: []models.Row{
			row(1, "Acme", "Juice"),
			row(2, "Acme", "Smoothie"),
			row(1, "Bolt", "Juice"),
			row(3, "", "Juice"),
		},
	}
}

func TestApplyNoSelection(t *testing.T) {
	table := testTable()
	m := schema.Resolve(table, nil)

	view := Apply(table, Selection{}, m)
	if view.Len() != table.Len() {
		t.Errorf("Expected %d rows, got %d", table.Len(), view.Len())
	}
}

func TestApplyConjunction(t *testing.T) {
	table := testTable()
	m := schema.Resolve(table, nil)

	tests := []struct {
		name     string
		sel      Selection
		expected []float64
	}{
		{"customer", Selection{schema.Customer: {"Acme": true}}, []float64{1, 2}},
		{"customer and product", Selection{
			schema.Customer: {"Acme": true},
			schema.Product:  {"Juice": true},
		}, []float64{1}},
		{"round", Selection{schema.Round: {"1": true, "3": true}}, []float64{1, 1, 3}},
		{"no match", Selection{schema.Customer: {"Nobody": true}}, nil},
		{"empty set", Selection{schema.Customer: {}}, []float64{1, 2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Apply(table, tt.sel, m)
			if view.Len() != len(tt.expected) {
				t.Fatalf("Expected %d rows, got %d", len(tt.expected), view.Len())
			}
			for i, r := range view.Rows {
				if got := r.Get("Round").Num; got != tt.expected[i] {
					t.Errorf("Row %d: expected round %v, got %v", i, tt.expected[i], got)
				}
			}
		})
	}
}

func TestApplyUnmappedDimension(t *testing.T) {
	table := testTable()
	m := schema.Resolve(table, schema.Overrides{schema.Customer: schema.NoColumn()})

	view := Apply(table, Selection{schema.Customer: {"Acme": true}}, m)
	if view.Len() != table.Len() {
		t.Errorf("Expected unmapped dimension to be ignored, got %d rows", view.Len())
	}
}

func TestDistinct(t *testing.T) {
	table := testTable()

	got := Distinct(table, "Round")
	if len(got) != 3 || got[0].Num != 1 || got[1].Num != 2 || got[2].Num != 3 {
		t.Errorf("Unexpected rounds %v", got)
	}

	got = Distinct(table, "Customer")
	if len(got) != 2 || got[0].Text != "Acme" || got[1].Text != "Bolt" {
		t.Errorf("Expected [Acme Bolt] without nulls, got %v", got)
	}

	if got := Distinct(table, "Missing"); got != nil {
		t.Errorf("Expected nil for missing column, got %v", got)
	}
}

func TestApplyMixedKinds(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Round"},
		Rows: []models.Row{
			{Cells: map[string]models.Value{"Round": models.Number(1)}},
			{Cells: map[string]models.Value{"Round": models.Text("1")}},
			{Cells: map[string]models.Value{"Round": models.Number(2)}},
		},
	}
	m := schema.Resolve(table, nil)

	if got := Distinct(table, "Round"); len(got) != 3 {
		t.Errorf("Expected number 1 and text \"1\" to be distinct, got %v", got)
	}

	tests := []struct {
		key   string
		kinds []models.Kind
	}{
		{"1", []models.Kind{models.KindNumber}},
		{"'1", []models.Kind{models.KindText}},
	}
	for _, tt := range tests {
		view := Apply(table, Selection{schema.Round: {tt.key: true}}, m)
		if view.Len() != len(tt.kinds) {
			t.Fatalf("key %q: expected %d rows, got %d", tt.key, len(tt.kinds), view.Len())
		}
		for i, r := range view.Rows {
			if got := r.Get("Round").Kind; got != tt.kinds[i] {
				t.Errorf("key %q row %d: expected %s, got %s", tt.key, i, tt.kinds[i], got)
			}
		}
	}
}

func TestOptions(t *testing.T) {
	table := testTable()
	opts := Options(table, schema.Resolve(table, nil))

	if len(opts) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(opts))
	}
	if opts[0].Dimension != schema.Round || opts[1].Dimension != schema.Product || opts[2].Dimension != schema.Customer {
		t.Errorf("Unexpected option order: %s, %s, %s", opts[0].Dimension, opts[1].Dimension, opts[2].Dimension)
	}
}

func TestSelectionToggle(t *testing.T) {
	sel := Selection{}
	if !sel.Toggle(schema.Customer, "Acme") {
		t.Error("Expected Acme to be selected")
	}
	if !sel.Active(schema.Customer) {
		t.Error("Expected customer to be active")
	}
	if sel.Toggle(schema.Customer, "Acme") {
		t.Error("Expected Acme to be deselected")
	}
	if sel.Active(schema.Customer) {
		t.Error("Expected customer to be inactive")
	}

	sel.Add(schema.Round, "2")
	sel.Add(schema.Round, "1")
	if keys := sel.Keys(schema.Round); len(keys) != 2 || keys[0] != "1" || keys[1] != "2" {
		t.Errorf("Unexpected keys %v", keys)
	}

	clone := sel.Clone()
	clone.Clear(schema.Round)
	if !sel.Active(schema.Round) {
		t.Error("Clearing a clone changed the original")
	}
}

func TestParseDimension(t *testing.T) {
	if got, err := ParseDimension("Customer"); err != nil || got != schema.Customer {
		t.Errorf("ParseDimension(Customer) = %s, %v", got, err)
	}
	if _, err := ParseDimension("roi"); !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("Expected ErrUnknownDimension, got %v", err)
	}
}
