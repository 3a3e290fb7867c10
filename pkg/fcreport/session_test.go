package fcreport

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/dashboard"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	path := writeWorkbook(t, t.TempDir(), "TFC.xlsx",
		[]any{"Round", "Customer", "ROI", "Realized Revenue", "Gross Sales"},
		[]any{1, "Acme", 0.1, 1000, 10},
		[]any{2, "Acme", 0.2, 1500, 20},
		[]any{1, "Bolt", 0.3, 500, 30},
	)
	return NewSession(NewCache(DefaultOptions()), []string{path})
}

func TestSessionFilterScenario(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.Select(schema.Customer, "Acme"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.View.Len() != 2 || snap.Dashboard.Rows != 2 {
		t.Fatalf("Expected 2 rows in view, got %d", snap.View.Len())
	}
	if snap.Table.Len() != 3 {
		t.Errorf("Expected the unfiltered table to keep 3 rows, got %d", snap.Table.Len())
	}

	fin, ok := snap.Dashboard.Tab(dashboard.Financials)
	if !ok {
		t.Fatal("Expected financials tab")
	}
	trend := fin.Trends[0]
	if !trend.Available() {
		t.Fatalf("Expected ROI trend, got %s", trend.Reason)
	}
	pts := trend.Data.Points
	if len(pts) != 2 || pts[0].X != 1 || pts[0].Y != 0.1 || pts[1].X != 2 || pts[1].Y != 0.2 {
		t.Errorf("Unexpected ROI trend %+v", pts)
	}

	sales, _ := snap.Dashboard.Tab(dashboard.Sales)
	contrib := sales.Contributions[0]
	if !contrib.Available() {
		t.Fatalf("Expected customer contribution, got %s", contrib.Reason)
	}
	if len(contrib.Data.Rows) != 1 {
		t.Errorf("Expected only Acme, got %d rows", len(contrib.Data.Rows))
	}
	if v, ok := contrib.Data.Lookup("Acme", "Avg ROI"); !ok || math.Abs(v-0.15) > 1e-9 {
		t.Errorf("Expected Acme ROI 0.15, got %v", v)
	}
	if v, ok := contrib.Data.Lookup("Acme", "Total Revenue"); !ok || v != 2500 {
		t.Errorf("Expected Acme revenue 2500, got %v", v)
	}

	if keys := snap.Selection[schema.Customer]; len(keys) != 1 || keys[0] != "Acme" {
		t.Errorf("Unexpected selection %v", snap.Selection)
	}

	sess.ClearFilter(schema.Customer)
	snap, err = sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.View.Len() != 3 {
		t.Errorf("Expected 3 rows after clearing the filter, got %d", snap.View.Len())
	}
}

func TestSessionOverrides(t *testing.T) {
	sess := newTestSession(t)

	if err := sess.SetOverride(schema.Revenue, schema.UseColumn("Gross Sales")); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if col, _ := snap.Resolved.Column(schema.Revenue); col != "Gross Sales" {
		t.Errorf("Expected revenue -> Gross Sales, got %q", col)
	}
	fin, _ := snap.Dashboard.Tab(dashboard.Financials)
	if kpi := fin.KPIs[1]; !kpi.Value.Available() || kpi.Value.Data != 60 {
		t.Errorf("Expected revenue total 60 from the override, got %+v", kpi.Value)
	}

	if err := sess.SetOverride(schema.ROI, schema.NoColumn()); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	snap, err = sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	fin, _ = snap.Dashboard.Tab(dashboard.Financials)
	if fin.KPIs[0].Value.Available() {
		t.Errorf("Expected ROI card to be unavailable, got %+v", fin.KPIs[0].Value)
	}

	if err := sess.SetOverride(schema.COGS, schema.UseColumn("Nope")); !errors.Is(err, schema.ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn, got %v", err)
	}
	if err := sess.Select(schema.ROI, "0.1"); err == nil {
		t.Error("Expected error selecting a non-dimension")
	}

	sess.ClearOverride(schema.ROI)
	if _, ok := sess.Overrides()[schema.ROI]; ok {
		t.Error("Expected ROI override to be cleared")
	}
}

func TestSessionRemapDimension(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "TFC.xlsx",
		[]any{"Round", "Customer", "Rep", "ROI"},
		[]any{1, "Acme", "Ann", 0.1},
		[]any{2, "Acme", "Bob", 0.2},
		[]any{1, "Bolt", "Ann", 0.3},
	)
	sess := NewSession(NewCache(DefaultOptions()), []string{path})

	if err := sess.Select(schema.Customer, "Acme"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := sess.SetOverride(schema.Customer, schema.UseColumn("Customer")); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	if !sess.Selection().Active(schema.Customer) {
		t.Error("Expected the selection to survive an override to the same column")
	}

	if err := sess.SetOverride(schema.Customer, schema.UseColumn("Rep")); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if _, ok := snap.Selection[schema.Customer]; ok {
		t.Errorf("Expected customer selection to be cleared, got %v", snap.Selection)
	}
	if snap.View.Len() != 3 {
		t.Errorf("Expected 3 rows after remapping, got %d", snap.View.Len())
	}

	if err := sess.Select(schema.Customer, "Ann"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	sess.ClearOverride(schema.Customer)
	if sess.Selection().Active(schema.Customer) {
		t.Errorf("Expected selection to be cleared on return to auto, got %v", sess.Selection())
	}

	if err := sess.Select(schema.Round, "1"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := sess.SetOverride(schema.ROI, schema.NoColumn()); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	if !sess.Selection().Active(schema.Round) {
		t.Error("Expected remapping a non-dimension to keep other selections")
	}
}

func TestSnapshotJSON(t *testing.T) {
	sess := newTestSession(t)
	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"session_id", "sources", "mapping", "filters", "dashboard"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in snapshot JSON", key)
		}
	}
}
