package main

import (
	"testing"
)

func TestPairsFlag(t *testing.T) {
	var p pairsFlag
	for _, s := range []string{"roi=Return %", " customer =Acme", "cogs=none"} {
		if err := p.Set(s); err != nil {
			t.Fatalf("Set(%q) failed: %v", s, err)
		}
	}
	if len(p.pairs) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(p.pairs))
	}
	if p.pairs[0] != (pair{"roi", "Return %"}) || p.pairs[1] != (pair{"customer", "Acme"}) {
		t.Errorf("Unexpected pairs %+v", p.pairs)
	}
	if got := p.String(); got != "roi=Return %,customer=Acme,cogs=none" {
		t.Errorf("Unexpected String() %q", got)
	}

	for _, bad := range []string{"roi", "=x"} {
		if err := p.Set(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
