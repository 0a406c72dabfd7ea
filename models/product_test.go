package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewProductDetails(t *testing.T) {
	battery, blank, nicotine := "  650mAh ", "   ", "5%"
	d := NewProductDetails(
		ProductBase{Name: "Geek Bar Pulse", Link: "https://demandvape.com/geek-bar-pulse"},
		ProductAttributes{Battery: &battery, Display: &blank, Nicotine: &nicotine},
	)
	if d.Battery == nil || *d.Battery != "650mAh" {
		t.Errorf("Battery = %v", d.Battery)
	}
	if d.Display != nil {
		t.Errorf("blank Display should be absent, got %q", *d.Display)
	}
	if battery != "  650mAh " {
		t.Error("input attributes must not be modified")
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"name":"Geek Bar Pulse"`, `"img":""`, `"Battery":"650mAh"`, `"Max_Puff":null`, `"E_liquid_Capacity":null`, `"Nicotine":"5%"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("json %s missing %s", b, want)
		}
	}
}

func TestKnownNames(t *testing.T) {
	known := NewKnownNames([]string{" Geek Bar Pulse ", "", "  ", "Raz TN9000"})
	if len(known) != 2 {
		t.Fatalf("len = %d, want 2", len(known))
	}
	if !known.Contains("Geek Bar Pulse") || !known.Contains("Raz TN9000 ") {
		t.Error("expected trimmed names to match")
	}
	if known.Contains("geek bar pulse") || known.Contains("") {
		t.Error("matching should be exact and ignore blanks")
	}
}
