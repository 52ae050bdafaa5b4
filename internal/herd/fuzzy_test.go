package herd_test

import (
	"testing"

	"github.com/GestionGanadera/GG-Backend/internal/herd"
)

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Áreas de Ordeño", "areas de ordeno"},
		{"Margarita", "margarita"},
		{"  CANELA  ", "canela"},
		{"", ""},
	}
	for _, c := range cases {
		if got := herd.Fold(c.in); got != c.want {
			t.Errorf("Fold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if s := herd.Similarity("bella", "bella"); s != 1 {
		t.Errorf("identical strings: got %v, want 1", s)
	}
	if s := herd.Similarity("", ""); s != 1 {
		t.Errorf("empty strings: got %v, want 1", s)
	}
	// One substitution in a five-letter word: 1 - 1/5.
	if s := herd.Similarity("bella", "bellu"); s != 0.8 {
		t.Errorf("one edit: got %v, want 0.8", s)
	}
	if s := herd.Similarity("abc", "xyz"); s != 0 {
		t.Errorf("disjoint strings: got %v, want 0", s)
	}
}

func TestMatches(t *testing.T) {
	const threshold = 0.72

	cases := []struct {
		name      string
		query     string
		candidate string
		want      bool
	}{
		{"exact", "Luna", "Luna", true},
		{"substring", "lun", "Luna", true},
		{"case insensitive", "LUNA", "luna", true},
		{"accent folded", "ordeno", "Áreas de Ordeño", true},
		{"single typo", "margarite", "Margarita", true},
		{"word in description", "holsten", "Holstein de 5 años, alta productora de leche", true},
		{"unrelated", "tractor", "Luna", false},
		{"empty query matches all", "", "Luna", true},
	}
	for _, c := range cases {
		if got := herd.Matches(c.query, c.candidate, threshold); got != c.want {
			t.Errorf("%s: Matches(%q, %q) = %v, want %v", c.name, c.query, c.candidate, got, c.want)
		}
	}
}

func TestMatches_ThresholdConfigurable(t *testing.T) {
	// "bellu" vs "bella" has similarity 0.8: passes a 0.7 threshold,
	// fails a 0.9 one.
	if !herd.Matches("bellu", "bella", 0.7) {
		t.Error("expected match at threshold 0.7")
	}
	if herd.Matches("bellu", "bella", 0.9) {
		t.Error("expected no match at threshold 0.9")
	}
}
