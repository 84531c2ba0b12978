package rna

import (
	"strings"
	"testing"
)

func TestGCFraction(t *testing.T) {
	tests := []struct {
		seq  string
		want float64
	}{
		{"", 0},
		{"AAAA", 0},
		{"GGCC", 1},
		{"AUGC", 0.5},
		{"GAAA", 0.25},
	}
	for _, tt := range tests {
		if got := GCFraction(tt.seq); got != tt.want {
			t.Errorf("GCFraction(%q): expected %v, got %v", tt.seq, tt.want, got)
		}
	}
}

func TestRandomSequence(t *testing.T) {
	src := NewSource(42)
	for n := 0; n < 50; n++ {
		seq := RandomSequence(18, src)
		if len(seq) != 18 {
			t.Fatalf("Expected length 18, got %d", len(seq))
		}
		for i := 0; i < len(seq); i++ {
			if !IsNucleotide(seq[i]) {
				t.Fatalf("Expected alphabet symbol, got %q in %s", seq[i], seq)
			}
		}
	}

	if seq := RandomSequence(0, src); seq != "" {
		t.Errorf("Expected empty sequence for length 0, got %q", seq)
	}
}

func TestRandomSequence_UsesEverySymbol(t *testing.T) {
	src := &scriptedSource{ints: []int{0, 1, 2, 3}}
	if seq := RandomSequence(4, src); seq != Alphabet {
		t.Errorf("Expected %s, got %s", Alphabet, seq)
	}
}

func TestContainsMotif(t *testing.T) {
	if !ContainsMotif("AAGGAAGUU", "GGAAG") {
		t.Error("Expected AAGGAAGUU to contain GGAAG")
	}
	if ContainsMotif("AAAAAAAAA", "GGAAG") {
		t.Error("Expected AAAAAAAAA not to contain GGAAG")
	}
	if !ContainsMotif("aaggaaguu", "ggaag") {
		t.Error("Expected motif match to ignore case")
	}
	if !ContainsMotif("AUGC", "") {
		t.Error("Expected empty motif to match")
	}
	if NormalizeMotif(" ggaag ") != "GGAAG" {
		t.Errorf("Expected GGAAG, got %q", NormalizeMotif(" ggaag "))
	}
	if strings.ToUpper(Alphabet) != Alphabet {
		t.Error("Expected alphabet to be upper case")
	}
}
