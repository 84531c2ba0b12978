package rna

import "strings"

// Alphabet is the ordered set of nucleotides a strand is built from.
const Alphabet = "AUGC"

// IsNucleotide reports whether c is one of the four alphabet symbols.
func IsNucleotide(c byte) bool {
	return strings.IndexByte(Alphabet, c) >= 0
}

// RandomSequence returns a uniformly random sequence of length n.
func RandomSequence(n int, src Source) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = Alphabet[src.Intn(len(Alphabet))]
	}
	return string(b)
}

// GCFraction returns the fraction of G and C symbols in seq.
// The empty sequence has a GC fraction of 0.
func GCFraction(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C':
			gc++
		}
	}
	return float64(gc) / float64(len(seq))
}
