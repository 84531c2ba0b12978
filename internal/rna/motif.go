package rna

import "strings"

// NormalizeMotif upper-cases and trims a motif so it can be compared with
// stored sequences.
func NormalizeMotif(motif string) string {
	return strings.ToUpper(strings.TrimSpace(motif))
}

// ContainsMotif reports whether seq contains motif as a contiguous substring,
// ignoring case. An empty motif matches every sequence.
func ContainsMotif(seq, motif string) bool {
	return strings.Contains(strings.ToUpper(seq), NormalizeMotif(motif))
}
