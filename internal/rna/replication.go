package rna

// Mutate copies seq, replacing each symbol with probability rate by one of
// the other alphabet symbols chosen uniformly. A mutated position never keeps
// its original symbol.
func Mutate(seq string, rate float64, src Source) string {
	out := []byte(seq)
	for i := 0; i < len(out); i++ {
		if src.Float64() < rate {
			out[i] = substitute(out[i], src)
		}
	}
	return string(out)
}

// substitute picks a symbol from the alphabet other than c.
func substitute(c byte, src Source) byte {
	options := make([]byte, 0, len(Alphabet))
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] != c {
			options = append(options, Alphabet[i])
		}
	}
	return options[src.Intn(len(options))]
}
