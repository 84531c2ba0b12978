package rna

import "gonum.org/v1/gonum/stat"

// Stats is a population summary computed on demand from a published state.
type Stats struct {
	Tick              int64   `json:"tick" csv:"tick"`
	Population        int     `json:"population" csv:"population"`
	Distinct          int     `json:"distinct" csv:"distinct"`
	CatalyticFraction float64 `json:"catalytic_fraction" csv:"catalytic_fraction"`

	CatalyticCount int `json:"catalytic_count" csv:"catalytic"`
	GCRichCount    int `json:"gc_rich_count" csv:"gc_rich"`
	AURichCount    int `json:"au_rich_count" csv:"au_rich"`
	BalancedCount  int `json:"balanced_count" csv:"balanced"`

	MeanGC  float64 `json:"mean_gc" csv:"mean_gc"`
	StdGC   float64 `json:"std_gc" csv:"std_gc"`
	MeanAge float64 `json:"mean_age" csv:"mean_age"`
	MaxAge  int     `json:"max_age" csv:"max_age"`

	DominantSequence string `json:"dominant_sequence" csv:"dominant_sequence"`
	DominantCount    int    `json:"dominant_count" csv:"dominant_count"`
}

// ComputeStats summarizes strands at tick. It never returns NaN: every ratio
// and moment is 0 for an empty population.
func ComputeStats(strands []Strand, tick int64) Stats {
	st := Stats{Tick: tick, Population: len(strands)}
	if len(strands) == 0 {
		return st
	}

	counts := make(map[string]int, len(strands))
	gcs := make([]float64, len(strands))
	ages := make([]float64, len(strands))
	for i, s := range strands {
		counts[s.Sequence]++
		gcs[i] = s.GC
		ages[i] = float64(s.Age)
		if s.Age > st.MaxAge {
			st.MaxAge = s.Age
		}

		switch s.Class() {
		case ClassCatalytic:
			st.CatalyticCount++
		case ClassGCRich:
			st.GCRichCount++
		case ClassAURich:
			st.AURichCount++
		default:
			st.BalancedCount++
		}
	}

	st.Distinct = len(counts)
	st.CatalyticFraction = float64(st.CatalyticCount) / float64(len(strands))

	for seq, n := range counts {
		// Ties resolve to the lexically smallest sequence so the result is stable.
		if n > st.DominantCount || (n == st.DominantCount && seq < st.DominantSequence) {
			st.DominantSequence = seq
			st.DominantCount = n
		}
	}

	if len(strands) > 1 {
		st.MeanGC, st.StdGC = stat.MeanStdDev(gcs, nil)
	} else {
		st.MeanGC = gcs[0]
	}
	st.MeanAge = stat.Mean(ages, nil)

	return st
}
