package main

import "github.com/daniacca/rnaworld/internal/rna"

// A handful of strands carrying the motif outgrow the random background.
func init() {
	p := rna.DefaultParams()
	p.SequenceLength = 12
	p.BaseReplicationRate = 0.08
	p.CatalyticReplicationRate = 0.30
	p.MutationRate = 0.01

	register(scenario{
		name:        "motif-takeover",
		description: "catalytic strands replicate faster and take over the pool",
		params:      p,
		seed: func(env *rna.Environment, src rna.Source) {
			motif := env.Params().Get().CatalyticMotif
			for n := 0; n < 4; n++ {
				env.Insert(motif + rna.RandomSequence(p.SequenceLength-len(motif), src))
			}
		},
		metric:     func(st rna.Stats) float64 { return st.CatalyticFraction },
		metricName: "catalytic",
	})
}
