package main

import "github.com/daniacca/rnaworld/internal/rna"

// With a high mutation rate the motif cannot be kept and diversity explodes.
func init() {
	p := rna.DefaultParams()
	p.MutationRate = 0.25
	p.CatalyticReplicationRate = 0.30

	register(scenario{
		name:        "error-catastrophe",
		description: "mutation outpaces selection and the pool stays diverse",
		params:      p,
		seed: func(env *rna.Environment, src rna.Source) {
			for n := 0; n < 16; n++ {
				env.Insert("GGAAG" + rna.RandomSequence(p.SequenceLength-5, src))
			}
		},
		metric: func(st rna.Stats) float64 {
			if st.Population == 0 {
				return 0
			}
			return float64(st.Distinct) / float64(st.Population)
		},
		metricName: "distinct",
	})
}
