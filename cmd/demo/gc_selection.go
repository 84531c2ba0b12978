package main

import "github.com/daniacca/rnaworld/internal/rna"

// Harsh degradation with a strong GC bonus favors GC-rich strands.
func init() {
	p := rna.DefaultParams()
	p.BaseReplicationRate = 0.20
	p.CatalyticReplicationRate = 0.20
	p.BaseDegradationRate = 0.18
	p.GCStabilityBonus = 0.20

	register(scenario{
		name:        "gc-selection",
		description: "stability bonus drives the mean GC fraction up",
		params:      p,
		metric:      func(st rna.Stats) float64 { return st.MeanGC },
		metricName:  "mean gc",
	})
}
