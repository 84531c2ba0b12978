package rna

import (
	"math"
	"strings"
)

// StrandID is a unique identifier for a strand within an environment.
type StrandID uint64

// Strand is a single RNA sequence in the population.
// GC and Catalytic are derived once at construction and never recomputed,
// even when the motif changes later. Only Age and the presentation fields
// (X, Y, Angle, Radius) change after creation.
type Strand struct {
	ID        StrandID `json:"id"`
	Sequence  string   `json:"sequence"`
	Age       int      `json:"age"`
	GC        float64  `json:"gc"`
	Catalytic bool     `json:"catalytic"`

	// Position in the unit square, heading and orbit radius for rendering.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	Radius float64 `json:"radius"`
}

const (
	minRadius = 24.0
	maxRadius = 64.0
	stepScale = 0.003
)

// NewStrand creates a strand for seq, freezing its traits against the motif
// in p. The strand gets a random position, heading and radius.
func NewStrand(seq string, p Params, src Source) Strand {
	seq = strings.ToUpper(seq)
	return Strand{
		Sequence:  seq,
		Age:       0,
		GC:        GCFraction(seq),
		Catalytic: ContainsMotif(seq, p.CatalyticMotif),
		X:         src.Float64(),
		Y:         src.Float64(),
		Angle:     src.Float64() * 2 * math.Pi,
		Radius:    32 + src.Float64()*32,
	}
}

// ReplicationProbability is the per-tick chance this strand copies itself.
func (s Strand) ReplicationProbability(p Params) float64 {
	if s.Catalytic {
		return p.CatalyticReplicationRate
	}
	return p.BaseReplicationRate
}

// DegradationProbability is the per-tick chance this strand is destroyed.
// GC-rich strands are more stable. The value is not floored: a negative
// result means the strand never degrades.
func (s Strand) DegradationProbability(p Params) float64 {
	return p.BaseDegradationRate - s.GC*p.GCStabilityBonus
}

// Replicate returns a fresh child copied from s under p.MutationRate.
// The child has age 0 and no ID; the environment assigns one.
func (s Strand) Replicate(p Params, src Source) Strand {
	return NewStrand(Mutate(s.Sequence, p.MutationRate, src), p, src)
}

// Class returns the presentation class of the strand.
func (s Strand) Class() Class {
	switch {
	case s.Catalytic:
		return ClassCatalytic
	case s.GC > 0.65:
		return ClassGCRich
	case s.GC < 0.35:
		return ClassAURich
	default:
		return ClassBalanced
	}
}

// move advances the erratic random walk, reflecting off the square's edges.
func (s *Strand) move(src Source) {
	s.Angle += (src.Float64() - 0.5) * 0.3
	s.Radius += (src.Float64() - 0.5) * 2
	s.Radius = math.Max(minRadius, math.Min(maxRadius, s.Radius))
	s.X += math.Cos(s.Angle) * stepScale * s.Radius
	s.Y += math.Sin(s.Angle) * stepScale * s.Radius

	if s.X < 0 {
		s.X = -s.X
		s.Angle = math.Pi - s.Angle
	}
	if s.X > 1 {
		s.X = 2 - s.X
		s.Angle = math.Pi - s.Angle
	}
	if s.Y < 0 {
		s.Y = -s.Y
		s.Angle = -s.Angle
	}
	if s.Y > 1 {
		s.Y = 2 - s.Y
		s.Angle = -s.Angle
	}
}
