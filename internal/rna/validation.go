package rna

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid params: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "params validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateParams checks that p is inside the domain the engine is tuned for.
// The engine itself tolerates invalid values; callers taking user input
// should reject them.
func ValidateParams(p Params) error {
	err := &ValidationError{}

	if p.Capacity < 1 {
		err.Add(fmt.Sprintf("capacity must be at least 1, got %d", p.Capacity))
	}
	if p.SequenceLength < 1 {
		err.Add(fmt.Sprintf("sequence_length must be at least 1, got %d", p.SequenceLength))
	}

	validateRate(err, "mutation_rate", p.MutationRate)
	validateRate(err, "base_replication_rate", p.BaseReplicationRate)
	validateRate(err, "catalytic_replication_rate", p.CatalyticReplicationRate)
	validateRate(err, "base_degradation_rate", p.BaseDegradationRate)

	motif := NormalizeMotif(p.CatalyticMotif)
	if motif == "" {
		err.Add("catalytic_motif is required")
	}
	for i := 0; i < len(motif); i++ {
		if !IsNucleotide(motif[i]) {
			err.Add(fmt.Sprintf("catalytic_motif has invalid symbol '%c' at index %d, must be one of %s", motif[i], i, Alphabet))
			break
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateRate(err *ValidationError, name string, v float64) {
	if v < 0 || v > 1 {
		err.Add(fmt.Sprintf("%s must be in [0, 1], got %g", name, v))
	}
}
