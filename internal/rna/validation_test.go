package rna

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{}
	if err.HasIssues() {
		t.Error("Expected no issues")
	}
	if err.Error() != "invalid params: unknown validation error" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	err.Add("first")
	if err.Error() != "first" {
		t.Errorf("Expected single issue message, got %s", err.Error())
	}

	err.Add("second")
	if err.Error() != "params validation errors: first; second" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"defaults", nil, ""},
		{"capacity one", func(p *Params) { p.Capacity = 1 }, ""},
		{"zero capacity", func(p *Params) { p.Capacity = 0 }, "capacity must be at least 1"},
		{"negative capacity", func(p *Params) { p.Capacity = -1 }, "capacity"},
		{"zero length", func(p *Params) { p.SequenceLength = 0 }, "sequence_length"},
		{"mutation above one", func(p *Params) { p.MutationRate = 1.5 }, "mutation_rate"},
		{"negative replication", func(p *Params) { p.BaseReplicationRate = -0.1 }, "base_replication_rate"},
		{"catalytic above one", func(p *Params) { p.CatalyticReplicationRate = 2 }, "catalytic_replication_rate"},
		{"degradation above one", func(p *Params) { p.BaseDegradationRate = 1.01 }, "base_degradation_rate"},
		{"empty motif", func(p *Params) { p.CatalyticMotif = "" }, "catalytic_motif is required"},
		{"bad motif", func(p *Params) { p.CatalyticMotif = "GGTAG" }, "invalid symbol 'T'"},
		{"lower-case motif", func(p *Params) { p.CatalyticMotif = "ggaag" }, ""},
		{"negative bonus", func(p *Params) { p.GCStabilityBonus = -1 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParams(testParams(tt.mutate))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateParams_CollectsAllIssues(t *testing.T) {
	err := ValidateParams(testParams(func(p *Params) {
		p.Capacity = -5
		p.SequenceLength = 0
		p.MutationRate = 3
	}))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Errorf("Expected 3 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
}
