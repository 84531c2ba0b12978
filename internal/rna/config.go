package rna

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ParamsConfig is a partial parameter update. Nil fields leave the current
// value untouched. It is the body of params updates over HTTP and the shape
// of params files.
type ParamsConfig struct {
	Capacity                 *int     `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	SequenceLength           *int     `json:"sequence_length,omitempty" yaml:"sequence_length,omitempty"`
	MutationRate             *float64 `json:"mutation_rate,omitempty" yaml:"mutation_rate,omitempty"`
	BaseReplicationRate      *float64 `json:"base_replication_rate,omitempty" yaml:"base_replication_rate,omitempty"`
	CatalyticReplicationRate *float64 `json:"catalytic_replication_rate,omitempty" yaml:"catalytic_replication_rate,omitempty"`
	BaseDegradationRate      *float64 `json:"base_degradation_rate,omitempty" yaml:"base_degradation_rate,omitempty"`
	GCStabilityBonus         *float64 `json:"gc_stability_bonus,omitempty" yaml:"gc_stability_bonus,omitempty"`
	CatalyticMotif           *string  `json:"catalytic_motif,omitempty" yaml:"catalytic_motif,omitempty"`
}

// ApplyTo returns p with every field set in c overwritten.
func (c ParamsConfig) ApplyTo(p Params) Params {
	if c.Capacity != nil {
		p.Capacity = *c.Capacity
	}
	if c.SequenceLength != nil {
		p.SequenceLength = *c.SequenceLength
	}
	if c.MutationRate != nil {
		p.MutationRate = *c.MutationRate
	}
	if c.BaseReplicationRate != nil {
		p.BaseReplicationRate = *c.BaseReplicationRate
	}
	if c.CatalyticReplicationRate != nil {
		p.CatalyticReplicationRate = *c.CatalyticReplicationRate
	}
	if c.BaseDegradationRate != nil {
		p.BaseDegradationRate = *c.BaseDegradationRate
	}
	if c.GCStabilityBonus != nil {
		p.GCStabilityBonus = *c.GCStabilityBonus
	}
	if c.CatalyticMotif != nil {
		p.CatalyticMotif = NormalizeMotif(*c.CatalyticMotif)
	}
	return p
}

// ConfigFromParams returns a config with every field set from p.
func ConfigFromParams(p Params) ParamsConfig {
	return ParamsConfig{
		Capacity:                 &p.Capacity,
		SequenceLength:           &p.SequenceLength,
		MutationRate:             &p.MutationRate,
		BaseReplicationRate:      &p.BaseReplicationRate,
		CatalyticReplicationRate: &p.CatalyticReplicationRate,
		BaseDegradationRate:      &p.BaseDegradationRate,
		GCStabilityBonus:         &p.GCStabilityBonus,
		CatalyticMotif:           &p.CatalyticMotif,
	}
}

// LoadParamsFile loads parameters from a YAML file layered over the embedded
// defaults. If path is empty, only the defaults are used.
func LoadParamsFile(path string) (Params, error) {
	var p Params
	if err := yaml.Unmarshal(defaultsYAML, &p); err != nil {
		return Params{}, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Params{}, fmt.Errorf("reading params file: %w", err)
		}
		// Only keys present in the file overwrite the defaults.
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Params{}, fmt.Errorf("parsing params file: %w", err)
		}
	}

	p.CatalyticMotif = NormalizeMotif(p.CatalyticMotif)
	if err := ValidateParams(p); err != nil {
		return Params{}, fmt.Errorf("validating params file: %w", err)
	}
	return p, nil
}

// WriteYAML writes the parameters to a YAML file.
func (p Params) WriteYAML(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing params file: %w", err)
	}
	return nil
}
