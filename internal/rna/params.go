package rna

import "sync"

// Params holds the tunable rates and sizes that drive the population.
// A Params value is an immutable snapshot; the engine reads one per tick.
type Params struct {
	Capacity                 int     `json:"capacity" yaml:"capacity"`
	SequenceLength           int     `json:"sequence_length" yaml:"sequence_length"`
	MutationRate             float64 `json:"mutation_rate" yaml:"mutation_rate"`
	BaseReplicationRate      float64 `json:"base_replication_rate" yaml:"base_replication_rate"`
	CatalyticReplicationRate float64 `json:"catalytic_replication_rate" yaml:"catalytic_replication_rate"`
	BaseDegradationRate      float64 `json:"base_degradation_rate" yaml:"base_degradation_rate"`
	GCStabilityBonus         float64 `json:"gc_stability_bonus" yaml:"gc_stability_bonus"`
	CatalyticMotif           string  `json:"catalytic_motif" yaml:"catalytic_motif"`
}

// DefaultParams returns the stock parameter set.
func DefaultParams() Params {
	return Params{
		Capacity:                 120,
		SequenceLength:           18,
		MutationRate:             0.03,
		BaseReplicationRate:      0.12,
		CatalyticReplicationRate: 0.28,
		BaseDegradationRate:      0.04,
		GCStabilityBonus:         0.02,
		CatalyticMotif:           "GGAAG",
	}
}

// ParamStore is the mutable home of the current Params. User input writes
// it at any time; the engine reads a snapshot with Get.
type ParamStore struct {
	mu     sync.RWMutex
	params Params
}

// NewParamStore creates a store holding p (motif normalized).
func NewParamStore(p Params) *ParamStore {
	p.CatalyticMotif = NormalizeMotif(p.CatalyticMotif)
	return &ParamStore{params: p}
}

// Get returns a snapshot of the current parameters.
func (s *ParamStore) Get() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Set replaces all parameters.
func (s *ParamStore) Set(p Params) {
	p.CatalyticMotif = NormalizeMotif(p.CatalyticMotif)
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()
}

// Update applies fn to a copy of the current parameters and stores the result.
func (s *ParamStore) Update(fn func(*Params)) Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.params
	fn(&p)
	p.CatalyticMotif = NormalizeMotif(p.CatalyticMotif)
	s.params = p
	return p
}

// Apply merges the fields set in cfg into the current parameters.
func (s *ParamStore) Apply(cfg ParamsConfig) Params {
	return s.Update(func(p *Params) {
		*p = cfg.ApplyTo(*p)
	})
}

// TryApply merges cfg like Apply but leaves the store untouched if the
// merged parameters fail ValidateParams.
func (s *ParamStore) TryApply(cfg ParamsConfig) (Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := cfg.ApplyTo(s.params)
	p.CatalyticMotif = NormalizeMotif(p.CatalyticMotif)
	if err := ValidateParams(p); err != nil {
		return s.params, err
	}
	s.params = p
	return p, nil
}
