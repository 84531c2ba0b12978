package rna

import (
	"fmt"
	"sort"
	"sync"
)

// EnvironmentID is a unique identifier for an environment
type EnvironmentID string

// EnvironmentManager manages multiple environments, each isolated from others
type EnvironmentManager struct {
	mu           sync.RWMutex
	environments map[EnvironmentID]*Environment
	logger       Logger
}

// NewEnvironmentManager creates a new environment manager
func NewEnvironmentManager() *EnvironmentManager {
	return NewEnvironmentManagerWithLogger(NewNoOpLogger())
}

// NewEnvironmentManagerWithLogger creates a manager whose environments log
// to logger.
func NewEnvironmentManagerWithLogger(logger Logger) *EnvironmentManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &EnvironmentManager{
		environments: make(map[EnvironmentID]*Environment),
		logger:       logger,
	}
}

// CreateEnvironment creates and resets a new environment with its own
// parameter store. An empty id gets a generated one. Returns an error if an
// environment with that ID already exists.
func (em *EnvironmentManager) CreateEnvironment(id EnvironmentID, params Params) (*Environment, error) {
	if id == "" {
		id = EnvironmentID(NewRandomID())
	}

	em.mu.Lock()
	defer em.mu.Unlock()

	if _, exists := em.environments[id]; exists {
		return nil, fmt.Errorf("environment with id %s already exists", id)
	}

	env := NewEnvironment(NewParamStore(params))
	env.SetEnvironmentID(id)
	env.SetLogger(em.logger)
	env.Reset()

	em.environments[id] = env
	return env, nil
}

// GetEnvironment retrieves an environment by ID
// Returns the environment and a boolean indicating if it was found
func (em *EnvironmentManager) GetEnvironment(id EnvironmentID) (*Environment, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()

	env, exists := em.environments[id]
	return env, exists
}

// DeleteEnvironment stops and removes an environment by ID
// Returns an error if the environment doesn't exist
func (em *EnvironmentManager) DeleteEnvironment(id EnvironmentID) error {
	em.mu.Lock()
	env, exists := em.environments[id]
	if exists {
		delete(em.environments, id)
	}
	em.mu.Unlock()

	if !exists {
		return fmt.Errorf("environment with id %s does not exist", id)
	}

	env.Close()
	return nil
}

// ListEnvironments returns all environment IDs in lexical order
func (em *EnvironmentManager) ListEnvironments() []EnvironmentID {
	em.mu.RLock()
	defer em.mu.RUnlock()

	ids := make([]EnvironmentID, 0, len(em.environments))
	for id := range em.environments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UpdateEnvironmentParams merges cfg into the parameters of an existing
// environment. Invalid results are rejected and leave the parameters as they
// were. Existing strands keep their traits; sequence length and motif changes
// show up in strands created afterwards.
func (em *EnvironmentManager) UpdateEnvironmentParams(id EnvironmentID, cfg ParamsConfig) (Params, error) {
	em.mu.RLock()
	env, exists := em.environments[id]
	em.mu.RUnlock()

	if !exists {
		return Params{}, fmt.Errorf("environment with id %s does not exist", id)
	}

	return env.Params().TryApply(cfg)
}

// Close stops every environment.
func (em *EnvironmentManager) Close() {
	em.mu.Lock()
	defer em.mu.Unlock()
	for id, env := range em.environments {
		env.Close()
		delete(em.environments, id)
	}
}
