package rna

import (
	"sync"
	"time"
)

// InitialPopulation is the number of random strands created by Reset.
const InitialPopulation = 32

// Environment is a single culture of strands evolving tick by tick.
//
// Step and Reset are the only writers and are serialized by stepMu. They
// build the next population in fresh slices and publish it under mu once all
// phases are complete, so readers never observe a half-finished tick.
type Environment struct {
	stepMu sync.Mutex // serializes Step and Reset
	rand   Source     // only used while holding stepMu
	nextID StrandID

	mu      sync.RWMutex
	id      EnvironmentID
	params  *ParamStore
	strands []Strand // published; never mutated after publish
	tick    int64

	logger       Logger
	notifier     *NotificationManager
	notifyConfig NotificationConfig

	schedMu sync.Mutex
	sched   *Scheduler
	started bool
}

// NewEnvironment creates an empty environment reading params from store.
// Call Reset to seed the initial population.
func NewEnvironment(store *ParamStore) *Environment {
	if store == nil {
		store = NewParamStore(DefaultParams())
	}
	return &Environment{
		params: store,
		rand:   NewSource(0),
		logger: NewNoOpLogger(),
	}
}

// SetRandomSource replaces the random stream used by the engine.
func (e *Environment) SetRandomSource(src Source) {
	e.stepMu.Lock()
	defer e.stepMu.Unlock()
	e.rand = src
}

// SetEnvironmentID sets the ID reported in tick events and frames.
func (e *Environment) SetEnvironmentID(id EnvironmentID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.id = id
}

// ID returns the environment ID.
func (e *Environment) ID() EnvironmentID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.id
}

// SetLogger sets the logger used for lifecycle messages.
func (e *Environment) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// SetNotificationManager sets the manager tick events are enqueued on.
func (e *Environment) SetNotificationManager(mgr *NotificationManager) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = mgr
}

// SetNotificationConfig selects which notifiers receive tick events.
func (e *Environment) SetNotificationConfig(cfg NotificationConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifyConfig = cfg
}

// NotificationConfig returns the current notification settings.
func (e *Environment) NotificationConfig() NotificationConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.notifyConfig
}

// Params returns the parameter store backing this environment.
func (e *Environment) Params() *ParamStore {
	return e.params
}

// Reset clears the population and tick counter and seeds InitialPopulation
// random strands of the configured sequence length. If the environment has
// been started, the schedule resumes with exactly one tick pending.
func (e *Environment) Reset() {
	e.stepMu.Lock()
	p := e.params.Get()
	length := p.SequenceLength
	if length < 1 {
		length = 1
	}

	strands := make([]Strand, 0, InitialPopulation)
	for i := 0; i < InitialPopulation; i++ {
		strands = append(strands, e.newStrand(RandomSequence(length, e.rand), p))
	}

	e.mu.Lock()
	e.strands = strands
	e.tick = 0
	logger := e.logger
	id := e.id
	e.mu.Unlock()
	e.stepMu.Unlock()

	logger.Infof("Environment reset: env_id=%s population=%d sequence_length=%d", id, len(strands), length)

	if sched := e.scheduler(); sched != nil {
		sched.Resume()
	}
}

// Insert adds a strand built from seq with the current parameters.
func (e *Environment) Insert(seq string) Strand {
	e.stepMu.Lock()
	defer e.stepMu.Unlock()

	s := e.newStrand(seq, e.params.Get())

	e.mu.Lock()
	next := make([]Strand, len(e.strands), len(e.strands)+1)
	copy(next, e.strands)
	e.strands = append(next, s)
	e.mu.Unlock()
	return s
}

// newStrand builds a strand and assigns it the next ID. Caller holds stepMu.
func (e *Environment) newStrand(seq string, p Params) Strand {
	s := NewStrand(seq, p, e.rand)
	e.nextID++
	s.ID = e.nextID
	return s
}

// Step advances the population by one tick: replication, degradation,
// capacity culling, then aging. All phases read one Params snapshot.
func (e *Environment) Step() {
	e.stepMu.Lock()

	p := e.params.Get()
	e.mu.RLock()
	current := e.strands
	e.mu.RUnlock()

	pool := e.replicate(current, p)
	pool = e.degrade(pool, p)
	pool = e.cull(pool, p.Capacity)
	e.age(pool)

	e.mu.Lock()
	e.strands = pool
	e.tick++
	tick := e.tick
	id := e.id
	notifier := e.notifier
	cfg := e.notifyConfig
	e.mu.Unlock()
	e.stepMu.Unlock()

	if notifier != nil && cfg.due(tick) {
		var strands []Strand
		if cfg.IncludeStrands {
			strands = pool
		}
		notifier.Enqueue(NewTickEvent(id, ComputeStats(pool, tick), strands), cfg.Notifiers)
	}
}

// replicate returns parents followed by the children they produced. Only
// parents in the pre-phase snapshot get a draw.
func (e *Environment) replicate(parents []Strand, p Params) []Strand {
	pool := make([]Strand, len(parents), len(parents)*2)
	copy(pool, parents)
	for _, s := range parents {
		if e.rand.Float64() < s.ReplicationProbability(p) {
			child := s.Replicate(p, e.rand)
			e.nextID++
			child.ID = e.nextID
			pool = append(pool, child)
		}
	}
	return pool
}

// degrade keeps the strands whose draw is not below their degradation
// probability.
func (e *Environment) degrade(pool []Strand, p Params) []Strand {
	survivors := make([]Strand, 0, len(pool))
	for _, s := range pool {
		if e.rand.Float64() < s.DegradationProbability(p) {
			continue
		}
		survivors = append(survivors, s)
	}
	return survivors
}

// cull keeps a uniformly random subset of capacity strands when the pool is
// over capacity. A negative capacity empties the pool.
func (e *Environment) cull(pool []Strand, capacity int) []Strand {
	if capacity < 0 {
		capacity = 0
	}
	if len(pool) <= capacity {
		return pool
	}
	shuffled := make([]Strand, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := e.rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:capacity]
}

// age increments every survivor's age and moves it. pool is not yet
// published, so it is updated in place.
func (e *Environment) age(pool []Strand) {
	for i := range pool {
		pool[i].Age++
		pool[i].move(e.rand)
	}
}

// Strands returns a copy of the current population.
func (e *Environment) Strands() []Strand {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Strand, len(e.strands))
	copy(out, e.strands)
	return out
}

// Len returns the current population size.
func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.strands)
}

// Tick returns the number of completed ticks since the last reset.
func (e *Environment) Tick() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tick
}

// Stats computes population statistics for the current published state.
func (e *Environment) Stats() Stats {
	e.mu.RLock()
	strands, tick := e.strands, e.tick
	e.mu.RUnlock()
	return ComputeStats(strands, tick)
}

// Frame returns the renderer view of the current published state.
func (e *Environment) Frame() Frame {
	e.mu.RLock()
	strands, tick, id := e.strands, e.tick, e.id
	e.mu.RUnlock()

	out := make([]Strand, len(strands))
	copy(out, strands)
	return Frame{
		EnvironmentID: id,
		Tick:          tick,
		Params:        e.params.Get(),
		Stats:         ComputeStats(strands, tick),
		Strands:       out,
	}
}

func (e *Environment) log() Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.logger
}

// scheduler returns the scheduler if Run has been called.
func (e *Environment) scheduler() *Scheduler {
	e.schedMu.Lock()
	defer e.schedMu.Unlock()
	if !e.started {
		return nil
	}
	return e.sched
}

// ensureScheduler returns the scheduler, creating a paused one if needed.
func (e *Environment) ensureScheduler() *Scheduler {
	e.schedMu.Lock()
	defer e.schedMu.Unlock()
	if e.sched == nil {
		e.sched = NewScheduler(e.Step, DefaultTickInterval)
	}
	return e.sched
}

// Run starts ticking every interval, scaled by the speed multiplier. It can
// be called again after Stop; a positive interval replaces the old one.
func (e *Environment) Run(interval time.Duration) {
	sched := e.ensureScheduler()
	if interval > 0 {
		sched.SetBase(interval)
	}
	e.schedMu.Lock()
	e.started = true
	e.schedMu.Unlock()

	sched.Start()
	e.log().Debugf("Environment running: env_id=%s interval=%v", e.ID(), sched.Interval())
}

// Stop pauses the environment. No tick is scheduled until Resume or Run.
func (e *Environment) Stop() {
	if sched := e.scheduler(); sched != nil {
		sched.Pause()
	}
}

// Resume restarts a paused environment. It does nothing if Run was never
// called.
func (e *Environment) Resume() {
	if sched := e.scheduler(); sched != nil {
		sched.Resume()
	}
}

// SetSpeed changes the speed multiplier and reschedules the pending tick.
// Before Run it only records the speed.
func (e *Environment) SetSpeed(speed float64) {
	e.ensureScheduler().SetSpeed(speed)
}

// Speed returns the speed multiplier.
func (e *Environment) Speed() float64 {
	return e.ensureScheduler().Speed()
}

// IsRunning reports whether ticks are being scheduled.
func (e *Environment) IsRunning() bool {
	if sched := e.scheduler(); sched != nil {
		return sched.Running()
	}
	return false
}

// Close stops the environment's scheduler permanently.
func (e *Environment) Close() {
	e.schedMu.Lock()
	sched := e.sched
	e.schedMu.Unlock()
	if sched != nil {
		sched.Close()
	}
}
