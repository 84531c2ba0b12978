package rna

import (
	"sync"
	"testing"
	"time"
)

func newTestEnvironment(p Params, seed int64) *Environment {
	env := NewEnvironment(NewParamStore(p))
	env.SetRandomSource(NewSource(seed))
	return env
}

func sequenceCounts(strands []Strand) map[string]int {
	counts := make(map[string]int)
	for _, s := range strands {
		counts[s.Sequence]++
	}
	return counts
}

func TestNewEnvironment(t *testing.T) {
	env := NewEnvironment(nil)
	if env == nil {
		t.Fatal("NewEnvironment returned nil")
	}
	if env.Len() != 0 {
		t.Errorf("Expected empty population, got %d", env.Len())
	}
	if env.Tick() != 0 {
		t.Errorf("Expected initial tick 0, got %d", env.Tick())
	}
	if env.rand == nil {
		t.Error("Expected non-nil random source")
	}
	if env.Params().Get() != DefaultParams() {
		t.Error("Expected default params for a nil store")
	}
}

func TestEnvironment_Reset(t *testing.T) {
	env := newTestEnvironment(testParams(func(p *Params) { p.SequenceLength = 9 }), 1)
	env.Reset()

	strands := env.Strands()
	if len(strands) != InitialPopulation {
		t.Fatalf("Expected %d strands, got %d", InitialPopulation, len(strands))
	}
	seen := make(map[StrandID]bool)
	for _, s := range strands {
		if len(s.Sequence) != 9 {
			t.Errorf("Expected sequence length 9, got %d", len(s.Sequence))
		}
		if s.Age != 0 {
			t.Errorf("Expected age 0, got %d", s.Age)
		}
		if s.ID == 0 || seen[s.ID] {
			t.Errorf("Expected unique non-zero ID, got %d", s.ID)
		}
		seen[s.ID] = true
	}

	for n := 0; n < 5; n++ {
		env.Step()
	}
	env.Reset()
	if env.Tick() != 0 {
		t.Errorf("Expected tick 0 after reset, got %d", env.Tick())
	}
	if env.Len() != InitialPopulation {
		t.Errorf("Expected %d strands after reset, got %d", InitialPopulation, env.Len())
	}
}

func TestEnvironment_ResetClampsSequenceLength(t *testing.T) {
	env := newTestEnvironment(testParams(func(p *Params) { p.SequenceLength = 0 }), 1)
	env.Reset()
	for _, s := range env.Strands() {
		if len(s.Sequence) != 1 {
			t.Fatalf("Expected sequence length 1, got %d", len(s.Sequence))
		}
	}
}

func TestEnvironment_SequenceLengthChangeIsInertUntilReset(t *testing.T) {
	env := newTestEnvironment(testParams(func(p *Params) { p.SequenceLength = 6 }), 2)
	env.Reset()

	env.Params().Update(func(p *Params) { p.SequenceLength = 12 })
	env.Step()
	for _, s := range env.Strands() {
		if len(s.Sequence) != 6 {
			t.Fatalf("Expected length 6 before reset, got %d", len(s.Sequence))
		}
	}

	env.Reset()
	for _, s := range env.Strands() {
		if len(s.Sequence) != 12 {
			t.Fatalf("Expected length 12 after reset, got %d", len(s.Sequence))
		}
	}
}

func TestEnvironment_StepWithHighDrawsOnlyAges(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 3)
	env.Reset()
	before := env.Strands()

	env.SetRandomSource(&fixedSource{f: 0.99})
	env.Step()
	after := env.Strands()

	if len(after) != len(before) {
		t.Fatalf("Expected population %d, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Sequence != before[i].Sequence {
			t.Errorf("Expected strand %d unchanged, got %+v", before[i].ID, after[i])
		}
		if after[i].Age != before[i].Age+1 {
			t.Errorf("Expected age %d, got %d", before[i].Age+1, after[i].Age)
		}
		if after[i].GC != before[i].GC || after[i].Catalytic != before[i].Catalytic {
			t.Errorf("Expected traits unchanged for strand %d", before[i].ID)
		}
	}
	if env.Tick() != 1 {
		t.Errorf("Expected tick 1, got %d", env.Tick())
	}
}

func TestEnvironment_ReplicationDoublesPopulation(t *testing.T) {
	p := testParams(func(p *Params) {
		p.SequenceLength = 4
		p.MutationRate = 0
		p.BaseReplicationRate = 1
		p.CatalyticReplicationRate = 1
		p.BaseDegradationRate = 0
		p.Capacity = 1000
	})
	env := newTestEnvironment(p, 4)
	env.Reset()
	before := sequenceCounts(env.Strands())

	env.Step()

	if env.Len() != 2*InitialPopulation {
		t.Fatalf("Expected population %d, got %d", 2*InitialPopulation, env.Len())
	}
	after := sequenceCounts(env.Strands())
	for seq, n := range before {
		if after[seq] != 2*n {
			t.Errorf("Expected %d copies of %s, got %d", 2*n, seq, after[seq])
		}
	}
	if len(after) != len(before) {
		t.Errorf("Expected no new sequences, got %d distinct vs %d", len(after), len(before))
	}
}

func TestEnvironment_ChildrenAgeWithParents(t *testing.T) {
	p := testParams(func(p *Params) {
		p.MutationRate = 0
		p.BaseReplicationRate = 1
		p.CatalyticReplicationRate = 1
		p.BaseDegradationRate = 0
		p.Capacity = 1000
	})
	env := newTestEnvironment(p, 5)
	env.Reset()
	env.Step()

	ages := make(map[int]int)
	for _, s := range env.Strands() {
		ages[s.Age]++
	}
	if ages[1] != 2*InitialPopulation {
		t.Errorf("Expected every parent and child at age 1, got %v", ages)
	}
}

func TestEnvironment_FullDegradationEmptiesPopulation(t *testing.T) {
	p := testParams(func(p *Params) {
		p.BaseReplicationRate = 0
		p.CatalyticReplicationRate = 0
		p.BaseDegradationRate = 1
		p.GCStabilityBonus = 0
	})
	env := newTestEnvironment(p, 6)
	env.Reset()
	env.Step()

	if env.Len() != 0 {
		t.Errorf("Expected empty population, got %d", env.Len())
	}
}

func TestEnvironment_ChildrenAreSubjectToDegradation(t *testing.T) {
	p := testParams(func(p *Params) {
		p.BaseReplicationRate = 1
		p.CatalyticReplicationRate = 1
		p.BaseDegradationRate = 1
		p.GCStabilityBonus = 0
		p.Capacity = 1000
	})
	env := newTestEnvironment(p, 7)
	env.Reset()
	env.Step()

	if env.Len() != 0 {
		t.Errorf("Expected parents and children to degrade, got %d", env.Len())
	}
}

func TestEnvironment_NegativeDegradationNeverDegrades(t *testing.T) {
	p := testParams(func(p *Params) {
		p.BaseReplicationRate = 0
		p.CatalyticReplicationRate = 0
		p.BaseDegradationRate = 0.01
		p.GCStabilityBonus = 10
	})
	env := newTestEnvironment(p, 8)
	for n := 0; n < 10; n++ {
		env.Insert("GGGGCCCC")
	}
	// A zero draw is the most favorable one for degradation.
	env.SetRandomSource(&fixedSource{f: 0})
	env.Step()

	if env.Len() != 10 {
		t.Errorf("Expected all GC-rich strands to survive, got %d", env.Len())
	}
}

func TestEnvironment_CapacityCulling(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"below pool", 10, 10},
		{"equal to pool", 2 * InitialPopulation, 2 * InitialPopulation},
		{"above pool", 1000, 2 * InitialPopulation},
		{"zero", 0, 0},
		{"negative", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams(func(p *Params) {
				p.BaseReplicationRate = 1
				p.CatalyticReplicationRate = 1
				p.BaseDegradationRate = 0
				p.GCStabilityBonus = 0
				p.Capacity = tt.capacity
			})
			env := newTestEnvironment(p, 9)
			env.Reset()
			env.Step()

			if env.Len() != tt.want {
				t.Errorf("Expected population %d, got %d", tt.want, env.Len())
			}
		})
	}
}

func TestEnvironment_CullingIsUniform(t *testing.T) {
	// Parents and children compete equally: over many runs, roughly half of
	// the survivors should be children.
	p := testParams(func(p *Params) {
		p.MutationRate = 0
		p.BaseReplicationRate = 1
		p.CatalyticReplicationRate = 1
		p.BaseDegradationRate = 0
		p.GCStabilityBonus = 0
		p.Capacity = InitialPopulation
	})

	children := 0
	total := 0
	for seed := int64(1); seed <= 50; seed++ {
		env := newTestEnvironment(p, seed)
		env.Reset()
		env.Step()
		for _, s := range env.Strands() {
			if s.ID > InitialPopulation {
				children++
			}
			total++
		}
	}

	frac := float64(children) / float64(total)
	if frac < 0.4 || frac > 0.6 {
		t.Errorf("Expected about half of the survivors to be children, got %.3f", frac)
	}
}

func TestEnvironment_TickCounter(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 10)
	env.Reset()
	for n := 0; n < 25; n++ {
		env.Step()
	}
	if env.Tick() != 25 {
		t.Errorf("Expected tick 25, got %d", env.Tick())
	}
}

func TestEnvironment_EmptyPopulationStep(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 11)
	env.Step()
	env.Step()

	if env.Len() != 0 {
		t.Errorf("Expected empty population, got %d", env.Len())
	}
	if env.Tick() != 2 {
		t.Errorf("Expected tick 2, got %d", env.Tick())
	}
	st := env.Stats()
	if st.Population != 0 || st.CatalyticFraction != 0 {
		t.Errorf("Expected zero stats, got %+v", st)
	}
}

func TestEnvironment_MotifChangeKeepsExistingTraits(t *testing.T) {
	env := newTestEnvironment(testParams(func(p *Params) { p.CatalyticMotif = "GGAAG" }), 12)
	s := env.Insert("AAGGAAGUU")
	if !s.Catalytic {
		t.Fatal("Expected inserted strand to be catalytic")
	}

	env.Params().Update(func(p *Params) { p.CatalyticMotif = "CCCCC" })
	env.SetRandomSource(&fixedSource{f: 0.99})
	env.Step()

	strands := env.Strands()
	if len(strands) != 1 || !strands[0].Catalytic {
		t.Errorf("Expected the strand to stay catalytic, got %+v", strands)
	}
}

func TestEnvironment_Insert(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 13)
	a := env.Insert("auGC")
	b := env.Insert("GGAAG")

	if a.Sequence != "AUGC" {
		t.Errorf("Expected AUGC, got %s", a.Sequence)
	}
	if a.ID == 0 || a.ID == b.ID {
		t.Errorf("Expected distinct IDs, got %d and %d", a.ID, b.ID)
	}
	if !b.Catalytic {
		t.Error("Expected GGAAG to be catalytic")
	}
	if env.Len() != 2 {
		t.Errorf("Expected 2 strands, got %d", env.Len())
	}
}

func TestEnvironment_StrandsReturnsCopy(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 14)
	env.Reset()

	strands := env.Strands()
	strands[0].Age = 999
	if env.Strands()[0].Age == 999 {
		t.Error("Expected Strands to return a copy")
	}
}

func TestEnvironment_FrameIsConsistent(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 15)
	env.SetEnvironmentID("frame-env")
	env.Reset()
	env.Step()

	frame := env.Frame()
	if frame.EnvironmentID != "frame-env" {
		t.Errorf("Expected env ID frame-env, got %s", frame.EnvironmentID)
	}
	if frame.Tick != 1 || frame.Stats.Tick != 1 {
		t.Errorf("Expected tick 1, got frame=%d stats=%d", frame.Tick, frame.Stats.Tick)
	}
	if frame.Stats.Population != len(frame.Strands) {
		t.Errorf("Expected stats population %d, got %d", len(frame.Strands), frame.Stats.Population)
	}
	if err := ValidateFrame(frame); err != nil {
		t.Errorf("Expected valid frame, got %v", err)
	}
}

func TestEnvironment_ReadersNeverSeePartialTicks(t *testing.T) {
	p := testParams(func(p *Params) {
		p.BaseReplicationRate = 1
		p.CatalyticReplicationRate = 1
		p.BaseDegradationRate = 0
		p.GCStabilityBonus = 0
		p.Capacity = 50
	})
	env := newTestEnvironment(p, 16)
	env.Reset()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for n := 0; n < 4; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				frame := env.Frame()
				if len(frame.Strands) > 50 {
					t.Errorf("Observed population %d above capacity", len(frame.Strands))
					return
				}
				if frame.Stats.Population != len(frame.Strands) || frame.Stats.Tick != frame.Tick {
					t.Errorf("Observed inconsistent frame at tick %d", frame.Tick)
					return
				}
			}
		}()
	}

	for n := 0; n < 200; n++ {
		env.Step()
	}
	close(done)
	wg.Wait()
}

func TestEnvironment_NotifiesAfterTick(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	notifier := &mockNotifier{id: "mock"}
	if err := mgr.RegisterNotifier(notifier); err != nil {
		t.Fatalf("Failed to register notifier: %v", err)
	}

	env := newTestEnvironment(DefaultParams(), 17)
	env.SetEnvironmentID("notify-env")
	env.SetNotificationManager(mgr)
	env.SetNotificationConfig(NotificationConfig{
		Enabled:        true,
		Notifiers:      []string{"mock"},
		EveryNTicks:    2,
		IncludeStrands: true,
	})
	env.Reset()

	for n := 0; n < 4; n++ {
		env.Step()
	}

	deadline := time.Now().Add(2 * time.Second)
	for notifier.getNotifyCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := notifier.getNotifyCount(); got != 2 {
		t.Fatalf("Expected 2 notifications for ticks 2 and 4, got %d", got)
	}

	events := notifier.getEvents()
	if events[0].Tick != 2 || events[1].Tick != 4 {
		t.Errorf("Expected ticks 2 and 4, got %d and %d", events[0].Tick, events[1].Tick)
	}
	if events[0].EnvironmentID != "notify-env" {
		t.Errorf("Expected env ID notify-env, got %s", events[0].EnvironmentID)
	}
	if len(events[1].Strands) != events[1].Stats.Population {
		t.Errorf("Expected %d strands in event, got %d", events[1].Stats.Population, len(events[1].Strands))
	}
}

func TestEnvironment_NoNotificationWhenDisabled(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()
	notifier := &mockNotifier{id: "mock"}
	_ = mgr.RegisterNotifier(notifier)

	env := newTestEnvironment(DefaultParams(), 18)
	env.SetNotificationManager(mgr)
	env.SetNotificationConfig(NotificationConfig{Enabled: false, Notifiers: []string{"mock"}})
	env.Reset()
	env.Step()

	time.Sleep(50 * time.Millisecond)
	if got := notifier.getNotifyCount(); got != 0 {
		t.Errorf("Expected no notifications, got %d", got)
	}
}

func waitForTick(env *Environment, atLeast int64, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if env.Tick() >= atLeast {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func TestEnvironment_RunAndStop(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 19)
	env.Reset()

	if env.IsRunning() {
		t.Error("Expected environment not to run before Run")
	}

	env.Run(time.Millisecond)
	if !env.IsRunning() {
		t.Error("Expected environment to be running")
	}
	if !waitForTick(env, 3, 2*time.Second) {
		t.Fatalf("Expected at least 3 ticks, got %d", env.Tick())
	}

	env.Stop()
	if env.IsRunning() {
		t.Error("Expected environment to be paused")
	}
	// Let an in-flight step finish, then verify nothing else runs.
	time.Sleep(20 * time.Millisecond)
	paused := env.Tick()
	time.Sleep(30 * time.Millisecond)
	if env.Tick() != paused {
		t.Errorf("Expected no ticks while paused, got %d then %d", paused, env.Tick())
	}

	env.Resume()
	if !waitForTick(env, paused+2, 2*time.Second) {
		t.Errorf("Expected ticks to continue after Resume, got %d", env.Tick())
	}
	env.Close()
}

func TestEnvironment_ResetResumesRunningSchedule(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 20)
	env.Reset()
	env.Run(time.Millisecond)
	env.Stop()

	env.Reset()
	if !env.IsRunning() {
		t.Error("Expected reset to resume a started environment")
	}
	if !waitForTick(env, 2, 2*time.Second) {
		t.Errorf("Expected ticks after reset, got %d", env.Tick())
	}
	env.Close()
}

func TestEnvironment_ResetDoesNotStartHeadless(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 21)
	env.Reset()
	if env.IsRunning() {
		t.Error("Expected a never-started environment to stay idle after reset")
	}
	time.Sleep(10 * time.Millisecond)
	if env.Tick() != 0 {
		t.Errorf("Expected no ticks, got %d", env.Tick())
	}
}

func TestEnvironment_SpeedBeforeRun(t *testing.T) {
	env := newTestEnvironment(DefaultParams(), 22)
	env.SetSpeed(2)
	if env.Speed() != 2 {
		t.Errorf("Expected speed 2, got %v", env.Speed())
	}
	if env.IsRunning() {
		t.Error("Expected SetSpeed not to start the environment")
	}
}
