package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestScenariosRegistered(t *testing.T) {
	names := scenarioNames()
	want := []string{"error-catastrophe", "gc-selection", "motif-takeover"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Expected scenarios %v, got %v", want, names)
	}
}

func TestRunScenario(t *testing.T) {
	for _, name := range scenarioNames() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			st := runScenario(&out, scenarios[name], 60, 20, 5)

			if !strings.HasPrefix(out.String(), name+":") {
				t.Errorf("Expected output to start with the scenario name, got %q", out.String())
			}
			if !strings.Contains(out.String(), "final:") {
				t.Error("Expected a final line")
			}
			if st.Population > scenarios[name].params.Capacity {
				t.Errorf("Population %d above capacity", st.Population)
			}
		})
	}
}

func TestMotifTakeover_SeedsCatalyticStrands(t *testing.T) {
	var out bytes.Buffer
	st := runScenario(&out, scenarios["motif-takeover"], 0, 1, 1)
	if st.CatalyticCount < 4 {
		t.Errorf("Expected at least 4 catalytic strands after seeding, got %d", st.CatalyticCount)
	}
}
