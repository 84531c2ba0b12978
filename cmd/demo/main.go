package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/daniacca/rnaworld/internal/rna"
)

// scenario is a canned experiment: parameters, an optional seeding step and
// the metric to chart.
type scenario struct {
	name        string
	description string
	params      rna.Params
	seed        func(env *rna.Environment, src rna.Source)
	metric      func(st rna.Stats) float64
	metricName  string
}

var scenarios = map[string]scenario{}

func register(s scenario) {
	scenarios[s.name] = s
}

func main() {
	var (
		name  = flag.String("scenario", "motif-takeover", "scenario to run: "+strings.Join(scenarioNames(), ", "))
		ticks = flag.Int("ticks", 400, "number of ticks to run")
		every = flag.Int("every", 20, "print a line every N ticks")
		seed  = flag.Int64("seed", 1, "random seed")
	)
	flag.Parse()

	s, ok := scenarios[*name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *name)
		flag.Usage()
		os.Exit(1)
	}

	runScenario(os.Stdout, s, *ticks, *every, *seed)
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runScenario runs s and charts its metric. It returns the final stats.
func runScenario(out io.Writer, s scenario, ticks, every int, seed int64) rna.Stats {
	if every < 1 {
		every = 1
	}

	src := rna.NewSource(seed)
	env := rna.NewEnvironment(rna.NewParamStore(s.params))
	env.SetEnvironmentID(rna.EnvironmentID(s.name))
	env.SetRandomSource(src)
	env.Reset()
	if s.seed != nil {
		s.seed(env, rna.NewSource(seed+1))
	}

	fmt.Fprintf(out, "%s: %s\n", s.name, s.description)
	fmt.Fprintf(out, "%6s  %6s  %-8s\n", "tick", "pop", s.metricName)

	st := env.Stats()
	printRow(out, st, s.metric(st))
	for i := 1; i <= ticks; i++ {
		env.Step()
		if i%every == 0 {
			st = env.Stats()
			printRow(out, st, s.metric(st))
		}
		if env.Len() == 0 {
			fmt.Fprintf(out, "extinct at tick %d\n", env.Tick())
			break
		}
	}

	st = env.Stats()
	fmt.Fprintf(out, "final: %s strands, %s distinct, dominant %s x%d\n",
		humanize.Comma(int64(st.Population)), humanize.Comma(int64(st.Distinct)), st.DominantSequence, st.DominantCount)
	return st
}

func printRow(out io.Writer, st rna.Stats, v float64) {
	width := int(v*40 + 0.5)
	if width < 0 {
		width = 0
	}
	if width > 40 {
		width = 40
	}
	fmt.Fprintf(out, "%6d  %6d  %.3f  %s\n", st.Tick, st.Population, v, strings.Repeat("#", width))
}
