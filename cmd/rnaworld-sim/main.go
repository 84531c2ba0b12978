package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/daniacca/rnaworld/internal/rna"
)

func main() {
	var (
		paramsFile  = flag.String("params-file", "", "YAML params file layered over the defaults (optional)")
		ticks       = flag.Int("ticks", 1000, "number of ticks to run")
		every       = flag.Int("every", 100, "record stats every N ticks")
		seed        = flag.Int64("seed", 0, "random seed; 0 seeds from the clock")
		csvPath     = flag.String("csv", "", "write stats rows as CSV to this file, or - for stdout")
		writeParams = flag.String("write-params", "", "write the effective params as YAML to this file")
		envID       = flag.String("env-id", "simulation", "environment ID")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(simOptions{
		paramsFile:  *paramsFile,
		ticks:       *ticks,
		every:       *every,
		seed:        *seed,
		csvPath:     *csvPath,
		writeParams: *writeParams,
		envID:       *envID,
	}, os.Stdout); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

type simOptions struct {
	paramsFile  string
	ticks       int
	every       int
	seed        int64
	csvPath     string
	writeParams string
	envID       string
}

// run drives one headless simulation and prints a summary to out.
func run(opts simOptions, out io.Writer) error {
	if opts.ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", opts.ticks)
	}
	if opts.every < 1 {
		opts.every = 1
	}

	params, err := rna.LoadParamsFile(opts.paramsFile)
	if err != nil {
		return err
	}
	if opts.writeParams != "" {
		if err := params.WriteYAML(opts.writeParams); err != nil {
			return err
		}
	}

	var rows *statsWriter
	switch opts.csvPath {
	case "":
	case "-":
		rows = newStatsWriter(out)
	default:
		f, err := os.Create(opts.csvPath)
		if err != nil {
			return fmt.Errorf("creating csv file: %w", err)
		}
		defer f.Close()
		rows = newStatsWriter(f)
	}

	env := rna.NewEnvironment(rna.NewParamStore(params))
	env.SetEnvironmentID(rna.EnvironmentID(opts.envID))
	env.SetRandomSource(rna.NewSource(opts.seed))
	env.Reset()

	slog.Info("simulation started",
		"env_id", opts.envID,
		"ticks", opts.ticks,
		"capacity", params.Capacity,
		"sequence_length", params.SequenceLength,
		"motif", params.CatalyticMotif,
	)

	if err := rows.Write(env.Stats()); err != nil {
		return err
	}

	start := time.Now()
	peak := env.Len()
	for i := 1; i <= opts.ticks; i++ {
		env.Step()
		if n := env.Len(); n > peak {
			peak = n
		}
		extinct := env.Len() == 0
		if i%opts.every == 0 || i == opts.ticks || extinct {
			st := env.Stats()
			if err := rows.Write(st); err != nil {
				return err
			}
			slog.Debug("tick", "tick", st.Tick, "population", st.Population, "catalytic_fraction", st.CatalyticFraction)
		}
		if extinct {
			slog.Warn("population went extinct", "tick", env.Tick())
			break
		}
	}
	elapsed := time.Since(start)

	if opts.csvPath != "-" {
		printSummary(out, env.Stats(), peak, elapsed)
	}
	return nil
}

func printSummary(out io.Writer, st rna.Stats, peak int, elapsed time.Duration) {
	fmt.Fprintf(out, "Simulation finished after %s ticks in %v\n", humanize.Comma(st.Tick), elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "  population:         %s (peak %s)\n", humanize.Comma(int64(st.Population)), humanize.Comma(int64(peak)))
	fmt.Fprintf(out, "  distinct sequences: %s\n", humanize.Comma(int64(st.Distinct)))
	fmt.Fprintf(out, "  catalytic:          %.1f%%\n", st.CatalyticFraction*100)
	fmt.Fprintf(out, "  mean GC:            %.3f (sd %.3f)\n", st.MeanGC, st.StdGC)
	fmt.Fprintf(out, "  mean age:           %.1f (max %d)\n", st.MeanAge, st.MaxAge)
	if st.DominantSequence != "" {
		fmt.Fprintf(out, "  dominant:           %s x%d\n", st.DominantSequence, st.DominantCount)
	}
}
