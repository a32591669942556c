package generation

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phamminh1998/GBM-Frontier-Market/internal/calendar"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/domain/models"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/exporter"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/logger"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/simulation"
)

// Options controls a batch run over a list of symbols.
//
// Fields:
//   - Symbols: tickers to simulate; each produces one output file.
//   - Seed: base seed. The per-symbol seed is derived from it and the
//     symbol name, so a symbol's output does not depend on which other
//     symbols share the batch or in what order they appear.
//   - Parallel: max symbols processed concurrently. 0 means NumCPU.
//   - Force: regenerate symbols whose output file already exists.
//   - Progress: render a progress bar across symbols on stderr.
type Options struct {
	Symbols  []string
	Seed     uint64
	Parallel int
	Force    bool
	Progress bool
}

// Run simulates and exports one table per symbol.
//
// Behavior:
//   - Validates the config and fails the whole batch before starting any
//     worker when the range holds no business day; no file is written then.
//   - Workers run under an errgroup: the first error cancels the siblings
//     and is returned from Run.
//   - Symbols with existing output are skipped unless force is set.
//
// Returns:
//   - error: first error encountered (if any).
func Run(ctx context.Context, cfg models.SimulationConfig, writer exporter.TableWriter, opts Options) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(opts.Symbols) == 0 {
		return errors.New("no symbols to simulate")
	}

	// Validate the date index upfront: a weekend-only range must fail the
	// batch as a whole, before any worker or output file exists.
	dates, err := calendar.BusinessDays(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return fmt.Errorf("building date index: %w", err)
	}
	if len(dates) == 0 {
		return fmt.Errorf("%s to %s: %w",
			cfg.StartDate.Format(calendar.DateLayout),
			cfg.EndDate.Format(calendar.DateLayout),
			simulation.ErrEmptyDateIndex,
		)
	}

	runID := uuid.NewString()
	log := logger.C("generation").With().Str("run_id", runID).Logger()
	log.Info().
		Int("symbols", len(opts.Symbols)).
		Int("steps", len(dates)).
		Int("paths", cfg.NumSims).
		Uint64("seed", opts.Seed).
		Msg("generation start")

	// Concurrency: paths are simulated on the CPU, so default to NumCPU
	// and never run more workers than there are symbols.
	maxParallel := runtime.NumCPU()
	if opts.Parallel > 0 {
		maxParallel = opts.Parallel
	}
	if maxParallel > len(opts.Symbols) {
		maxParallel = len(opts.Symbols)
	}
	if maxParallel < 1 {
		maxParallel = 1
	}

	log.Info().Int("max_parallel", maxParallel).Msg("generation configured")

	bar := newProgressBar(len(opts.Symbols), opts.Progress)

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, symbol := range opts.Symbols {
		idx := i
		sym := symbol
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			if bar != nil {
				defer func() { _ = bar.Add(1) }()
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()

			// Idempotency: skip if the output is already there, unless force
			exists, err := writer.Exists(sym)
			if err != nil {
				log.Error().Str("symbol", sym).Err(err).Msg("existence check failed")
				return fmt.Errorf("symbol %s: check existing output: %w", sym, err)
			}
			if exists && !opts.Force {
				log.Info().Int("idx", idx+1).Int("total", len(opts.Symbols)).Str("symbol", sym).Bool("skipped", true).Msg("output already present")
				return nil
			}

			gen := simulation.New(seedFor(opts.Seed, sym))
			table, err := gen.BuildTable(cfg)
			if err != nil {
				log.Error().Str("symbol", sym).Err(err).Msg("simulation failed")
				return fmt.Errorf("symbol %s: %w", sym, err)
			}

			path, err := writer.WriteTable(sym, table)
			if err != nil {
				log.Error().Str("symbol", sym).Err(err).Msg("export failed")
				return fmt.Errorf("symbol %s: export: %w", sym, err)
			}

			log.Info().
				Int("idx", idx+1).
				Int("total", len(opts.Symbols)).
				Str("symbol", sym).
				Str("path", path).
				Dur("elapsed", time.Since(start)).
				Bool("force", opts.Force).
				Msg("symbol done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if bar != nil {
		_ = bar.Finish()
	}
	log.Info().Int("symbols", len(opts.Symbols)).Msg("generation done")
	return nil
}

// seedFor derives the per-symbol seed from the base seed. The symbol name
// hashes through FNV-1a, so a symbol keeps its seed regardless of batch
// order or composition.
func seedFor(base uint64, symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return base ^ h.Sum64()
}
