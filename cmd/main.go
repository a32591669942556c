package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/phamminh1998/GBM-Frontier-Market/config"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/calendar"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/domain/models"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/exporter"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/generation"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/logger"
)

// buildSimulationConfig assembles and validates the domain config from the
// raw flag/env values. Dates use the YYYY-MM-DD layout.
//
// Returns:
//   - models.SimulationConfig: the validated simulation parameters.
//   - error: when a date is missing or malformed, or a parameter is out of range.
func buildSimulationConfig(start, end string, price, mu, sigma float64, sims int) (models.SimulationConfig, error) {
	var cfg models.SimulationConfig
	if start == "" {
		return cfg, fmt.Errorf("start date is required (set START_DATE or --start)")
	}
	if end == "" {
		return cfg, fmt.Errorf("end date is required (set END_DATE or --end)")
	}

	startDate, err := time.Parse(calendar.DateLayout, start)
	if err != nil {
		return cfg, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.Parse(calendar.DateLayout, end)
	if err != nil {
		return cfg, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	cfg = models.SimulationConfig{
		StartDate: startDate,
		EndDate:   endDate,
		InitPrice: price,
		Mu:        mu,
		Sigma:     sigma,
		NumSims:   sims,
	}
	return cfg, cfg.Validate()
}

// splitSymbols normalizes a comma-separated symbol list: trims whitespace,
// upcases, drops empty entries and deduplicates while preserving order.
func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		sym := strings.ToUpper(strings.TrimSpace(p))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// main is the entry point of the synthetic price generator.
//
// It simulates geometric Brownian motion paths over the business days of a
// calendar range and writes one delimited table per symbol.
//
// Flags (each defaults to the corresponding environment value):
//   - --symbols:  Comma-separated ticker symbols, one output file per symbol.
//   - --start:    First calendar date of the range (YYYY-MM-DD, inclusive).
//   - --end:      Last calendar date of the range (YYYY-MM-DD, inclusive).
//   - --price:    Initial asset price.
//   - --mu:       Drift per unit time.
//   - --sigma:    Volatility per unit time.
//   - --sims:     Number of independent paths per symbol.
//   - --seed:     Base random seed; per-symbol seeds derive from it.
//   - --out:      Output directory.
//   - --format:   Output format, csv or tsv.
//   - --parallel: How many symbols to process concurrently (0=auto up to CPU).
//   - --force:    Regenerate symbols whose output file already exists.
//   - --progress: Render a progress bar across symbols.
func main() {
	// SIGINT/SIGTERM cancel the run: in-flight workers stop at the next
	// checkpoint and no further files are published.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	symbols := flag.String("symbols", config.AppConfig.Output.Symbols, "Comma-separated ticker symbols, one output file per symbol")
	start := flag.String("start", config.AppConfig.Sim.StartDate, "First calendar date of the range (YYYY-MM-DD, inclusive)")
	end := flag.String("end", config.AppConfig.Sim.EndDate, "Last calendar date of the range (YYYY-MM-DD, inclusive)")
	price := flag.Float64("price", config.AppConfig.Sim.InitPrice, "Initial asset price")
	mu := flag.Float64("mu", config.AppConfig.Sim.Mu, "Drift per unit time")
	sigma := flag.Float64("sigma", config.AppConfig.Sim.Sigma, "Volatility per unit time")
	sims := flag.Int("sims", config.AppConfig.Sim.NumSims, "Number of independent paths per symbol")
	seed := flag.Uint64("seed", config.AppConfig.Sim.Seed, "Base random seed; per-symbol seeds derive from it")
	out := flag.String("out", config.AppConfig.Output.Dir, "Output directory for generated files")
	format := flag.String("format", config.AppConfig.Output.Format, "Output format: csv or tsv")
	parallel := flag.Int("parallel", config.AppConfig.Output.Parallel, "How many symbols to process concurrently (0=auto up to CPU)")
	force := flag.Bool("force", false, "Regenerate symbols whose output file already exists")
	progress := flag.Bool("progress", false, "Render a progress bar across symbols")
	flag.Parse()

	cfg, err := buildSimulationConfig(*start, *end, *price, *mu, *sigma, *sims)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid configuration")
	}

	f, err := exporter.ParseFormat(*format)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid configuration")
	}

	writer := exporter.NewWriter(*out, f)
	opts := generation.Options{
		Symbols:  splitSymbols(*symbols),
		Seed:     *seed,
		Parallel: *parallel,
		Force:    *force,
		Progress: *progress,
	}

	logger.L().Info().Msg("running generation")
	if err := generation.Run(ctx, cfg, writer, opts); err != nil {
		logger.L().Fatal().Err(err).Msg("generation failed")
	}
	logger.L().Info().Msg("generation completed successfully")
}
