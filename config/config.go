package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as the stochastic model parameters and the output destination.
//
// Example YAML/ENV equivalent:
//
//	SYMBOLS=VND,HPG,VCB
//	START_DATE=2023-01-02
//	END_DATE=2023-12-29
//	INIT_PRICE=100
//	MU=0.05
//	SIGMA=0.2
//	NUM_SIMS=50
//	SEED=42
//	OUTPUT_DIR=./data/output
//	OUTPUT_FORMAT=csv
type Config struct {
	Sim    SimConfig    // GBM model parameters
	Output OutputConfig // Export destination settings
}

// SimConfig holds the default parameters of the geometric Brownian motion model.
//
// Fields:
//   - StartDate: first calendar date of the simulation range (YYYY-MM-DD).
//   - EndDate: last calendar date of the simulation range (YYYY-MM-DD).
//   - InitPrice: asset price at the first business day.
//   - Mu: annualized drift of the process.
//   - Sigma: annualized volatility of the process.
//   - NumSims: number of independent paths generated per symbol.
//   - Seed: base seed for the random source; per-symbol seeds derive from it.
type SimConfig struct {
	StartDate string
	EndDate   string
	InitPrice float64
	Mu        float64
	Sigma     float64
	NumSims   int
	Seed      uint64
}

// OutputConfig defines where and how generated tables are written.
//
// Fields:
//   - Symbols: comma-separated ticker symbols, one output file per symbol.
//   - Dir: directory that receives the generated files.
//   - Format: flat-file format, "csv" or "tsv".
//   - Parallel: maximum symbols processed concurrently (0 means auto).
type OutputConfig struct {
	Symbols  string
	Dir      string
	Format   string
	Parallel int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All packages should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all fields that have a sensible one.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Calls validateConfig() to ensure required fields are present.
//
// START_DATE and END_DATE default to empty strings on purpose: a simulation
// range is run-specific and must come from the environment or the CLI flags.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SYMBOLS", "SYNTH")
	viper.SetDefault("START_DATE", "")
	viper.SetDefault("END_DATE", "")
	viper.SetDefault("INIT_PRICE", 100.0)
	viper.SetDefault("MU", 0.0)
	viper.SetDefault("SIGMA", 0.2)
	viper.SetDefault("NUM_SIMS", 1)
	viper.SetDefault("SEED", 42)
	viper.SetDefault("OUTPUT_DIR", "./data/output")
	viper.SetDefault("OUTPUT_FORMAT", "csv")
	viper.SetDefault("PARALLEL", 0)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Sim: SimConfig{
			StartDate: viper.GetString("START_DATE"),
			EndDate:   viper.GetString("END_DATE"),
			InitPrice: viper.GetFloat64("INIT_PRICE"),
			Mu:        viper.GetFloat64("MU"),
			Sigma:     viper.GetFloat64("SIGMA"),
			NumSims:   viper.GetInt("NUM_SIMS"),
			Seed:      viper.GetUint64("SEED"),
		},
		Output: OutputConfig{
			Symbols:  viper.GetString("SYMBOLS"),
			Dir:      viper.GetString("OUTPUT_DIR"),
			Format:   viper.GetString("OUTPUT_FORMAT"),
			Parallel: viper.GetInt("PARALLEL"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
// Model parameters are not range-checked here; that is the job of
// models.SimulationConfig.Validate once flags have been applied.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Output.Symbols == "" {
		missing = append(missing, "SYMBOLS")
	}
	if AppConfig.Output.Dir == "" {
		missing = append(missing, "OUTPUT_DIR")
	}
	if AppConfig.Output.Format == "" {
		missing = append(missing, "OUTPUT_FORMAT")
	}
	if AppConfig.Sim.InitPrice == 0 {
		missing = append(missing, "INIT_PRICE")
	}
	if AppConfig.Sim.NumSims == 0 {
		missing = append(missing, "NUM_SIMS")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
