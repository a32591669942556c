// Package simulation generates synthetic asset prices under geometric
// Brownian motion (GBM).
//
// The model follows the analytical solution of the GBM stochastic
// differential equation. For each path j and step t:
//
//	X[t][j] = (mu - sigma^2/2)*dt + sigma*sqrt(dt)*Z[t][j]    Z ~ N(0,1)
//	S[t][j] = S0 * exp(X[1][j] + ... + X[t][j])
//
// Increments are accumulated along the time axis only; paths never mix.
// Because prices are exponentials of real-valued sums, every generated
// price is strictly positive whenever S0 > 0.
package simulation

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrEmptyDateIndex is returned when a simulation range contains no business
// day. A run with zero steps has no meaningful output, so it must fail
// instead of producing an empty table.
var ErrEmptyDateIndex = errors.New("date range contains no business days")

// Generator draws the standard-normal variates behind a simulation run.
// The seed fully determines the output, so equal seeds and parameters
// reproduce identical tables.
//
// A Generator is not safe for concurrent use. Create one per goroutine;
// they are cheap.
type Generator struct {
	norm distuv.Normal
}

// New returns a Generator seeded with the given value.
func New(seed uint64) *Generator {
	return &Generator{
		norm: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)},
	}
}

// Paths simulates price levels for the given number of steps and paths.
// The result has one row per step and one column per path.
//
// The horizon is normalized so the whole range spans one unit of time:
// dt = 1/steps. Mu and sigma therefore act as per-range rates when the
// range is not close to one trading year.
// TODO: derive the horizon from the calendar span (steps/260) so mu and
// sigma keep an annualized meaning on arbitrary ranges.
//
// Draw order is fixed: rows in time order, columns left to right. This
// pins down reproducibility for a given seed.
func (g *Generator) Paths(steps, paths int, initPrice, mu, sigma float64) (*mat.Dense, error) {
	if steps < 1 {
		return nil, ErrEmptyDateIndex
	}
	if paths < 1 {
		return nil, fmt.Errorf("number of paths must be at least 1, got %d", paths)
	}

	dt := 1.0 / float64(steps)
	drift := (mu - 0.5*sigma*sigma) * dt
	vol := sigma * math.Sqrt(dt)

	// Log-increments, one row per step.
	cum := mat.NewDense(steps, paths, nil)
	for t := 0; t < steps; t++ {
		row := cum.RawRowView(t)
		for j := range row {
			row[j] = drift + vol*g.norm.Rand()
		}
	}

	// Cumulative sum along the time axis. Row t aggregates rows 0..t,
	// each column (path) independently.
	for t := 1; t < steps; t++ {
		floats.Add(cum.RawRowView(t), cum.RawRowView(t-1))
	}

	// Price levels: S0 * exp(cumulative log-return).
	cum.Apply(func(_, _ int, v float64) float64 {
		return initPrice * math.Exp(v)
	}, cum)

	return cum, nil
}

// Average returns the arithmetic mean across paths at each step, aligned
// with the rows of prices. It is a plain mean of price levels, not a
// geometric or log-space average.
func Average(prices *mat.Dense) []float64 {
	steps, _ := prices.Dims()
	avg := make([]float64, steps)
	for t := 0; t < steps; t++ {
		avg[t] = stat.Mean(prices.RawRowView(t), nil)
	}
	return avg
}
