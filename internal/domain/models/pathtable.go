package models

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// PathTable is the in-memory result of one simulation run: one row per
// business day, one column per generated path, plus the cross-path average.
//
// Fields:
//   - Dates: the business-day index, strictly increasing, one entry per row.
//   - Prices: price levels with shape len(Dates) x NumPaths, row-major.
//   - Average: arithmetic mean across paths at each step, aligned with Dates.
//
// Prices is always non-nil in a table produced by the simulation package.
type PathTable struct {
	Dates   []time.Time
	Prices  *mat.Dense
	Average []float64
}

// NumSteps returns the number of rows (business days) in the table.
func (t *PathTable) NumSteps() int {
	r, _ := t.Prices.Dims()
	return r
}

// NumPaths returns the number of simulated paths (columns) in the table.
func (t *PathTable) NumPaths() int {
	_, c := t.Prices.Dims()
	return c
}

// Row returns the price levels of all paths at the given step.
// The returned slice is a view into the table, not a copy.
func (t *PathTable) Row(step int) []float64 {
	return t.Prices.RawRowView(step)
}

// Headers returns the column names of the exported table, in order:
// date, path_1 .. path_n, average. Path numbering starts at 1.
func (t *PathTable) Headers() []string {
	n := t.NumPaths()
	headers := make([]string, 0, n+2)
	headers = append(headers, "date")
	for i := 1; i <= n; i++ {
		headers = append(headers, fmt.Sprintf("path_%d", i))
	}
	return append(headers, "average")
}
