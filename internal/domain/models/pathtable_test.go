package models

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func sampleTable() *PathTable {
	return &PathTable{
		Dates: []time.Time{
			date(2023, time.January, 2),
			date(2023, time.January, 3),
		},
		Prices: mat.NewDense(2, 3, []float64{
			100, 101, 102,
			103, 104, 105,
		}),
		Average: []float64{101, 104},
	}
}

func TestPathTable_Dims(t *testing.T) {
	tbl := sampleTable()
	if got := tbl.NumSteps(); got != 2 {
		t.Fatalf("NumSteps() = %d, want 2", got)
	}
	if got := tbl.NumPaths(); got != 3 {
		t.Fatalf("NumPaths() = %d, want 3", got)
	}
}

func TestPathTable_Row(t *testing.T) {
	tbl := sampleTable()
	row := tbl.Row(1)
	want := []float64{103, 104, 105}
	if len(row) != len(want) {
		t.Fatalf("Row(1) has %d values, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("Row(1)[%d] = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestPathTable_Headers(t *testing.T) {
	tbl := sampleTable()
	got := tbl.Headers()
	want := []string{"date", "path_1", "path_2", "path_3", "average"}
	if len(got) != len(want) {
		t.Fatalf("Headers() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Headers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathTable_Headers_SinglePath(t *testing.T) {
	tbl := &PathTable{
		Dates:   []time.Time{date(2023, time.January, 2)},
		Prices:  mat.NewDense(1, 1, []float64{100}),
		Average: []float64{100},
	}
	got := tbl.Headers()
	want := []string{"date", "path_1", "average"}
	if len(got) != len(want) {
		t.Fatalf("Headers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Headers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
