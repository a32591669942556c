package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/phamminh1998/GBM-Frontier-Market/internal/domain/models"
)

func sampleTable() *models.PathTable {
	return &models.PathTable{
		Dates: []time.Time{
			time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2023, time.January, 3, 0, 0, 0, 0, time.UTC),
		},
		Prices: mat.NewDense(2, 2, []float64{
			100, 101.5,
			102.25, 103,
		}),
		Average: []float64{100.75, 102.625},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" CSV ", FormatCSV, false},
		{"tsv", FormatTSV, false},
		{"Tsv", FormatTSV, false},
		{"", "", true},
		{"xlsx", "", true},
	}
	for _, c := range cases {
		got, err := ParseFormat(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseFormat(%q) = %v, want error", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseFormat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWriteTable_CSV(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatCSV)

	path, err := w.WriteTable("VND", sampleTable())
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if want := filepath.Join(dir, "VND.csv"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "date,path_1,path_2,average\n" +
		"2023-01-02,100,101.5,100.75\n" +
		"2023-01-03,102.25,103,102.625\n"
	if string(raw) != want {
		t.Fatalf("content mismatch:\ngot:\n%s\nwant:\n%s", raw, want)
	}
}

func TestWriteTable_TSV(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatTSV)

	path, err := w.WriteTable("HPG", sampleTable())
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if filepath.Ext(path) != ".tsv" {
		t.Fatalf("path = %q, want .tsv extension", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "date\tpath_1\tpath_2\taverage\n" +
		"2023-01-02\t100\t101.5\t100.75\n" +
		"2023-01-03\t102.25\t103\t102.625\n"
	if string(raw) != want {
		t.Fatalf("content mismatch:\ngot:\n%s\nwant:\n%s", raw, want)
	}
}

func TestWriteTable_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, FormatCSV)

	if _, err := w.WriteTable("VCB", sampleTable()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "VCB.csv")); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestWriteTable_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "VND.csv")
	if err := os.WriteFile(target, []byte("stale content"), 0o644); err != nil {
		t.Fatalf("seeding stale file: %v", err)
	}

	w := NewWriter(dir, FormatCSV)
	if _, err := w.WriteTable("VND", sampleTable()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(raw), "date,path_1") {
		t.Fatalf("stale content survived: %q", raw)
	}
}

// A failed publish must leave neither a partial target nor temp litter.
func TestWriteTable_NoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	// Occupy the target path with a directory so the final rename fails.
	if err := os.Mkdir(filepath.Join(dir, "BAD.csv"), 0o755); err != nil {
		t.Fatalf("seeding blocker: %v", err)
	}

	w := NewWriter(dir, FormatCSV)
	if _, err := w.WriteTable("BAD", sampleTable()); err == nil {
		t.Fatal("want error when target path is blocked, got nil")
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
	info, err := os.Stat(filepath.Join(dir, "BAD.csv"))
	if err != nil || !info.IsDir() {
		t.Fatalf("blocker directory was replaced: %v %v", info, err)
	}
}

func TestWriteTable_DirCreationFailure(t *testing.T) {
	parent := t.TempDir()
	blocked := filepath.Join(parent, "blocked")
	if err := os.WriteFile(blocked, []byte("file, not dir"), 0o644); err != nil {
		t.Fatalf("seeding blocker: %v", err)
	}

	w := NewWriter(filepath.Join(blocked, "out"), FormatCSV)
	if _, err := w.WriteTable("VND", sampleTable()); err == nil {
		t.Fatal("want error when output dir cannot be created, got nil")
	}
}

func TestWriteTable_RejectsUnsafeSymbols(t *testing.T) {
	w := NewWriter(t.TempDir(), FormatCSV)
	for _, sym := range []string{"", "A/B", `A\B`, "A..B"} {
		if _, err := w.WriteTable(sym, sampleTable()); err == nil {
			t.Fatalf("symbol %q accepted, want error", sym)
		}
	}
}

func TestWriteTable_RejectsEmptyTable(t *testing.T) {
	w := NewWriter(t.TempDir(), FormatCSV)
	if _, err := w.WriteTable("VND", nil); err == nil {
		t.Fatal("nil table accepted, want error")
	}
	if _, err := w.WriteTable("VND", &models.PathTable{}); err == nil {
		t.Fatal("table without prices accepted, want error")
	}
}

func TestWriteTable_RejectsMisalignedTable(t *testing.T) {
	tbl := sampleTable()
	tbl.Average = tbl.Average[:1]
	w := NewWriter(t.TempDir(), FormatCSV)
	if _, err := w.WriteTable("VND", tbl); err == nil {
		t.Fatal("misaligned table accepted, want error")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatCSV)

	ok, err := w.Exists("VND")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Fatal("Exists = true before any write")
	}

	if _, err := w.WriteTable("VND", sampleTable()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	ok, err = w.Exists("VND")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Fatal("Exists = false after write")
	}

	// Another format looks for its own extension.
	ok, err = NewWriter(dir, FormatTSV).Exists("VND")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Fatal("tsv writer found the csv file")
	}
}
