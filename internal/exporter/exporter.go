package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phamminh1998/GBM-Frontier-Market/internal/calendar"
	"github.com/phamminh1998/GBM-Frontier-Market/internal/domain/models"
)

// Format selects the flat-file variant an output file is written in.
// Its string value doubles as the file extension.
type Format string

const (
	FormatCSV Format = "csv"
	FormatTSV Format = "tsv"
)

// ParseFormat converts a user-supplied format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected csv or tsv)", s)
	}
}

func (f Format) delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// TableWriter persists simulation results, one file per symbol.
//
// Methods:
//   - WriteTable: writes the table for a symbol and returns the final path.
//     The target file either appears complete or not at all; a failed write
//     never leaves a partial file behind.
//   - Exists: reports whether output for a symbol is already present.
type TableWriter interface {
	WriteTable(symbol string, table *models.PathTable) (string, error)
	Exists(symbol string) (bool, error)
}

// fileWriter is the filesystem-backed TableWriter. Files are named
// {symbol}.{format} inside a single output directory.
type fileWriter struct {
	dir    string
	format Format
}

// NewWriter creates a TableWriter that writes delimited flat files under dir.
// The directory is created on first write if it does not exist.
func NewWriter(dir string, format Format) TableWriter {
	return &fileWriter{dir: dir, format: format}
}

// WriteTable writes one symbol's table. The file is assembled in a hidden
// temp file in the same directory and renamed into place once fully
// flushed, so readers and reruns never observe a half-written table.
func (w *fileWriter) WriteTable(symbol string, table *models.PathTable) (string, error) {
	if err := validSymbol(symbol); err != nil {
		return "", err
	}
	if table == nil || table.Prices == nil {
		return "", fmt.Errorf("refusing to export an empty table for %s", symbol)
	}
	steps := table.NumSteps()
	if len(table.Dates) != steps || len(table.Average) != steps {
		return "", fmt.Errorf("misaligned table for %s: %d dates, %d rows, %d averages",
			symbol, len(table.Dates), steps, len(table.Average))
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, "."+symbol+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	cw := csv.NewWriter(tmp)
	cw.Comma = w.format.delimiter()

	if err := cw.Write(table.Headers()); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, 0, table.NumPaths()+2)
	for i := 0; i < steps; i++ {
		record = record[:0]
		record = append(record, table.Dates[i].Format(calendar.DateLayout))
		for _, v := range table.Row(i) {
			record = append(record, formatPrice(v))
		}
		record = append(record, formatPrice(table.Average[i]))
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing table for %s: %w", symbol, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	target := w.outputPath(symbol)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("publishing %s: %w", target, err)
	}
	committed = true
	return target, nil
}

// Exists reports whether the output file for a symbol is already in place.
func (w *fileWriter) Exists(symbol string) (bool, error) {
	_, err := os.Stat(w.outputPath(symbol))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", w.outputPath(symbol), err)
}

func (w *fileWriter) outputPath(symbol string) string {
	return filepath.Join(w.dir, symbol+"."+string(w.format))
}

// validSymbol rejects symbols that cannot serve as a file name stem.
func validSymbol(symbol string) error {
	if symbol == "" {
		return errors.New("symbol must not be empty")
	}
	if strings.ContainsAny(symbol, `/\`) || strings.Contains(symbol, "..") {
		return fmt.Errorf("symbol %q contains path separators", symbol)
	}
	return nil
}

// formatPrice renders a price with the shortest decimal form that parses
// back to the same float64.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
