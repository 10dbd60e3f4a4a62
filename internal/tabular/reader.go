// =============================================================================
// RSS Export Tool - Tabular Text Reader
// =============================================================================
//
// NASIS tabular exports are pipe delimited text files with double-quoted
// fields, no header row and no fixed field count per file. This module
// wraps encoding/csv for that dialect and provides both a whole-file
// reader and a streaming reader for the large per-horizon tables.
//
// =============================================================================

package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Delimiter used by every SSURGO tabular text file.
const Delimiter = '|'

// newReader configures a csv.Reader for the SSURGO dialect.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = Delimiter
	// Field counts vary between files and narrative fields may carry
	// loose quoting.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadFile reads a whole pipe delimited file into memory. Use Stream for
// the big per-component and per-horizon tables.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := newReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Stream reads a pipe delimited file row by row, calling fn for each row.
func Stream(path string, fn func(row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := newReader(f)
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: row %d: %w", path, line+1, err)
		}
		line++
		if err := fn(row); err != nil {
			return fmt.Errorf("%s: row %d: %w", path, line, err)
		}
	}
}

// NullableValues converts a raw row to insert values, mapping empty
// fields to SQL NULL the way the template loader does.
func NullableValues(row []string) []interface{} {
	vals := make([]interface{}, len(row))
	for i, v := range row {
		if v == "" {
			vals[i] = nil
		} else {
			vals[i] = v
		}
	}
	return vals
}
