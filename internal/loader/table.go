// Package loader reads the publication table and per-DOI metadata side-files.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a row-oriented view over a CSV file with a header row.
type Table struct {
	Header []string
	Rows   []Row

	index map[string]int
}

// Row is one data row of a Table.
type Row struct {
	Line   int // 1-based line number of the row in the source file
	fields []string
	index  map[string]int
}

// Get returns the value of column, or "" if the column or cell is absent.
func (r Row) Get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// HasColumn reports whether the table header contains column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// ReadTable reads a CSV file. Failure to open or parse the file is fatal
// for a build, so errors are returned rather than recovered.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	return t, nil
}

// ParseTable parses CSV content from r.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty table: no header row")
		}
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	t := &Table{
		Header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.Header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing row: %w", err)
		}
		if isBlank(fields) {
			continue
		}
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, Row{Line: line, fields: fields, index: t.index})
	}

	return t, nil
}

// isBlank reports whether every field in a row is empty.
func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
