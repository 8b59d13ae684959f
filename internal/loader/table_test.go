package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `doi,lda_topic,tsne_x,tsne_y,code_link
10.1/a,Traffic,1.5,2.5,"['https://github.com/a/b']"
10.1/b,,0,-1,[]

10.1/c,Safety,3,4
`

func TestParseTable(t *testing.T) {
	table, err := ParseTable(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("got %d rows, want 3 (blank line skipped)", len(table.Rows))
	}

	tests := []struct {
		row    int
		column string
		want   string
	}{
		{0, "doi", "10.1/a"},
		{0, "code_link", "['https://github.com/a/b']"},
		{1, "lda_topic", ""},
		{1, "tsne_y", "-1"},
		{2, "code_link", ""}, // short row
		{2, "no_such_column", ""},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got := table.Rows[tt.row].Get(tt.column)
			if got != tt.want {
				t.Errorf("row %d Get(%q) = %q, want %q", tt.row, tt.column, got, tt.want)
			}
		})
	}

	if !table.HasColumn("tsne_x") {
		t.Error("HasColumn(tsne_x) = false")
	}
	if table.HasColumn("missing") {
		t.Error("HasColumn(missing) = true")
	}
	if table.Rows[0].Line != 2 {
		t.Errorf("Rows[0].Line = %d, want 2", table.Rows[0].Line)
	}
}

func TestParseTable_BOMHeader(t *testing.T) {
	table, err := ParseTable(strings.NewReader("\ufeffdoi,year\n10.1/a,2020\n"))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if got := table.Rows[0].Get("doi"); got != "10.1/a" {
		t.Errorf("Get(doi) = %q, want 10.1/a", got)
	}
}

func TestParseTable_Empty(t *testing.T) {
	if _, err := ParseTable(strings.NewReader("")); err == nil {
		t.Error("ParseTable(\"\") should return error")
	}
}

func TestReadTable_NotFound(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Error("ReadTable() should return error for missing file")
	}
}

func TestReadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if len(table.Header) != 5 {
		t.Errorf("got %d header columns, want 5", len(table.Header))
	}
}
