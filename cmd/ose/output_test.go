package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rerite/openscience-explorer/internal/config"
	"github.com/rerite/openscience-explorer/internal/explorer"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "Traffic flow", 20, "Traffic flow"},
		{"exact", "abcdef", 6, "abcdef"},
		{"truncated", "Traffic flow prediction", 10, "Traffic..."},
		{"multibyte", "Géométrie des réseaux", 8, "Géomé..."},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateString(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestValueOr(t *testing.T) {
	if got := valueOr("", "Unknown"); got != "Unknown" {
		t.Errorf("valueOr(\"\") = %q, want Unknown", got)
	}
	if got := valueOr("MIT", "Unknown"); got != "MIT" {
		t.Errorf("valueOr(\"MIT\") = %q, want MIT", got)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Errorf("yesNo() = %q/%q, want yes/no", yesNo(true), yesNo(false))
	}
}

func TestDataExitCode(t *testing.T) {
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing.csv"))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing column", fmt.Errorf("%w: %q", explorer.ErrMissingColumn, "tsne_x"), ExitDataError},
		{"missing table", fmt.Errorf("reading table: %w", statErr), ExitDataError},
		{"other", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataExitCode(tt.err); got != tt.want {
				t.Errorf("dataExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestApplyBuildFlags(t *testing.T) {
	defer func() { buildTable, buildMeta, buildOutput = "", "", "" }()

	cfg := config.Default()
	buildTable = "papers.csv"
	buildOutput = "out/page.html"
	applyBuildFlags(cfg)

	if cfg.TablePath != "papers.csv" {
		t.Errorf("TablePath = %q, want papers.csv", cfg.TablePath)
	}
	if cfg.OutputPath != "out/page.html" {
		t.Errorf("OutputPath = %q, want out/page.html", cfg.OutputPath)
	}
	if cfg.MetaDir != "meta" {
		t.Errorf("MetaDir = %q, want unchanged default", cfg.MetaDir)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"build", "export", "rebuild", "stats", "search", "get", "meta", "config", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
