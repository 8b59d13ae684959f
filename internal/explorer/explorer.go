// Package explorer wires the loader, normalizer and renderer into the
// page build.
package explorer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/rerite/openscience-explorer/internal/config"
	"github.com/rerite/openscience-explorer/internal/loader"
	"github.com/rerite/openscience-explorer/internal/normalize"
	"github.com/rerite/openscience-explorer/internal/record"
	"github.com/rerite/openscience-explorer/internal/viz"
)

// ErrMissingColumn indicates the table lacks a column needed for plotting.
var ErrMissingColumn = errors.New("missing required column")

// Dataset is the normalized content of one table and its side-files.
type Dataset struct {
	Rows    int
	Records []record.Record
	Skipped []normalize.SkippedRow
	Meta    *loader.MetaCache
}

// MissingMetadata returns the sorted DOIs of records without usable side-files.
func (d *Dataset) MissingMetadata() []string {
	missing := d.Meta.Missing()
	sort.Strings(missing)
	return missing
}

// DOIs returns the record DOIs in table order, without blanks.
func (d *Dataset) DOIs() []string {
	dois := make([]string, 0, len(d.Records))
	for _, r := range d.Records {
		if r.DOI != "" {
			dois = append(dois, r.DOI)
		}
	}
	return dois
}

// Load reads the table and side-files named by cfg and normalizes them.
func Load(cfg *config.Config, logger *zap.Logger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := loader.ReadTable(cfg.TablePath)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{cfg.Columns.X, cfg.Columns.Y} {
		if !table.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, col, cfg.TablePath)
		}
	}

	meta := loader.NewMetaCache(cfg.MetaDir, logger)
	b := &normalize.Builder{Columns: cfg.Columns, Meta: meta, Logger: logger}
	res := b.Build(table)

	logger.Debug("loaded table",
		zap.String("path", cfg.TablePath),
		zap.Int("rows", len(table.Rows)),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("side_file_reads", meta.Loads()))

	return &Dataset{
		Rows:    len(table.Rows),
		Records: res.Records,
		Skipped: res.Skipped,
		Meta:    meta,
	}, nil
}

// Summary reports what a build produced.
type Summary struct {
	Output      string `json:"output"`
	Rows        int    `json:"rows"`
	Records     int    `json:"records"`
	Skipped     int    `json:"skipped"`
	Topics      int    `json:"topics"`
	Traces      int    `json:"traces"`
	MissingMeta int    `json:"missing_metadata"`
	Bytes       int    `json:"bytes"`
}

// PageOptions maps the page configuration onto renderer options.
func PageOptions(page config.PageConfig) viz.PageOptions {
	return viz.PageOptions{
		Title:     page.Title,
		Subtitle:  page.Subtitle,
		PlotlyURL: page.PlotlyURL,
		LogoURL:   page.LogoURL,
		LogoLink:  page.LogoLink,
		Citation:  page.Citation,
	}
}

// Render builds the page for an already loaded dataset.
func Render(ds *Dataset, page config.PageConfig) (string, []viz.Trace, []string, error) {
	topics := viz.Topics(ds.Records)
	traces := viz.BuildTraces(ds.Records)
	html, err := viz.GenerateHTML(traces, topics, PageOptions(page))
	if err != nil {
		return "", nil, nil, fmt.Errorf("generating page: %w", err)
	}
	return html, traces, topics, nil
}

// Build loads the inputs named by cfg and writes the page to cfg.OutputPath.
func Build(cfg *config.Config, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ds, err := Load(cfg, logger)
	if err != nil {
		return nil, err
	}

	html, traces, topics, err := Render(ds, cfg.Page)
	if err != nil {
		return nil, err
	}

	if err := writeOutput(cfg.OutputPath, html); err != nil {
		return nil, err
	}

	summary := &Summary{
		Output:      cfg.OutputPath,
		Rows:        ds.Rows,
		Records:     len(ds.Records),
		Skipped:     len(ds.Skipped),
		Topics:      len(topics),
		Traces:      len(traces),
		MissingMeta: len(ds.Meta.Missing()),
		Bytes:       len(html),
	}
	logger.Info("wrote explorer page",
		zap.String("output", summary.Output),
		zap.Int("records", summary.Records),
		zap.Int("traces", summary.Traces))
	return summary, nil
}

// writeOutput writes the page through a temporary file so readers never
// see a partial page.
func writeOutput(path, html string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".explorer-*.html")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing output: %w", err)
	}
	return nil
}
