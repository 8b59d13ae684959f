package openalex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rerite/openscience-explorer/internal/loader"
)

// WorkFetcher looks up works by DOI. *Client satisfies it.
type WorkFetcher interface {
	GetWork(ctx context.Context, doi string) (*Work, error)
}

// FetchOptions controls an enrichment run.
type FetchOptions struct {
	Limit     int  // Maximum lookups; 0 means no limit
	Overwrite bool // Replace existing side-files
}

// FetchReport summarizes an enrichment run.
type FetchReport struct {
	Written  []string `json:"written"`
	Existing []string `json:"existing"`
	NotFound []string `json:"not_found"`
	Failed   []string `json:"failed"`
}

// Enricher creates side-files for DOIs from OpenAlex.
type Enricher struct {
	Fetcher WorkFetcher
	MetaDir string
	Logger  *zap.Logger
}

// Fetch looks up each distinct DOI and writes its side-file. DOIs that
// already have one are skipped unless opts.Overwrite is set. Per-DOI
// failures are recorded in the report; exhausted rate limits and context
// cancellation stop the run and are returned with the partial report.
func (e *Enricher) Fetch(ctx context.Context, dois []string, opts FetchOptions) (FetchReport, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var report FetchReport
	seen := make(map[string]bool)
	lookups := 0

	for _, doi := range dois {
		doi = strings.TrimSpace(doi)
		if doi == "" || seen[doi] {
			continue
		}
		seen[doi] = true

		if !opts.Overwrite && e.hasSideFile(doi) {
			report.Existing = append(report.Existing, doi)
			continue
		}

		if opts.Limit > 0 && lookups >= opts.Limit {
			break
		}
		lookups++

		work, err := e.Fetcher.GetWork(ctx, doi)
		if err != nil {
			switch {
			case IsNotFound(err):
				logger.Info("DOI not in OpenAlex", zap.String("doi", doi))
				report.NotFound = append(report.NotFound, doi)
				continue
			case IsRateLimited(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return report, err
			default:
				logger.Warn("fetching work", zap.String("doi", doi), zap.Error(err))
				report.Failed = append(report.Failed, doi)
				continue
			}
		}

		path, err := WriteSideFile(e.MetaDir, doi, work.SideFile())
		if err != nil {
			return report, err
		}
		logger.Debug("wrote side-file", zap.String("doi", doi), zap.String("path", path))
		report.Written = append(report.Written, doi)
	}

	return report, nil
}

func (e *Enricher) hasSideFile(doi string) bool {
	_, err := os.Stat(filepath.Join(e.MetaDir, loader.SideFileName(doi)))
	return err == nil
}
