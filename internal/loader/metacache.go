package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rerite/openscience-explorer/internal/record"
)

// SideFileName returns the side-file name for a DOI: the DOI with path
// separators replaced by underscores, plus ".json".
func SideFileName(doi string) string {
	return strings.ReplaceAll(doi, "/", "_") + ".json"
}

// MetaCache loads side-files on demand and remembers the result per DOI,
// including the empty result for missing or unreadable files.
// It is constructed once per run and is not safe for concurrent use.
type MetaCache struct {
	dir     string
	logger  *zap.Logger
	entries map[string]record.Metadata
	missing map[string]bool
	loads   int
}

// NewMetaCache creates a cache reading side-files from dir.
func NewMetaCache(dir string, logger *zap.Logger) *MetaCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaCache{
		dir:     dir,
		logger:  logger,
		entries: make(map[string]record.Metadata),
		missing: make(map[string]bool),
	}
}

// Path returns the side-file path for doi.
func (c *MetaCache) Path(doi string) string {
	return filepath.Join(c.dir, SideFileName(doi))
}

// Lookup returns the metadata for doi. Absent or unparseable side-files
// yield an empty Metadata; they are never reported as errors.
func (c *MetaCache) Lookup(doi string) record.Metadata {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return record.Metadata{}
	}
	if m, ok := c.entries[doi]; ok {
		return m
	}

	m, ok := c.load(doi)
	c.entries[doi] = m
	if !ok {
		c.missing[doi] = true
	}
	return m
}

// load reads one side-file. The bool result is false when no usable
// metadata was found.
func (c *MetaCache) load(doi string) (record.Metadata, bool) {
	c.loads++
	path := c.Path(doi)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Debug("reading side-file", zap.String("path", path), zap.Error(err))
		}
		return record.Metadata{}, false
	}

	var m record.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Debug("parsing side-file", zap.String("path", path), zap.Error(err))
		return record.Metadata{}, false
	}
	return m, true
}

// Len returns the number of distinct DOIs looked up.
func (c *MetaCache) Len() int {
	return len(c.entries)
}

// Loads returns how many side-file reads were attempted.
func (c *MetaCache) Loads() int {
	return c.loads
}

// Missing returns the DOIs without usable side-files, in no particular order.
func (c *MetaCache) Missing() []string {
	dois := make([]string, 0, len(c.missing))
	for doi := range c.missing {
		dois = append(dois, doi)
	}
	return dois
}
