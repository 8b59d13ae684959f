package export

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rerite/openscience-explorer/internal/record"
)

var (
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	doiFieldRegex   = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// Index records the keys and DOIs already present in a .bib file.
type Index struct {
	Keys map[string]bool
	DOIs map[string]string // normalized DOI -> citation key
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// Has reports whether an entry for the DOI already exists. Records
// without a DOI match on key instead.
func (idx *Index) Has(key, doi string) bool {
	if d := normalizeDOI(doi); d != "" {
		_, ok := idx.DOIs[d]
		return ok
	}
	return idx.Keys[key]
}

// UniqueKey returns base, or base with the first free -2, -3, ... suffix
// when base is already taken.
func (idx *Index) UniqueKey(base string) string {
	if !idx.Keys[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !idx.Keys[candidate] {
			return candidate
		}
	}
}

// Add marks key and doi as present.
func (idx *Index) Add(key, doi string) {
	idx.Keys[key] = true
	if d := normalizeDOI(doi); d != "" {
		idx.DOIs[d] = key
	}
}

// ReadIndex indexes an existing .bib file.
// A missing file yields an empty index.
func ReadIndex(path string) (*Index, error) {
	idx := NewIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentKey string
	for scanner.Scan() {
		line := scanner.Text()
		if m := entryStartRegex.FindStringSubmatch(line); len(m) > 1 {
			currentKey = strings.TrimSpace(m[1])
			idx.Keys[currentKey] = true
		}
		if m := doiFieldRegex.FindStringSubmatch(line); len(m) > 1 && currentKey != "" {
			if d := normalizeDOI(m[1]); d != "" {
				idx.DOIs[d] = currentKey
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return idx, nil
}

// NewEntries renders the records not yet in idx and adds them to it.
// It returns the BibTeX text and the number of entries rendered.
func NewEntries(idx *Index, records []record.Record) (string, int) {
	var entries []string
	for i, r := range records {
		key := CitationKey(r, i)
		if idx.Has(key, r.DOI) {
			continue
		}
		key = idx.UniqueKey(key)
		idx.Add(key, r.DOI)
		entries = append(entries, ToBibTeX(r, key))
	}
	return strings.Join(entries, "\n"), len(entries)
}

// normalizeDOI strips resolver prefixes and lowercases a DOI for comparison.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi.org/", "DOI:", "doi:"} {
		if strings.HasPrefix(doi, prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(doi))
}

// AppendToFile appends BibTeX content to path, creating it if needed.
func AppendToFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString("\n" + content)
	return err
}
