package openalex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rerite/openscience-explorer/internal/loader"
)

// SideFile is the JSON document the explorer reads per DOI.
type SideFile struct {
	Title              string   `json:"title"`
	Abstract           string   `json:"abstract"`
	PrimaryInstitution string   `json:"primary_institution"`
	Keywords           []string `json:"keywords"`
	FundingAgencies    []string `json:"funding_agencies"`
	Acknowledgement    string   `json:"acknowledgement"`
	OpenAccess         bool     `json:"open_access"`
}

// SideFile converts the work to its side-file form. OpenAlex carries no
// acknowledgement text, so that key is left empty.
func (w Work) SideFile() SideFile {
	sf := SideFile{
		Title:              w.Title,
		Abstract:           w.Abstract,
		PrimaryInstitution: w.Institution,
		Keywords:           w.Keywords,
		FundingAgencies:    w.Funders,
		OpenAccess:         w.OpenAccess,
	}
	if sf.Keywords == nil {
		sf.Keywords = []string{}
	}
	if sf.FundingAgencies == nil {
		sf.FundingAgencies = []string{}
	}
	return sf
}

// WriteSideFile writes sf for doi under dir, creating dir if needed.
// Returns the written path.
func WriteSideFile(dir, doi string, sf SideFile) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding side-file for %s: %w", doi, err)
	}

	path := filepath.Join(dir, loader.SideFileName(doi))
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing side-file for %s: %w", doi, err)
	}
	return path, nil
}
