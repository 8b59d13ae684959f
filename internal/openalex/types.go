package openalex

import (
	"sort"
	"strings"
)

// Work is the subset of an OpenAlex work the explorer uses.
type Work struct {
	ID          string
	DOI         string // Bare DOI, without the resolver prefix
	Title       string
	Abstract    string
	Year        int
	OpenAccess  bool
	Institution string // First listed institution of the first author that has one
	Keywords    []string
	Funders     []string
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	ID                    string               `json:"id"`
	DOI                   string               `json:"doi"`
	Title                 string               `json:"title"`
	DisplayName           string               `json:"display_name"`
	PublicationYear       int                  `json:"publication_year"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	Keywords              []openAlexKeyword    `json:"keywords"`
	Grants                []openAlexGrant      `json:"grants"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
}

type openAlexAuthorship struct {
	Author       openAlexAuthor        `json:"author"`
	Institutions []openAlexInstitution `json:"institutions"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
}

type openAlexKeyword struct {
	DisplayName string `json:"display_name"`
}

type openAlexGrant struct {
	FunderDisplayName string `json:"funder_display_name"`
}

// toWork flattens the API representation.
func (w openAlexWork) toWork() Work {
	work := Work{
		ID:         w.ID,
		DOI:        BareDOI(w.DOI),
		Title:      w.Title,
		Abstract:   reconstructAbstract(w.AbstractInvertedIndex),
		Year:       w.PublicationYear,
		OpenAccess: w.OpenAccess.IsOA,
	}
	if work.Title == "" {
		work.Title = w.DisplayName
	}

	for _, a := range w.Authorships {
		if work.Institution != "" {
			break
		}
		for _, inst := range a.Institutions {
			if inst.DisplayName != "" {
				work.Institution = inst.DisplayName
				break
			}
		}
	}

	for _, k := range w.Keywords {
		if k.DisplayName != "" {
			work.Keywords = append(work.Keywords, k.DisplayName)
		}
	}

	seen := make(map[string]bool)
	for _, g := range w.Grants {
		name := g.FunderDisplayName
		if name != "" && !seen[name] {
			seen[name] = true
			work.Funders = append(work.Funders, name)
		}
	}

	return work
}

// BareDOI strips resolver prefixes from a DOI.
func BareDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The index maps each word to the positions where it appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}
