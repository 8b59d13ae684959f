// Package export renders explorer records in citation formats.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rerite/openscience-explorer/internal/record"
)

var keyUnsafe = regexp.MustCompile(`[^A-Za-z0-9.:_-]+`)

// CitationKey derives a BibTeX key from the record's DOI.
// Records without a DOI get a positional key.
func CitationKey(r record.Record, index int) string {
	doi := normalizeDOI(r.DOI)
	if doi == "" {
		return fmt.Sprintf("ose-row-%d", index+1)
	}
	return keyUnsafe.ReplaceAllString(doi, "_")
}

// ToBibTeX converts a record to a BibTeX entry keyed by key.
func ToBibTeX(r record.Record, key string) string {
	entryType := determineEntryType(r.Journal)
	var b strings.Builder

	fmt.Fprintf(&b, "@%s{%s,\n", entryType, key)
	writeField(&b, "title", escapeLatex(r.Title))

	if r.Journal != "" {
		venueField := "journal"
		if entryType == "inproceedings" {
			venueField = "booktitle"
		}
		writeField(&b, venueField, escapeLatex(r.Journal))
	}
	if r.Year != "" {
		writeField(&b, "year", r.Year)
	}
	if r.DOI != "" {
		writeField(&b, "doi", r.DOI)
	}
	if r.DOIURL != "" {
		writeField(&b, "url", r.DOIURL)
	}
	if r.Keywords != "" {
		writeField(&b, "keywords", escapeLatex(r.Keywords))
	}
	if r.Abstract != "" {
		writeField(&b, "abstract", escapeLatex(r.Abstract))
	}
	writeField(&b, "note", availabilityNote(r))

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts records to BibTeX, one entry per record.
// Colliding keys get -2, -3, ... suffixes.
func ToBibTeXList(records []record.Record) string {
	idx := NewIndex()
	entries := make([]string, 0, len(records))
	for i, r := range records {
		key := idx.UniqueKey(CitationKey(r, i))
		idx.Add(key, r.DOI)
		entries = append(entries, ToBibTeX(r, key))
	}
	return strings.Join(entries, "\n")
}

func writeField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "  %s = {%s},\n", name, value)
}

// availabilityNote summarizes the code and data flags with their links.
func availabilityNote(r record.Record) string {
	return fmt.Sprintf("Code: %s. Data: %s.",
		describeAvailability(r.CodeAvailable, r.CodeLinks),
		describeAvailability(r.DataAvailable, r.DataLinks))
}

func describeAvailability(available bool, links []string) string {
	if !available {
		return "not available"
	}
	if len(links) == 0 {
		return "available"
	}
	escaped := make([]string, len(links))
	for i, l := range links {
		escaped[i] = `\url{` + l + `}`
	}
	return "available at " + strings.Join(escaped, ", ")
}

// determineEntryType returns the BibTeX entry type for a venue name.
func determineEntryType(venue string) string {
	v := strings.ToLower(venue)
	if strings.Contains(v, "proceedings") ||
		strings.Contains(v, "conference") ||
		strings.Contains(v, "workshop") ||
		strings.Contains(v, "symposium") {
		return "inproceedings"
	}
	return "article"
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\textbackslash{}`,
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
