// Package record defines the core domain types for explorer publications.
package record

import "strings"

// UnknownTopic is the bucket for rows without a topic label.
const UnknownTopic = "Unknown"

// Record represents one publication as it is plotted on the explorer.
type Record struct {
	// Identity
	DOI    string `json:"doi"`
	DOIURL string `json:"doi_url"`

	// Table fields
	Year    string  `json:"year"`
	Journal string  `json:"journal"`
	Topic   string  `json:"topic"`
	X       float64 `json:"x"` // 2-D embedding coordinates
	Y       float64 `json:"y"`

	// Availability
	CodeAvailable bool     `json:"code_available"`
	DataAvailable bool     `json:"data_available"`
	CodeLinks     []string `json:"code_links"`
	DataLinks     []string `json:"data_links"`

	// Side-file metadata, already rendered for display
	Title           string `json:"title"`
	Abstract        string `json:"abstract"`
	Institution     string `json:"institution"`
	Keywords        string `json:"keywords"`
	Funding         string `json:"funding"`
	Acknowledgement string `json:"acknowledgement"`
	OpenAccess      string `json:"open_access"` // "True" or "False"
}

// IsOpenAccess reports whether the open-access flag reads as true.
func (r Record) IsOpenAccess() bool {
	return strings.EqualFold(r.OpenAccess, "true")
}

// Available returns the availability flag for the given view.
func (r Record) Available(view string) bool {
	if view == "data" {
		return r.DataAvailable
	}
	return r.CodeAvailable
}

// Links returns the link list for the given view.
func (r Record) Links(view string) []string {
	if view == "data" {
		return r.DataLinks
	}
	return r.CodeLinks
}
