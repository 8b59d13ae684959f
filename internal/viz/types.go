// Package viz builds Plotly traces from explorer records and renders the
// interactive explorer page.
package viz

// View is one of the two mutually exclusive display modes.
type View string

const (
	ViewCode View = "code"
	ViewData View = "data"
)

// Views lists the views in serialization order.
var Views = []View{ViewCode, ViewData}

// Hover payload positions. The page script and the detail overlay read
// customdata by these indices.
const (
	PayloadDOIURL = iota
	PayloadYear
	PayloadJournal
	PayloadCodeLinks
	PayloadDataLinks
	PayloadTitle
	PayloadAbstract
	PayloadInstitution
	PayloadKeywords
	PayloadFunding
	PayloadAcknowledgement
	PayloadOpenAccess

	payloadLen
)

// HoverPayload is the per-point customdata row.
type HoverPayload [payloadLen]string

// Trace is one Plotly scatter trace: all records sharing a topic,
// an availability flag and a view.
type Trace struct {
	Type          string         `json:"type"`
	Mode          string         `json:"mode"`
	Name          string         `json:"name"`
	ShowLegend    bool           `json:"showlegend"`
	X             []float64      `json:"x"`
	Y             []float64      `json:"y"`
	Text          []string       `json:"text"` // DOI per point
	CustomData    []HoverPayload `json:"customdata"`
	HoverTemplate string         `json:"hovertemplate"`
	HoverLabel    *HoverLabel    `json:"hoverlabel,omitempty"`
	Marker        Marker         `json:"marker"`
	Meta          TraceMeta      `json:"meta"`
	Visible       bool           `json:"visible"`
}

// Len returns the number of points in the trace.
func (t *Trace) Len() int {
	return len(t.X)
}

// TraceMeta is the key the page script filters on.
type TraceMeta struct {
	Topic string `json:"topic"`
	View  View   `json:"view"`
	Flag  bool   `json:"flag"` // availability in this trace's view
}

// Marker is the Plotly marker style of a trace.
type Marker struct {
	Symbol string     `json:"symbol"`
	Size   int        `json:"size"`
	Color  string     `json:"color"`
	Line   MarkerLine `json:"line"`
}

// MarkerLine is a marker outline.
type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// HoverLabel styles the hover box of available traces.
type HoverLabel struct {
	BGColor     string    `json:"bgcolor"`
	BorderColor string    `json:"bordercolor"`
	Font        FontColor `json:"font"`
}

// FontColor is a Plotly font with only a color set.
type FontColor struct {
	Color string `json:"color"`
}
