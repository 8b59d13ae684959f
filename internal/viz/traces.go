package viz

import (
	"html"
	"sort"
	"strings"

	"github.com/rerite/openscience-explorer/internal/record"
)

const (
	// MaxLinksShown caps the anchors rendered per point.
	MaxLinksShown = 3

	// NoLinkText is shown when a record has no links for a view.
	NoLinkText = "No link found"
)

// Topics returns the distinct topics of records, sorted.
func Topics(records []record.Record) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, r := range records {
		t := r.Topic
		if t == "" {
			t = record.UnknownTopic
		}
		if !seen[t] {
			seen[t] = true
			topics = append(topics, t)
		}
	}
	sort.Strings(topics)
	return topics
}

// BuildTraces groups records into traces. Traces are ordered by view
// (code, then data), then topic, then flag (available first). Empty groups
// produce no trace. Points keep dataset order within a trace.
func BuildTraces(records []record.Record) []Trace {
	topics := Topics(records)
	colors := TopicColors(topics)

	// Hover payloads don't depend on the view, so build them once.
	payloads := make([]HoverPayload, len(records))
	for i, r := range records {
		payloads[i] = newHoverPayload(r)
	}

	var traces []Trace
	for _, view := range Views {
		for _, topic := range topics {
			for _, flag := range []bool{true, false} {
				var members []int
				for i, r := range records {
					if topicOf(r) == topic && r.Available(string(view)) == flag {
						members = append(members, i)
					}
				}
				if len(members) == 0 {
					continue
				}
				traces = append(traces, newTrace(view, topic, flag, colors[topic], records, payloads, members))
			}
		}
	}
	return traces
}

// topicOf returns the record's topic, falling back to the Unknown bucket.
func topicOf(r record.Record) string {
	if r.Topic == "" {
		return record.UnknownTopic
	}
	return r.Topic
}

// newTrace creates the trace for one (view, topic, flag) group.
func newTrace(view View, topic string, flag bool, color RGB, records []record.Record, payloads []HoverPayload, members []int) Trace {
	tr := Trace{
		Type:          "scattergl",
		Mode:          "markers",
		X:             make([]float64, 0, len(members)),
		Y:             make([]float64, 0, len(members)),
		Text:          make([]string, 0, len(members)),
		CustomData:    make([]HoverPayload, 0, len(members)),
		HoverTemplate: hoverTemplate(topic),
		Meta:          TraceMeta{Topic: topic, View: view, Flag: flag},
		Visible:       view == ViewCode,
	}

	for _, i := range members {
		tr.X = append(tr.X, records[i].X)
		tr.Y = append(tr.Y, records[i].Y)
		tr.Text = append(tr.Text, records[i].DOI)
		tr.CustomData = append(tr.CustomData, payloads[i])
	}

	if flag {
		tr.Name = topic
		tr.ShowLegend = true
		tr.Marker = Marker{
			Symbol: "star",
			Size:   10,
			Color:  color.RGBA(0.85),
			Line:   MarkerLine{Color: color.RGBA(1), Width: 0.8},
		}
		tr.HoverLabel = &HoverLabel{
			BGColor:     "#f3f4f6",
			BorderColor: "#d1d5db",
			Font:        FontColor{Color: "#111827"},
		}
	} else {
		tr.Name = topic + " (no " + string(view) + ")"
		tr.ShowLegend = false
		tr.Marker = Marker{
			Symbol: "circle",
			Size:   6,
			Color:  "rgba(0,0,0,0)",
			Line:   MarkerLine{Color: color.RGBA(0.5), Width: 1},
		}
	}

	return tr
}

// hoverTemplate returns the Plotly hover template for a topic.
func hoverTemplate(topic string) string {
	return "<b>%{text}</b><br>" +
		"Topic: " + html.EscapeString(topic) + "<br>" +
		"Year: %{customdata[1]}<br>" +
		"Journal: %{customdata[2]}<br>" +
		"<b>Code</b>: %{customdata[3]}<br>" +
		"<b>Data</b>: %{customdata[4]}" +
		"<extra></extra>"
}

// newHoverPayload renders the per-point payload of a record.
func newHoverPayload(r record.Record) HoverPayload {
	var p HoverPayload
	p[PayloadDOIURL] = r.DOIURL
	p[PayloadYear] = r.Year
	p[PayloadJournal] = r.Journal
	p[PayloadCodeLinks] = RenderLinks(r.Links(string(ViewCode)))
	p[PayloadDataLinks] = RenderLinks(r.Links(string(ViewData)))
	p[PayloadTitle] = r.Title
	p[PayloadAbstract] = r.Abstract
	p[PayloadInstitution] = r.Institution
	p[PayloadKeywords] = r.Keywords
	p[PayloadFunding] = r.Funding
	p[PayloadAcknowledgement] = r.Acknowledgement
	p[PayloadOpenAccess] = r.OpenAccess
	return p
}

// RenderLinks renders up to MaxLinksShown URLs as anchors joined by line
// breaks, or NoLinkText when there are none.
func RenderLinks(urls []string) string {
	if len(urls) == 0 {
		return NoLinkText
	}
	if len(urls) > MaxLinksShown {
		urls = urls[:MaxLinksShown]
	}

	anchors := make([]string, 0, len(urls))
	for _, u := range urls {
		esc := html.EscapeString(u)
		anchors = append(anchors, "<a href='"+esc+"' target='_blank' rel='noopener noreferrer'>"+esc+"</a>")
	}
	return strings.Join(anchors, "<br>")
}
