package viz

import "strings"

// AllTopics selects every topic.
const AllTopics = "All"

// DimmedOpacity is the marker opacity of points that miss the search.
const DimmedOpacity = 0.05

// Availability filters traces by their availability flag.
type Availability string

const (
	AvailabilityAll         Availability = "all"
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

// Availabilities lists the filter choices in display order.
var Availabilities = []Availability{AvailabilityAll, AvailabilityAvailable, AvailabilityUnavailable}

// Label returns the select-box text for the filter in the given view.
func (a Availability) Label(view View) string {
	noun := "Code"
	if view == ViewData {
		noun = "Data"
	}
	switch a {
	case AvailabilityAvailable:
		return noun + " available"
	case AvailabilityUnavailable:
		return "No " + strings.ToLower(noun)
	default:
		return "All"
	}
}

// Matches reports whether a trace with the given flag passes the filter.
// Unknown values match nothing.
func (a Availability) Matches(flag bool) bool {
	switch a {
	case AvailabilityAll, "":
		return true
	case AvailabilityAvailable:
		return flag
	case AvailabilityUnavailable:
		return !flag
	default:
		return false
	}
}

// FilterState is the state of the page controls.
type FilterState struct {
	View   View
	Topic  string
	Code   Availability
	Data   Availability
	Search string
}

// DefaultFilterState is the state of a freshly loaded page.
func DefaultFilterState() FilterState {
	return FilterState{
		View:  ViewCode,
		Topic: AllTopics,
		Code:  AvailabilityAll,
		Data:  AvailabilityAll,
	}
}

// availability returns the filter of the active view. The other view's
// filter is ignored.
func (s FilterState) availability() Availability {
	if s.View == ViewData {
		return s.Data
	}
	return s.Code
}

// FilterResult is what the page applies with Plotly.restyle: one visibility
// flag per trace and one opacity per point.
type FilterResult struct {
	Visible []bool
	Opacity [][]float64
}

// Apply computes trace visibility and per-point opacity for state. It is
// the same computation the page script performs on every control change.
func Apply(traces []Trace, state FilterState) FilterResult {
	res := FilterResult{
		Visible: make([]bool, len(traces)),
		Opacity: make([][]float64, len(traces)),
	}
	terms := SearchTerms(state.Search)
	avail := state.availability()

	for i := range traces {
		tr := &traces[i]
		visible := tr.Meta.View == state.View &&
			(state.Topic == AllTopics || state.Topic == "" || tr.Meta.Topic == state.Topic) &&
			avail.Matches(tr.Meta.Flag)
		res.Visible[i] = visible

		op := make([]float64, tr.Len())
		for j := range op {
			op[j] = 1
			if visible && len(terms) > 0 && !containsAll(tr.CustomData[j][PayloadAbstract], terms) {
				op[j] = DimmedOpacity
			}
		}
		res.Opacity[i] = op
	}
	return res
}

// SearchTerms splits a query into lowercase whitespace-separated terms.
func SearchTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// MatchesSearch reports whether text contains every term of query,
// case-insensitively. An empty query matches everything.
func MatchesSearch(text, query string) bool {
	return containsAll(text, SearchTerms(query))
}

func containsAll(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}
