package viz

const (
	serifFont = "'Palatino Linotype', 'Book Antiqua', Palatino, 'Times New Roman', serif"
	inkColor  = "rgba(15,23,42,0.85)"
)

// Layout is the Plotly figure layout.
type Layout struct {
	Margin       Margin `json:"margin"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
	HoverMode    string `json:"hovermode"`
	DragMode     string `json:"dragmode"`
	Font         Font   `json:"font"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	Legend       Legend `json:"legend"`
}

// Margin holds plot margins in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Font is a Plotly font setting.
type Font struct {
	Family string `json:"family,omitempty"`
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
}

// Axis configures one Plotly axis.
type Axis struct {
	Title     AxisTitle `json:"title"`
	ZeroLine  bool      `json:"zeroline"`
	GridColor string    `json:"gridcolor"`
	Color     string    `json:"color"`
}

// AxisTitle is an axis title.
type AxisTitle struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
}

// Legend places the Plotly legend.
type Legend struct {
	Orientation string  `json:"orientation"`
	Y           float64 `json:"y"`
	X           float64 `json:"x"`
	Font        Font    `json:"font"`
	BGColor     string  `json:"bgcolor"`
}

// PlotConfig is the Plotly config object.
type PlotConfig struct {
	Responsive  bool `json:"responsive"`
	DisplayLogo bool `json:"displaylogo"`
	ScrollZoom  bool `json:"scrollZoom"`
}

// DefaultLayout returns the explorer's figure layout.
func DefaultLayout() Layout {
	return Layout{
		Margin:       Margin{L: 50, R: 22, T: 18, B: 45},
		PaperBGColor: "#ffffff",
		PlotBGColor:  "#ffffff",
		HoverMode:    "closest",
		DragMode:     "pan",
		Font:         Font{Family: serifFont, Color: inkColor},
		XAxis:        tsneAxis("x (t-SNE)"),
		YAxis:        tsneAxis("y (t-SNE)"),
		Legend: Legend{
			Orientation: "h",
			Y:           1.02,
			X:           0,
			Font:        Font{Size: 11, Color: inkColor, Family: serifFont},
			BGColor:     "rgba(0,0,0,0)",
		},
	}
}

func tsneAxis(title string) Axis {
	return Axis{
		Title:     AxisTitle{Text: title, Font: Font{Family: serifFont}},
		ZeroLine:  false,
		GridColor: "rgba(0,0,0,0.06)",
		Color:     inkColor,
	}
}

// DefaultPlotConfig returns the Plotly config used by the page.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Responsive:  true,
		DisplayLogo: false,
		ScrollZoom:  true,
	}
}
