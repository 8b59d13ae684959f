package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// DefaultPlotlyURL is the Plotly bundle the page loads.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.30.0.min.js"

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("explorer").Parse(htmlTemplate))
}

// PageOptions configures the static text of the page.
type PageOptions struct {
	Title     string
	Subtitle  string
	PlotlyURL string
	LogoURL   string // Omitted when empty
	LogoLink  string
	Citation  string // Omitted when empty
}

// DefaultPageOptions returns the page text used when nothing is configured.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Title:     "Open Science Explorer",
		Subtitle:  "Click a dot to view details.",
		PlotlyURL: DefaultPlotlyURL,
	}
}

// withDefaults fills empty required fields.
func (o PageOptions) withDefaults() PageOptions {
	def := DefaultPageOptions()
	if o.Title == "" {
		o.Title = def.Title
	}
	if o.Subtitle == "" {
		o.Subtitle = def.Subtitle
	}
	if o.PlotlyURL == "" {
		o.PlotlyURL = def.PlotlyURL
	}
	return o
}

// selectOption is one <option> of a filter select.
type selectOption struct {
	Value string
	Label string
}

// templateData holds data for the HTML template.
type templateData struct {
	PageOptions
	Topics      []string
	CodeOptions []selectOption
	DataOptions []selectOption
	TracesJSON  template.JS
	LayoutJSON  template.JS
	ConfigJSON  template.JS
}

// GenerateHTML renders the explorer page for traces. topics populates the
// topic filter. A page with no traces renders the empty state.
func GenerateHTML(traces []Trace, topics []string, opts PageOptions) (string, error) {
	opts = opts.withDefaults()

	if len(traces) == 0 {
		return generateEmptyHTML(opts.Title), nil
	}

	// json.Marshal escapes <, > and &, so the payload is safe inside <script>.
	tracesJSON, err := json.Marshal(traces)
	if err != nil {
		return "", fmt.Errorf("marshal traces: %w", err)
	}
	layoutJSON, err := json.Marshal(DefaultLayout())
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	configJSON, err := json.Marshal(DefaultPlotConfig())
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	data := templateData{
		PageOptions: opts,
		Topics:      topics,
		CodeOptions: availabilityOptions(ViewCode),
		DataOptions: availabilityOptions(ViewData),
		TracesJSON:  template.JS(tracesJSON),
		LayoutJSON:  template.JS(layoutJSON),
		ConfigJSON:  template.JS(configJSON),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func availabilityOptions(view View) []selectOption {
	opts := make([]selectOption, 0, len(Availabilities))
	for _, a := range Availabilities {
		opts = append(opts, selectOption{Value: string(a), Label: a.Label(view)})
	}
	return opts
}

// generateEmptyHTML returns HTML for an empty dataset.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: "Palatino Linotype", "Book Antiqua", Palatino, "Times New Roman", serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f9fafb;
    }
    .empty-state {
      text-align: center;
      color: #6b7280;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #111827;
    }
    .empty-state code {
      background: #e5e7eb;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No papers to display</h2>
    <p>The table has no plottable rows.</p>
    <p>Check the input table, then run <code>ose build</code> again.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <script src="{{.PlotlyURL}}"></script>
  <style>
    :root {
      --bg: #ffffff;
      --muted: #6b7280;
      --text: #111827;
      --border: rgba(15,23,42,0.08);
      --radius: 14px;
    }
    html, body {
      height: 100%;
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: "Palatino Linotype", "Book Antiqua", Palatino, "Times New Roman", serif;
    }
    .wrap {
      max-width: 1400px;
      margin: 28px auto;
      padding: 0 16px;
      display: flex;
      gap: 24px;
      align-items: flex-start;
    }
    .sidebar {
      flex: 0 0 300px;
      display: flex;
      flex-direction: column;
      gap: 24px;
      position: sticky;
      top: 28px;
      height: calc(100vh - 56px);
      overflow-y: auto;
    }
    .main-content {
      flex: 1;
      min-width: 0;
      height: calc(100vh - 56px);
      display: flex;
      flex-direction: column;
    }
    h1 {
      font-size: 22px;
      margin: 0;
      letter-spacing: -0.01em;
      line-height: 1.3;
      font-weight: 600;
    }
    .sub {
      font-size: 14px;
      color: var(--muted);
      margin-top: 8px;
      line-height: 1.5;
    }
    .controls {
      display: flex;
      flex-direction: column;
      gap: 12px;
    }
    .control {
      background: #ffffff;
      border: 1px solid var(--border);
      border-radius: 12px;
      padding: 16px;
      display: flex;
      flex-direction: column;
      align-items: flex-start;
      gap: 8px;
      box-shadow: 0 1px 2px rgba(0,0,0,0.05);
      width: 100%;
      box-sizing: border-box;
    }
    label {
      font-size: 13px;
      font-weight: 600;
    }
    select, input[type="text"] {
      background: #f9fafb;
      color: var(--text);
      border: 1px solid #e5e7eb;
      border-radius: 6px;
      outline: none;
      font-size: 14px;
      padding: 8px 10px;
      width: 100%;
      box-sizing: border-box;
    }
    select:focus, input[type="text"]:focus {
      border-color: #2563eb;
    }
    .card {
      background: #ffffff;
      border: 1px solid var(--border);
      border-radius: var(--radius);
      box-shadow: 0 4px 6px -1px rgba(0,0,0,0.1), 0 2px 4px -1px rgba(0,0,0,0.06);
      overflow: hidden;
      position: relative;
      flex: 1;
      display: flex;
      flex-direction: column;
    }
    #plot {
      flex: 1;
      width: 100%;
      height: 100%;
      min-height: 0;
    }
    .footer {
      display: flex;
      flex-direction: column;
      margin-top: auto;
      gap: 10px;
      color: var(--muted);
      font-size: 12px;
    }
    .kbd {
      padding: 2px 6px;
      border: 1px solid var(--border);
      border-radius: 8px;
      color: var(--text);
    }
    .citation pre {
      white-space: pre-wrap;
      word-wrap: break-word;
      background: #f3f4f6;
      padding: 8px;
      border-radius: 4px;
      margin-top: 4px;
      font-family: monospace;
      font-size: 0.7rem;
    }
    .modal {
      display: none;
      position: fixed;
      z-index: 1000;
      left: 0;
      top: 0;
      width: 100%;
      height: 100%;
      background-color: rgba(0,0,0,0.4);
      align-items: center;
      justify-content: center;
    }
    .modal-content {
      background-color: #fefefe;
      padding: 20px;
      border: 1px solid #e5e7eb;
      border-radius: var(--radius);
      box-shadow: 0 10px 25px -5px rgba(0,0,0,0.1), 0 8px 10px -6px rgba(0,0,0,0.1);
      max-height: 80vh;
      overflow-y: auto;
      width: 500px;
    }
    .close {
      color: #aaa;
      float: right;
      font-size: 24px;
      font-weight: bold;
      cursor: pointer;
      line-height: 1;
      margin-left: 10px;
    }
    .close:hover {
      color: #000;
    }
    .modal-header {
      margin-bottom: 1rem;
      padding-bottom: 0.5rem;
      border-bottom: 1px solid #e5e7eb;
    }
    .modal-body {
      margin-bottom: 1.5rem;
      line-height: 1.6;
    }
    .modal-body p {
      margin: 0.5rem 0;
    }
    .modal-body hr {
      border: 0;
      border-top: 1px solid #e5e7eb;
      margin: 1rem 0;
    }
    .modal-footer {
      display: flex;
      justify-content: flex-end;
      gap: 10px;
    }
    .btn {
      display: inline-flex;
      align-items: center;
      padding: 0.5rem 1rem;
      font-size: 0.875rem;
      font-weight: 500;
      border-radius: 0.375rem;
      text-decoration: none;
      color: white;
      background-color: #2563eb;
    }
    .btn:hover {
      background-color: #1d4ed8;
    }
    .btn-toggle {
      flex: 1;
      padding: 8px;
      border: 1px solid #e5e7eb;
      background: #f9fafb;
      cursor: pointer;
      border-radius: 6px;
      font-weight: 600;
      color: var(--muted);
    }
    .btn-toggle.active {
      background: #2563eb;
      color: white;
      border-color: #2563eb;
    }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="sidebar">
      <div style="display: flex; flex-direction: column; gap: 16px;">
        {{if .LogoURL}}<a href="{{.LogoLink}}" target="_blank" rel="noopener noreferrer">
          <img src="{{.LogoURL}}" alt="Logo" style="height: 60px; width: auto;">
        </a>{{end}}
        <div>
          <h1>{{.Title}}</h1>
          <div class="sub">{{.Subtitle}}</div>
        </div>
      </div>
      <div class="controls">
        <div class="control">
          <label>View Mode</label>
          <div style="display: flex; gap: 8px; width: 100%;">
            <button id="btnCodeView" class="btn-toggle active">Code</button>
            <button id="btnDataView" class="btn-toggle">Data</button>
          </div>
        </div>
        <div class="control">
          <label for="topicSelect">Topic</label>
          <select id="topicSelect">
            <option value="All">All</option>
            {{range .Topics}}<option value="{{.}}">{{.}}</option>
            {{end}}
          </select>
        </div>
        <div class="control" id="codeControl">
          <label for="codeSelect">Code Availability</label>
          <select id="codeSelect">
            {{range .CodeOptions}}<option value="{{.Value}}">{{.Label}}</option>
            {{end}}
          </select>
        </div>
        <div class="control" id="dataControl" style="display: none;">
          <label for="dataSelect">Data Availability</label>
          <select id="dataSelect">
            {{range .DataOptions}}<option value="{{.Value}}">{{.Label}}</option>
            {{end}}
          </select>
        </div>
        <div class="control">
          <label for="searchInput">Search abstract (beta)</label>
          <input type="text" id="searchInput" placeholder="e.g., calibration" />
        </div>
      </div>
      <div class="footer">
        <div><span class="kbd">Circle</span> = No &middot; <span class="kbd">Star</span> = Yes</div>
        {{if .Citation}}<div class="citation">
          <strong>Citation:</strong>
          <pre>{{.Citation}}</pre>
        </div>{{end}}
      </div>
    </div>

    <div class="main-content">
      <div class="card">
        <div id="plot"></div>
        <div id="infoModal" class="modal">
          <div class="modal-content">
            <span class="close">&times;</span>
            <div class="modal-header">
              <h2 id="modalTitle" style="margin: 0; font-size: 1.25rem;">Paper Details</h2>
            </div>
            <div id="modalBody" class="modal-body"></div>
            <div id="modalFooter" class="modal-footer"></div>
          </div>
        </div>
      </div>
    </div>
  </div>

  <script>
    const traces = {{.TracesJSON}};
    const layout = {{.LayoutJSON}};
    const config = {{.ConfigJSON}};

    const P_DOI_URL = 0, P_YEAR = 1, P_JOURNAL = 2, P_CODE = 3, P_DATA = 4,
      P_TITLE = 5, P_ABSTRACT = 6, P_INST = 7, P_KEYWORDS = 8, P_FUNDING = 9,
      P_OPEN_ACCESS = 11;
    const DIMMED = 0.05;

    let currentView = "code";

    function escapeHtml(text) {
      const div = document.createElement("div");
      div.textContent = text;
      return div.innerHTML;
    }

    function field(cd, i, fallback) {
      return cd && cd[i] ? cd[i] : fallback;
    }

    const modal = document.getElementById("infoModal");
    document.querySelector("#infoModal .close").onclick = function() {
      modal.style.display = "none";
    };
    window.onclick = function(event) {
      if (event.target === modal) {
        modal.style.display = "none";
      }
    };

    function showDetails(pt) {
      const cd = pt.customdata;
      const topic = pt.data.meta ? pt.data.meta.topic : "Unknown";
      const openAccess = field(cd, P_OPEN_ACCESS, "False");
      const keywords = field(cd, P_KEYWORDS, "");
      const funding = field(cd, P_FUNDING, "");
      const doiUrl = field(cd, P_DOI_URL, "");

      document.getElementById("modalTitle").innerText = field(cd, P_TITLE, pt.text);

      let content = "<p><strong>Topic:</strong> " + escapeHtml(topic) + "</p>";
      content += "<p><strong>Year:</strong> " + escapeHtml(field(cd, P_YEAR, "N/A")) + "</p>";
      content += "<p><strong>Journal:</strong> " + escapeHtml(field(cd, P_JOURNAL, "N/A")) + "</p>";
      content += "<p><strong>Institution:</strong> " + escapeHtml(field(cd, P_INST, "Unknown Institution")) + "</p>";
      content += "<p><strong>Open Access:</strong> " + escapeHtml(openAccess) + "</p>";
      if (keywords) {
        content += "<p><strong>Keywords:</strong> " + escapeHtml(keywords) + "</p>";
      }
      if (openAccess === "True" && funding) {
        content += "<p><strong>Funding:</strong> " + escapeHtml(funding) + "</p>";
      }
      content += "<hr>";
      content += "<p><strong>Abstract:</strong></p><p style=\"font-size: 0.95em; color: #374151;\">" +
        escapeHtml(field(cd, P_ABSTRACT, "No abstract available.")) + "</p>";
      content += "<hr>";
      content += "<p><strong>Code:</strong> " + field(cd, P_CODE, "No code link") + "</p>";
      content += "<p><strong>Data:</strong> " + field(cd, P_DATA, "No data link") + "</p>";
      document.getElementById("modalBody").innerHTML = content;

      let footer = "";
      if (doiUrl) {
        footer = "<a href=\"" + escapeHtml(doiUrl) + "\" target=\"_blank\" rel=\"noopener noreferrer\" class=\"btn\">Open Paper</a>";
      }
      document.getElementById("modalFooter").innerHTML = footer;

      modal.style.display = "flex";
    }

    Plotly.newPlot("plot", traces, layout, config).then(function(gd) {
      gd.on("plotly_click", function(ev) {
        if (!ev || !ev.points || !ev.points.length) return;
        showDetails(ev.points[0]);
      });
    });

    function searchTerms(query) {
      return query.trim().toLowerCase().split(/\s+/).filter(Boolean);
    }

    function containsAll(text, terms) {
      const lower = (text || "").toLowerCase();
      return terms.every(function(t) { return lower.indexOf(t) !== -1; });
    }

    function availabilityMatches(filter, flag) {
      if (filter === "available") return flag === true;
      if (filter === "unavailable") return flag === false;
      return true;
    }

    function updateVisibility() {
      const topic = document.getElementById("topicSelect").value;
      const filter = currentView === "code" ?
        document.getElementById("codeSelect").value :
        document.getElementById("dataSelect").value;
      const terms = searchTerms(document.getElementById("searchInput").value);

      const vis = [];
      const opacities = [];

      traces.forEach(function(tr) {
        const visible = tr.meta.view === currentView &&
          (topic === "All" || tr.meta.topic === topic) &&
          availabilityMatches(filter, tr.meta.flag);
        vis.push(visible);

        if (!visible || !terms.length) {
          opacities.push(1);
          return;
        }
        opacities.push((tr.customdata || []).map(function(row) {
          const abstract = row && row.length > P_ABSTRACT ? row[P_ABSTRACT] : "";
          return containsAll(abstract, terms) ? 1 : DIMMED;
        }));
      });

      Plotly.restyle("plot", "visible", vis);
      Plotly.restyle("plot", {"marker.opacity": opacities});
    }

    function setView(view) {
      currentView = view;
      document.getElementById("btnCodeView").classList.toggle("active", view === "code");
      document.getElementById("btnDataView").classList.toggle("active", view === "data");
      document.getElementById("codeControl").style.display = view === "code" ? "flex" : "none";
      document.getElementById("dataControl").style.display = view === "data" ? "flex" : "none";
      updateVisibility();
    }

    document.getElementById("btnCodeView").addEventListener("click", function() { setView("code"); });
    document.getElementById("btnDataView").addEventListener("click", function() { setView("data"); });
    document.getElementById("topicSelect").addEventListener("change", updateVisibility);
    document.getElementById("codeSelect").addEventListener("change", updateVisibility);
    document.getElementById("dataSelect").addEventListener("change", updateVisibility);
    document.getElementById("searchInput").addEventListener("input", updateVisibility);
  </script>
</body>
</html>
`
