// Package config handles explorer configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "ose.yml"

// DefaultPlotlyURL is the charting library referenced by the generated page.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.30.0.min.js"

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents explorer configuration stored in ose.yml.
type Config struct {
	TablePath  string `yaml:"table" json:"table"`       // Input CSV
	MetaDir    string `yaml:"meta_dir" json:"meta_dir"` // Directory of per-DOI side-files
	OutputPath string `yaml:"output" json:"output"`     // Generated HTML page
	DBPath     string `yaml:"db" json:"db"`             // Ephemeral SQLite index for stats/search

	Page     PageConfig     `yaml:"page" json:"page"`
	Columns  Columns        `yaml:"columns" json:"columns"`
	OpenAlex OpenAlexConfig `yaml:"openalex" json:"openalex"`
}

// PageConfig holds the static text of the generated page.
type PageConfig struct {
	Title     string `yaml:"title" json:"title"`
	Subtitle  string `yaml:"subtitle" json:"subtitle"`
	PlotlyURL string `yaml:"plotly_url" json:"plotly_url"`
	LogoURL   string `yaml:"logo_url,omitempty" json:"logo_url,omitempty"`
	LogoLink  string `yaml:"logo_link,omitempty" json:"logo_link,omitempty"`
	Citation  string `yaml:"citation,omitempty" json:"citation,omitempty"`
}

// Columns maps table columns onto record fields.
type Columns struct {
	CodeAvailable string `yaml:"code_available" json:"code_available"`
	DataAvailable string `yaml:"data_available" json:"data_available"`
	CodeLinks     string `yaml:"code_links" json:"code_links"`
	DataLinks     string `yaml:"data_links" json:"data_links"`
	Topic         string `yaml:"topic" json:"topic"`
	X             string `yaml:"x" json:"x"`
	Y             string `yaml:"y" json:"y"`
	DOI           string `yaml:"doi" json:"doi"`
	DOIURL        string `yaml:"doi_url" json:"doi_url"`
	Year          string `yaml:"year" json:"year"`
	Journal       string `yaml:"journal" json:"journal"`
}

// OpenAlexConfig configures metadata enrichment.
type OpenAlexConfig struct {
	BaseURL   string  `yaml:"base_url" json:"base_url"`
	Mailto    string  `yaml:"mailto,omitempty" json:"mailto,omitempty"` // Polite-pool contact address
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`             // Requests per second
}

const defaultCitation = `@misc{RERITE2026OTSM,
  title  = {Measuring the State of Open Science in Transportation Using Large Language Models},
  author = {Ji, Junyi and Lu, Ruth and Belkessa, Linda and Wang, Liming and Varotto, Silvia and Dong, Yongqi and Saunier, Nicolas and Ameli, Mostafa and Macfarlane, Gregory S. and Madadi, Bahman and Wu, Cathy},
  note   = {Working paper},
  year   = {2025}
}`

// Default returns the configuration for the RERITE transportation dashboard.
func Default() *Config {
	return &Config{
		TablePath:  filepath.Join("data", "dashboard.csv"),
		MetaDir:    "meta",
		OutputPath: "explorer.html",
		DBPath:     filepath.Join(".ose", "records.db"),
		Page: PageConfig{
			Title:     "Open Science Explorer for Transportation Research",
			Subtitle:  "Click a dot to view details.",
			PlotlyURL: DefaultPlotlyURL,
			LogoURL:   "./images/logo_png.png",
			LogoLink:  "https://rerite.org",
			Citation:  defaultCitation,
		},
		Columns: Columns{
			CodeAvailable: "is_code_publicly_available",
			DataAvailable: "is_data_repository_available",
			CodeLinks:     "code_link",
			DataLinks:     "links_to_the_data_repository",
			Topic:         "lda_topic",
			X:             "tsne_x",
			Y:             "tsne_y",
			DOI:           "doi",
			DOIURL:        "doi_url",
			Year:          "year",
			Journal:       "journal",
		},
		OpenAlex: OpenAlexConfig{
			BaseURL:   "https://api.openalex.org",
			RateLimit: 5,
		},
	}
}

// Load reads configuration from path on top of Default.
// Returns the defaults (not an error) if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.TablePath = ExpandPath(cfg.TablePath)
	cfg.MetaDir = ExpandPath(cfg.MetaDir)
	cfg.OutputPath = ExpandPath(cfg.OutputPath)
	cfg.DBPath = ExpandPath(cfg.DBPath)

	return cfg, nil
}

// Save writes configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks that the settings needed for a build are present.
func (c *Config) Validate() error {
	if c.TablePath == "" {
		return fmt.Errorf("%w: table path is empty", ErrInvalidConfig)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}

	required := map[string]string{
		"columns.code_available": c.Columns.CodeAvailable,
		"columns.data_available": c.Columns.DataAvailable,
		"columns.topic":          c.Columns.Topic,
		"columns.x":              c.Columns.X,
		"columns.y":              c.Columns.Y,
		"columns.doi":            c.Columns.DOI,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, name)
		}
	}

	if c.OpenAlex.RateLimit < 0 {
		return fmt.Errorf("%w: openalex.rate_limit must not be negative", ErrInvalidConfig)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
