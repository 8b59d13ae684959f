package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"TablePath", cfg.TablePath, filepath.Join("data", "dashboard.csv")},
		{"MetaDir", cfg.MetaDir, "meta"},
		{"OutputPath", cfg.OutputPath, "explorer.html"},
		{"PlotlyURL", cfg.Page.PlotlyURL, DefaultPlotlyURL},
		{"Topic column", cfg.Columns.Topic, "lda_topic"},
		{"Code column", cfg.Columns.CodeAvailable, "is_code_publicly_available"},
		{"Data links column", cfg.Columns.DataLinks, "links_to_the_data_repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_NotFoundReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(filepath.Join(tmpDir, "missing.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutputPath != "explorer.html" {
		t.Errorf("OutputPath = %q, want explorer.html", cfg.OutputPath)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MetaDir != "meta" {
		t.Errorf("MetaDir = %q, want meta", cfg.MetaDir)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigFile)

	content := `table: input/papers.csv
page:
  title: Custom Title
columns:
  topic: cluster
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TablePath != "input/papers.csv" {
		t.Errorf("TablePath = %q", cfg.TablePath)
	}
	if cfg.Page.Title != "Custom Title" {
		t.Errorf("Page.Title = %q", cfg.Page.Title)
	}
	if cfg.Columns.Topic != "cluster" {
		t.Errorf("Columns.Topic = %q", cfg.Columns.Topic)
	}
	// Untouched fields keep defaults
	if cfg.Columns.X != "tsne_x" {
		t.Errorf("Columns.X = %q, want tsne_x", cfg.Columns.X)
	}
	if cfg.Page.PlotlyURL != DefaultPlotlyURL {
		t.Errorf("Page.PlotlyURL = %q", cfg.Page.PlotlyURL)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, DefaultConfigFile)

	if err := os.WriteFile(path, []byte("table: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", DefaultConfigFile)

	cfg := Default()
	cfg.OutputPath = "site/index.html"
	cfg.OpenAlex.Mailto = "team@example.org"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.OutputPath != cfg.OutputPath {
		t.Errorf("OutputPath = %q, want %q", loaded.OutputPath, cfg.OutputPath)
	}
	if loaded.OpenAlex.Mailto != cfg.OpenAlex.Mailto {
		t.Errorf("OpenAlex.Mailto = %q, want %q", loaded.OpenAlex.Mailto, cfg.OpenAlex.Mailto)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty table", func(c *Config) { c.TablePath = "" }, true},
		{"empty output", func(c *Config) { c.OutputPath = "" }, true},
		{"empty topic column", func(c *Config) { c.Columns.Topic = "" }, true},
		{"empty doi column", func(c *Config) { c.Columns.DOI = "" }, true},
		{"negative rate", func(c *Config) { c.OpenAlex.RateLimit = -1 }, true},
		{"empty journal column allowed", func(c *Config) { c.Columns.Journal = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvTable, "/data/other.csv")
	t.Setenv(EnvOutput, "/tmp/out.html")
	t.Setenv(EnvMailto, "me@example.org")
	t.Setenv(EnvRate, "2.5")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.TablePath != "/data/other.csv" {
		t.Errorf("TablePath = %q", cfg.TablePath)
	}
	if cfg.OutputPath != "/tmp/out.html" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.MetaDir != "meta" {
		t.Errorf("MetaDir = %q, want unchanged", cfg.MetaDir)
	}
	if cfg.OpenAlex.Mailto != "me@example.org" {
		t.Errorf("OpenAlex.Mailto = %q", cfg.OpenAlex.Mailto)
	}
	if cfg.OpenAlex.RateLimit != 2.5 {
		t.Errorf("OpenAlex.RateLimit = %v, want 2.5", cfg.OpenAlex.RateLimit)
	}
}

func TestApplyEnv_IgnoresBadRate(t *testing.T) {
	t.Setenv(EnvRate, "fast")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.OpenAlex.RateLimit != 5 {
		t.Errorf("OpenAlex.RateLimit = %v, want default 5", cfg.OpenAlex.RateLimit)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"relative/path", "relative/path"},
		{"/abs/path", "/abs/path"},
		{"~/meta", filepath.Join(home, "meta")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
