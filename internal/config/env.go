package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvTable   = "OSE_TABLE"
	EnvMetaDir = "OSE_META_DIR"
	EnvOutput  = "OSE_OUTPUT"
	EnvDB      = "OSE_DB"
	EnvMailto  = "OPENALEX_MAILTO"
	EnvRate    = "OPENALEX_RATE_LIMIT"
)

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overlays environment overrides onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvTable); v != "" {
		c.TablePath = ExpandPath(v)
	}
	if v := os.Getenv(EnvMetaDir); v != "" {
		c.MetaDir = ExpandPath(v)
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.OutputPath = ExpandPath(v)
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = ExpandPath(v)
	}
	if v := os.Getenv(EnvMailto); v != "" {
		c.OpenAlex.Mailto = v
	}
	if v := os.Getenv(EnvRate); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.OpenAlex.RateLimit = rate
		}
	}
}
