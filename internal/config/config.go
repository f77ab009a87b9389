package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Archives []Archive `yaml:"archives"`
	Search   Search    `yaml:"search"`
	Download Download  `yaml:"download"`
	OCR      OCR       `yaml:"ocr"`
	Output   Output    `yaml:"output"`
	Logging  Logging   `yaml:"logging"`
}

// Archive describes one external catalog service. Loaded once at startup and
// never mutated afterwards.
type Archive struct {
	Name           string   `yaml:"name"`
	BaseURL        string   `yaml:"base_url"`
	SearchEndpoint string   `yaml:"search_endpoint"`
	ItemEndpoint   string   `yaml:"item_endpoint"`
	Collections    []string `yaml:"collections"`
	// Collection constraint passed through to the archive's search API.
	// Empty means unconstrained.
	Collection string `yaml:"collection"`
	APIKeyEnv  string `yaml:"api_key_env"`
	// Hand-curated query phrasings issued against this archive.
	Queries []string `yaml:"queries"`
	// Optional accessions/news feed (RSS or Atom) to mine for leads.
	FeedURL string `yaml:"feed_url"`
	Limit   int    `yaml:"limit"`
}

type Search struct {
	WindowStart string `yaml:"window_start"` // YYYY-MM-DD
	WindowEnd   string `yaml:"window_end"`   // YYYY-MM-DD
	RateLimitMS int    `yaml:"rate_limit_ms"`
}

type Download struct {
	Dir     string `yaml:"dir"`
	MaxDocs int    `yaml:"max_docs"`
}

type OCR struct {
	Enabled   bool     `yaml:"enabled"`
	OutputDir string   `yaml:"output_dir"`
	Languages []string `yaml:"languages"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for letterfinder.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "letterfinder")
}

// DataDir returns the XDG data directory for letterfinder.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "letterfinder")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/letterfinder/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'letterfinder init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Search: Search{
			WindowStart: "1946-10-01",
			WindowEnd:   "1946-12-05",
			RateLimitMS: 1000,
		},
		Download: Download{
			Dir:     "downloaded_documents",
			MaxDocs: 5,
		},
		OCR: OCR{
			Enabled:   true,
			OutputDir: "ocr_results",
			Languages: []string{"eng"},
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for i := range cfg.Archives {
		if cfg.Archives[i].Limit <= 0 {
			cfg.Archives[i].Limit = 20
		}
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// RateLimit returns the configured minimum interval between requests to any
// single archive.
func (c *Config) RateLimit() time.Duration {
	if c.Search.RateLimitMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Search.RateLimitMS) * time.Millisecond
}

// Window returns the search date window. Malformed dates fall back to the
// default Oct-Dec 1946 window.
func (c *Config) Window() (start, end time.Time) {
	start, err := time.Parse("2006-01-02", c.Search.WindowStart)
	if err != nil {
		start = time.Date(1946, 10, 1, 0, 0, 0, 0, time.UTC)
	}
	end, err = time.Parse("2006-01-02", c.Search.WindowEnd)
	if err != nil {
		end = time.Date(1946, 12, 5, 0, 0, 0, 0, time.UTC)
	}
	return start, end
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
