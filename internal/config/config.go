package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"energy-dataset/internal/canon"
)

const (
	DefaultResPath       = "./static/res/"
	DefaultTimezone      = "Europe/Berlin"
	DefaultProgressEvery = 10_000
	DefaultPort          = "8080"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// ResPath is the directory holding the dataset files. Relative paths are
	// resolved against the config file directory.
	ResPath       string `yaml:"res_path"`
	Timezone      string `yaml:"timezone"`
	ProgressEvery int    `yaml:"progress_every"`
	// CacheTTL keeps parsed source tables for reloads (e.g. "10m"). Empty disables it.
	CacheTTL   string           `yaml:"cache_ttl"`
	Validation ValidationConfig `yaml:"validation"`
	Datasets   []DatasetConfig  `yaml:"datasets"`
	API        APIConfig        `yaml:"api"`
}

type ValidationConfig struct {
	// ContinueOnError logs a case whose lookup fails and carries on with the
	// next one instead of aborting the load.
	ContinueOnError bool `yaml:"continue_on_error"`
}

// DatasetConfig declares one collection.
type DatasetConfig struct {
	Name string `yaml:"name"`
	// Provider selects the canonicalizer. Empty registers the collection without loading it.
	Provider string `yaml:"provider"`
	// File defaults to <name>.csv inside res_path.
	File      string `yaml:"file"`
	CasesFile string `yaml:"cases_file"`
}

type APIConfig struct {
	Port string `yaml:"port"`
}

// Default mirrors the stock dataset layout: smard and energycharts are loaded,
// agora is declared without a provider.
func Default() *Config {
	c := &Config{
		Datasets: []DatasetConfig{
			{Name: "smard", Provider: canon.ProviderSmard},
			{Name: "energycharts", Provider: canon.ProviderEnergyCharts},
			{Name: "agora"},
		},
	}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file and resolves relative paths, but applies no
// defaults and does not validate. Useful for printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if c.ResPath != "" {
		c.ResPath = resolve(dir, c.ResPath)
	}
	for i := range c.Datasets {
		if c.Datasets[i].CasesFile != "" {
			c.Datasets[i].CasesFile = resolve(dir, c.Datasets[i].CasesFile)
		}
	}
	return &c, nil
}

// resolve prefers interpreting p relative to the config directory, but falls
// back to the provided path (relative to cwd) if that does not exist.
func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ResPath == "" {
		c.ResPath = DefaultResPath
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.ProgressEvery == 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	if c.API.Port == "" {
		c.API.Port = DefaultPort
	}
}

// ApplyEnv overlays RES_PATH, API_PORT and PROGRESS_EVERY from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("RES_PATH")); v != "" {
		c.ResPath = v
	}
	if v := strings.TrimSpace(getenv("API_PORT")); v != "" {
		c.API.Port = v
	}
	if v := strings.TrimSpace(getenv("PROGRESS_EVERY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROGRESS_EVERY: %w", err)
		}
		c.ProgressEvery = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone invalid: %w", err)
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress_every must be >= 0")
	}
	if _, err := c.CacheDuration(); err != nil {
		return fmt.Errorf("cache_ttl invalid: %w", err)
	}
	if len(c.Datasets) == 0 {
		return errors.New("at least one dataset is required")
	}
	seen := map[string]bool{}
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("datasets[%d].name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("datasets[%d]: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = true
		if d.Provider == "" {
			continue
		}
		if _, err := canon.New(d.Provider, time.UTC, nil); err != nil {
			return fmt.Errorf("datasets[%d] %q: %w", i, d.Name, err)
		}
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CacheDuration parses cache_ttl. Empty means 0 (disabled).
func (c *Config) CacheDuration() (time.Duration, error) {
	if strings.TrimSpace(c.CacheTTL) == "" {
		return 0, nil
	}
	return time.ParseDuration(c.CacheTTL)
}

// Dataset returns the dataset declared under name.
func (c *Config) Dataset(name string) (DatasetConfig, bool) {
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return DatasetConfig{}, false
}

// Path returns where the dataset file lives: File if absolute, File inside
// resPath if relative, <name>.csv inside resPath if unset.
func (d DatasetConfig) Path(resPath string) string {
	file := d.File
	if file == "" {
		file = d.Name + ".csv"
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(resPath, file)
}
