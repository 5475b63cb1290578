package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	appDir     = "catalog"
	configFile = "config.json"

	DefaultAPIURL        = "http://localhost:8000/api"
	DefaultPageSize      = 6
	DefaultAuditPageSize = 10
	DefaultTimeout       = 15 * time.Second
)

// Config holds client settings persisted between runs
type Config struct {
	APIURL        string   `json:"api_url,omitempty"`
	PageSize      int      `json:"page_size,omitempty"`
	AuditPageSize int      `json:"audit_page_size,omitempty"`
	Timeout       Duration `json:"timeout,omitempty"`
	LogFile       string   `json:"log_file,omitempty"`
	ChartType     string   `json:"chart_type,omitempty"` // "bar" or "pie"
}

// Duration marshals as a Go duration string ("15s")
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Defaults returns a config with every field populated
func Defaults() *Config {
	return &Config{
		APIURL:        DefaultAPIURL,
		PageSize:      DefaultPageSize,
		AuditPageSize: DefaultAuditPageSize,
		Timeout:       Duration(DefaultTimeout),
		ChartType:     "bar",
	}
}

// Dir returns the directory holding the config file and session store.
// CATALOG_HOME overrides the user config directory.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("CATALOG_HOME")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// Load reads the config from disk
func Load(baseDir string) (*Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, err
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	return cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *Config) error {
	configPath := filepath.Join(baseDir, configFile)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// LoadWithEnv loads the config file, then applies a .env file in the working
// directory (if any) and CATALOG_* environment overrides.
func LoadWithEnv(baseDir string) (*Config, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return nil, err
	}
	// A missing .env is the common case.
	_ = godotenv.Load()
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from CATALOG_* environment variables
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("CATALOG_API_URL")); v != "" {
		c.APIURL = v
	}
	if n, ok := envInt("CATALOG_PAGE_SIZE"); ok {
		c.PageSize = n
	}
	if n, ok := envInt("CATALOG_AUDIT_PAGE_SIZE"); ok {
		c.AuditPageSize = n
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = Duration(d)
		}
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_LOG_FILE")); v != "" {
		c.LogFile = v
	}
	c.fillDefaults()
}

// RequestTimeout returns the per-request timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout)
}

// SetChartType persists the preferred chart type
func SetChartType(baseDir, chartType string) error {
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}
	cfg.ChartType = chartType
	return Save(baseDir, cfg)
}

func (c *Config) fillDefaults() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.AuditPageSize <= 0 {
		c.AuditPageSize = DefaultAuditPageSize
	}
	if c.Timeout <= 0 {
		c.Timeout = Duration(DefaultTimeout)
	}
	if c.ChartType != "pie" {
		c.ChartType = "bar"
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
