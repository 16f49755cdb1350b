package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrConfiguration marks missing or malformed settings. It is always detected
// before any browser interaction.
var ErrConfiguration = errors.New("invalid configuration")

const DefaultPath = "config.yaml"

type Config struct {
	SearchTerm  string
	FilterValue string
	ElementWait time.Duration
	Headless    bool

	Browser   BrowserConfig
	Logging   LoggingConfig
	Artifacts ArtifactsConfig
}

type BrowserConfig struct {
	BaseURL string
	SlowMo  time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ArtifactsConfig struct {
	LogFile        string
	ReportFile     string
	ScreenshotFile string
}

// fileConfig mirrors the flat key-value document on disk.
type fileConfig struct {
	SearchTerm     string  `koanf:"search_term"`
	FilterValue    string  `koanf:"filter_value"`
	ElementWait    float64 `koanf:"element_wait"`
	Headless       bool    `koanf:"headless"`
	BaseURL        string  `koanf:"base_url"`
	SlowMo         int     `koanf:"slow_mo"`
	LogLevel       string  `koanf:"log_level"`
	LogFormat      string  `koanf:"log_format"`
	LogFile        string  `koanf:"log_file"`
	ReportFile     string  `koanf:"report_file"`
	ScreenshotFile string  `koanf:"screenshot_file"`
}

var requiredKeys = []string{"search_term", "filter_value", "element_wait", "headless"}

// Load reads the settings file at path, applies EBAY_* environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: failed to load %q: %v", ErrConfiguration, path, err)
	}

	for _, key := range requiredKeys {
		if !k.Exists(key) && os.Getenv(envKey(key)) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrConfiguration, key)
		}
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %q: %v", ErrConfiguration, path, err)
	}

	elementWait, err := getSecondsOrDefault("EBAY_ELEMENT_WAIT", seconds(fc.ElementWait))
	if err != nil {
		return nil, err
	}
	headless, err := getBoolOrDefault("EBAY_HEADLESS", fc.Headless)
	if err != nil {
		return nil, err
	}
	slowMo, err := getIntOrDefault("EBAY_SLOW_MO", fc.SlowMo)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SearchTerm:  getEnvOrDefault("EBAY_SEARCH_TERM", fc.SearchTerm),
		FilterValue: getEnvOrDefault("EBAY_FILTER_VALUE", fc.FilterValue),
		ElementWait: elementWait,
		Headless:    headless,
		Browser: BrowserConfig{
			BaseURL: getEnvOrDefault("EBAY_BASE_URL", orDefault(fc.BaseURL, "https://www.ebay.com/")),
			SlowMo:  time.Duration(slowMo) * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", orDefault(fc.LogLevel, "info")),
			Format: getEnvOrDefault("LOG_FORMAT", orDefault(fc.LogFormat, "text")),
		},
		Artifacts: ArtifactsConfig{
			LogFile:        orDefault(fc.LogFile, "logs/test_execution.log"),
			ReportFile:     orDefault(fc.ReportFile, "reports/test_report.html"),
			ScreenshotFile: orDefault(fc.ScreenshotFile, "screenshots/final_results.png"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SearchTerm) == "" {
		return fmt.Errorf("%w: search_term must not be empty", ErrConfiguration)
	}

	if strings.TrimSpace(c.FilterValue) == "" {
		return fmt.Errorf("%w: filter_value must not be empty", ErrConfiguration)
	}

	if c.ElementWait <= 0 {
		return fmt.Errorf("%w: element_wait must be positive, got %v", ErrConfiguration, c.ElementWait)
	}

	if c.Browser.SlowMo < 0 {
		return fmt.Errorf("%w: slow_mo cannot be negative", ErrConfiguration)
	}

	u, err := url.Parse(c.Browser.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base_url %q is not an absolute URL", ErrConfiguration, c.Browser.BaseURL)
	}

	return nil
}

func envKey(key string) string {
	return "EBAY_" + strings.ToUpper(key)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// The typed getters fail with ErrConfiguration when the variable is set but
// does not parse.
func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrConfiguration, key, value)
	}
	return i, nil
}

func getBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrConfiguration, key, value)
	}
	return b, nil
}

// getSecondsOrDefault accepts either a plain number of seconds ("20") or a
// Go duration ("1m30s").
func getSecondsOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return seconds(f), nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %s=%q is neither seconds nor a duration", ErrConfiguration, key, value)
}
