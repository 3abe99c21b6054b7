package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solheim-studio/heimdall/internal/adapters/fs"
	"github.com/solheim-studio/heimdall/internal/types"
)

// DefaultFile is the project-local config file picked up when present.
const DefaultFile = "heimdall.yaml"

type Config struct {
	BaseURL     string
	ExecTimeout time.Duration
	ReportDir   string
	Formats     []types.ReportFormat
	Headful     bool
	BrowserPath string
}

func Default() Config {
	return Config{
		ExecTimeout: 30 * time.Second,
		ReportDir:   "coverage",
		Formats:     []types.ReportFormat{types.FormatJSON, types.FormatText},
	}
}

// fileConfig is the yaml shape. Durations are strings so the file can say
// "45s" instead of nanoseconds, and booleans are pointers so an absent key
// does not clobber the default.
type fileConfig struct {
	BaseURL     string   `yaml:"base_url"`
	ExecTimeout string   `yaml:"exec_timeout"`
	ReportDir   string   `yaml:"report_dir"`
	Formats     []string `yaml:"formats"`
	Headful     *bool    `yaml:"headful"`
	BrowserPath string   `yaml:"browser_path"`
}

// Load builds the effective configuration: defaults, then the yaml file at
// path if it exists, then HEIMDALL_* environment overrides. The result is
// validated before it is returned.
func Load(fsys fs.FileSystem, path string) (Config, error) {
	cfg := Default()

	if path != "" && fsys.FileExists(path) {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := overlay(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is Load with the default file location.
func FromEnv(fsys fs.FileSystem) (Config, error) {
	return Load(fsys, DefaultFile)
}

func overlay(cfg *Config, data []byte) error {
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.ExecTimeout != "" {
		d, err := time.ParseDuration(file.ExecTimeout)
		if err != nil {
			return fmt.Errorf("invalid exec_timeout: %w", err)
		}
		cfg.ExecTimeout = d
	}
	if file.ReportDir != "" {
		cfg.ReportDir = file.ReportDir
	}
	if len(file.Formats) > 0 {
		formats, err := ParseFormats(strings.Join(file.Formats, ","))
		if err != nil {
			return err
		}
		cfg.Formats = formats
	}
	if file.Headful != nil {
		cfg.Headful = *file.Headful
	}
	if file.BrowserPath != "" {
		cfg.BrowserPath = file.BrowserPath
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("HEIMDALL_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("HEIMDALL_EXEC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HEIMDALL_EXEC_TIMEOUT: %w", err)
		}
		cfg.ExecTimeout = d
	}
	if v := os.Getenv("HEIMDALL_REPORT_DIR"); v != "" {
		cfg.ReportDir = v
	}
	if v := os.Getenv("HEIMDALL_FORMATS"); v != "" {
		formats, err := ParseFormats(v)
		if err != nil {
			return fmt.Errorf("invalid HEIMDALL_FORMATS: %w", err)
		}
		cfg.Formats = formats
	}
	if v := os.Getenv("HEIMDALL_HEADFUL"); v == "1" || v == "true" {
		cfg.Headful = true
	}
	if v := os.Getenv("HEIMDALL_BROWSER_PATH"); v != "" {
		cfg.BrowserPath = v
	}
	return nil
}

// ParseFormats parses a comma separated list of report format names.
func ParseFormats(s string) ([]types.ReportFormat, error) {
	var formats []types.ReportFormat
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		format := types.ReportFormat(part)
		switch format {
		case types.FormatJSON, types.FormatText, types.FormatLCOV:
			formats = append(formats, format)
		default:
			return nil, fmt.Errorf("unknown report format %q", part)
		}
	}
	if len(formats) == 0 {
		return nil, errors.New("no report formats given")
	}
	return formats, nil
}

func (c Config) Validate() error {
	if c.ExecTimeout <= 0 {
		return errors.New("exec timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("base url must be http(s): %q", c.BaseURL)
		}
	}
	if len(c.Formats) > 0 && strings.TrimSpace(c.ReportDir) == "" {
		return errors.New("report dir is required when formats are set")
	}
	for _, format := range c.Formats {
		switch format {
		case types.FormatJSON, types.FormatText, types.FormatLCOV:
		default:
			return fmt.Errorf("unknown report format %q", format)
		}
	}
	return nil
}
