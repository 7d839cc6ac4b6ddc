package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete shipping configuration
type Config struct {
	Links   LinksConfig   `yaml:"links" envconfig:"LINKS"`
	Mail    MailConfig    `yaml:"mail" envconfig:"MAIL"`
	Git     GitConfig     `yaml:"git" envconfig:"GIT"`
	Archive ArchiveConfig `yaml:"archive" envconfig:"ARCHIVE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LinksConfig controls how the exporter resolves hyperlinks for each
// ledger row. All fields are optional; the exporter degrades from raw
// URL to viewer URL to a local file:// link as bases go missing.
type LinksConfig struct {
	// OutputRoot is the local directory screenshots live under, used to
	// compute the relative path shown in the workbook.
	OutputRoot string `yaml:"output_root" envconfig:"OUTPUT_ROOT"`
	// PublicBaseURL is a viewer-style base, e.g.
	// https://github.com/<user>/<repo>/blob/main
	PublicBaseURL string `yaml:"public_base_url" envconfig:"PUBLIC_BASE_URL"`
	// RawBaseURL serves file bytes directly and wins over PublicBaseURL.
	RawBaseURL string `yaml:"raw_base_url" envconfig:"RAW_BASE_URL"`
	// ShowPathColumns keeps the ledger's path columns in the workbook,
	// displaying the relative path instead of dropping the columns.
	ShowPathColumns bool `yaml:"show_path_columns" envconfig:"SHOW_PATH_COLUMNS"`
}

// MailConfig contains SMTP relay settings. Host, user, pass and at
// least one recipient are all required for mail to be sent; anything
// less downgrades the notifier to a logged warning.
type MailConfig struct {
	SMTPHost string `yaml:"smtp_host" envconfig:"SMTP_HOST"`
	SMTPPort int    `yaml:"smtp_port" envconfig:"SMTP_PORT"`
	SMTPUser string `yaml:"smtp_user" envconfig:"SMTP_USER"`
	SMTPPass string `yaml:"smtp_pass" envconfig:"SMTP_PASS"`
	From     string `yaml:"from" envconfig:"MAIL_FROM"`
	To       string `yaml:"to" envconfig:"MAIL_TO"`
}

// GitConfig contains the remote/branch pair the publisher pushes to.
type GitConfig struct {
	RemoteName string `yaml:"remote_name" envconfig:"GIT_REMOTE_NAME"`
	Branch     string `yaml:"branch" envconfig:"GIT_BRANCH"`
}

// ArchiveConfig contains screenshot bundling settings.
type ArchiveConfig struct {
	// Sites are the site directories under the screenshots root.
	Sites []string `yaml:"sites" envconfig:"SITES"`
	// WindowDays is the size of the rolling window for weekly bundles.
	WindowDays int `yaml:"window_days" envconfig:"ARCHIVE_WINDOW_DAYS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format   string `yaml:"format" envconfig:"LOG_FORMAT"`
	Output   string `yaml:"output" envconfig:"LOG_OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"LOG_FILE"`
}

// Load loads configuration from defaults, an optional config file, and
// environment variables, in increasing order of precedence. A missing
// config file is not an error; missing individual settings never are —
// components handle their own fallbacks.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	// Env wins over file values. The envconfig alt names match the
	// unprefixed variables the original deployment used (OUTPUT_ROOT,
	// SMTP_HOST, GIT_BRANCH, ...).
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyFallbacks()
	return cfg, nil
}

// loadFromFile merges a YAML config file into cfg.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyFallbacks fills derived defaults that depend on other settings.
func (c *Config) applyFallbacks() {
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.SMTPUser
	}
	if c.Mail.SMTPPort == 0 {
		c.Mail.SMTPPort = 587
	}
	if c.Git.RemoteName == "" {
		c.Git.RemoteName = "origin"
	}
	if c.Git.Branch == "" {
		c.Git.Branch = "main"
	}
	if c.Archive.WindowDays <= 0 {
		c.Archive.WindowDays = 7
	}
}

// Recipients splits the comma-separated MAIL_TO list, dropping empty
// entries.
func (c *MailConfig) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(c.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// CanSend reports whether enough SMTP configuration is present for the
// notifier to attempt delivery.
func (c *MailConfig) CanSend() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" && len(c.Recipients()) > 0
}

// findConfigFile checks the locations the shipper binary is run from.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Mail: MailConfig{
			SMTPPort: 587,
		},
		Git: GitConfig{
			RemoteName: "origin",
			Branch:     "main",
		},
		Archive: ArchiveConfig{
			Sites:      []string{"gogo.mn", "ikon.mn", "news.mn"},
			WindowDays: 7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}
