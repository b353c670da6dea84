package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the relay configuration.
const (
	DefaultAppTitle = "Slack Notifier"
	DefaultBaseURI  = "http://localhost:5341"
	DefaultListen   = ":8080"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "info"
)

// Config holds the configuration parsed from the `relay:` section of the
// config file.
type Config struct {
	Relay RelayConfig `yaml:"relay"`
}

// RelayConfig holds all relay settings.
type RelayConfig struct {
	// WebhookURL is the Slack incoming webhook address.
	WebhookURL string `yaml:"webhook_url"`

	// WebhookURLEnv names an environment variable holding the webhook URL.
	// When set and non-empty it takes precedence over WebhookURL.
	WebhookURLEnv string `yaml:"webhook_url_env"`

	// Channel overrides the webhook's default channel.
	Channel string `yaml:"channel"`

	// Username is the posting name. Empty means AppTitle.
	Username string `yaml:"username"`

	// SuppressionMinutes is how long to wait before sending another message
	// for the same event type. Zero disables suppression.
	SuppressionMinutes int `yaml:"suppression_minutes"`

	// ExcludeOptionalAttachments drops property listings and similar
	// attachments.
	ExcludeOptionalAttachments bool `yaml:"exclude_optional_attachments"`

	// MessageTemplate is the body template for log events and an extra
	// markdown attachment for alerts.
	MessageTemplate string `yaml:"message_template"`

	// IconURL overrides the default message icon.
	IconURL string `yaml:"icon_url"`

	// ProxyServer routes webhook requests through an HTTP proxy.
	ProxyServer string `yaml:"proxy_server"`

	// MaxPropertyLength truncates property values. Zero disables truncation.
	MaxPropertyLength int `yaml:"max_property_length"`

	// IncludedProperties is a comma separated allow-list of property names.
	IncludedProperties string `yaml:"included_properties"`

	// AppTitle names this relay instance.
	AppTitle string `yaml:"app_title"`

	// BaseURI is the root of the log server UI that event links point to.
	BaseURI string `yaml:"base_uri"`

	// Timeout bounds each webhook request.
	Timeout time.Duration `yaml:"timeout"`

	// Listen is the HTTP listen address for the inbound API.
	Listen string `yaml:"listen"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// Auth configures how inbound API clients authenticate.
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig controls client authentication on the inbound API.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected
	// API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from. Defaults to "x-api-key".
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// ResolvedWebhookURL returns the webhook URL, preferring the environment
// variable named by WebhookURLEnv.
func (r RelayConfig) ResolvedWebhookURL() string {
	if r.WebhookURLEnv != "" {
		if v := os.Getenv(r.WebhookURLEnv); v != "" {
			return v
		}
	}
	return r.WebhookURL
}

// IncludedPropertyList splits IncludedProperties on commas, trimming each
// name and dropping blanks. An empty result means all properties.
func (r RelayConfig) IncludedPropertyList() []string {
	if strings.TrimSpace(r.IncludedProperties) == "" {
		return nil
	}
	var out []string
	for _, name := range strings.Split(r.IncludedProperties, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values mean info.
func (r RelayConfig) SlogLevel() slog.Level {
	switch strings.ToLower(r.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and parses the config file at path, returning the relay
// configuration. Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Relay: RelayConfig{
			AppTitle: DefaultAppTitle,
			BaseURI:  DefaultBaseURI,
			Timeout:  DefaultTimeout,
			Listen:   DefaultListen,
			LogLevel: DefaultLogLevel,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	r := cfg.Relay
	if r.ResolvedWebhookURL() == "" {
		return fmt.Errorf("relay.webhook_url is required (or set relay.webhook_url_env)")
	}
	if r.SuppressionMinutes < 0 {
		return fmt.Errorf("relay.suppression_minutes must not be negative")
	}
	if r.MaxPropertyLength < 0 {
		return fmt.Errorf("relay.max_property_length must not be negative")
	}
	if r.Timeout < 0 {
		return fmt.Errorf("relay.timeout must not be negative")
	}
	if r.ProxyServer != "" {
		if u, err := url.Parse(r.ProxyServer); err != nil || u.Host == "" {
			return fmt.Errorf("relay.proxy_server %q is not a valid URL", r.ProxyServer)
		}
	}
	switch strings.ToLower(r.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("relay.log_level %q unknown: want debug|info|warn|error", r.LogLevel)
	}
	switch r.Auth.Mode {
	case "apikey":
		if r.Auth.KeyEnv == "" {
			return fmt.Errorf("relay.auth.key_env is required when auth.mode is apikey")
		}
	case "none", "":
	default:
		return fmt.Errorf("relay.auth.mode %q unknown: want apikey|none", r.Auth.Mode)
	}
	return nil
}
