package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "LIBGW"
	defaultHTTPAddress    = "localhost:3000"
	defaultStorePath      = "databases/tinydb.json"
	defaultSOAPURL        = "http://localhost:8000/php-legacy/soap-server.php"
	defaultSOAPNamespace  = "http://localhost/php-legacy/library.wsdl"
	defaultSOAPTimeout    = 5 * time.Second
	defaultProbeInventory = "LIB-2024-001"
	defaultReportURL      = "http://localhost:8000/php-legacy/report.php"
	defaultReportTimeout  = 5 * time.Second
	defaultLogLevel       = "info"
)

// AppConfig captures runtime configuration for the gateway process.
type AppConfig struct {
	HTTPAddress    string
	StorePath      string
	SOAPURL        string
	SOAPNamespace  string
	SOAPTimeout    time.Duration
	ProbeInventory string
	ReportURL      string
	ReportTimeout  time.Duration
	LogLevel       string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("store.path", defaultStorePath)
	configViper.SetDefault("soap.url", defaultSOAPURL)
	configViper.SetDefault("soap.namespace", defaultSOAPNamespace)
	configViper.SetDefault("soap.timeout", defaultSOAPTimeout)
	configViper.SetDefault("soap.probe_inventory", defaultProbeInventory)
	configViper.SetDefault("report.url", defaultReportURL)
	configViper.SetDefault("report.timeout", defaultReportTimeout)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:    strings.TrimSpace(configViper.GetString("http.address")),
		StorePath:      strings.TrimSpace(configViper.GetString("store.path")),
		SOAPURL:        strings.TrimSpace(configViper.GetString("soap.url")),
		SOAPNamespace:  strings.TrimSpace(configViper.GetString("soap.namespace")),
		SOAPTimeout:    configViper.GetDuration("soap.timeout"),
		ProbeInventory: strings.TrimSpace(configViper.GetString("soap.probe_inventory")),
		ReportURL:      strings.TrimSpace(configViper.GetString("report.url")),
		ReportTimeout:  configViper.GetDuration("report.timeout"),
		LogLevel:       configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if c.HTTPAddress == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store.path is required")
	}
	if err := validateURL("soap.url", c.SOAPURL); err != nil {
		return err
	}
	if c.SOAPNamespace == "" {
		return fmt.Errorf("soap.namespace is required")
	}
	if c.SOAPTimeout <= 0 {
		return fmt.Errorf("soap.timeout must be positive")
	}
	if c.ProbeInventory == "" {
		return fmt.Errorf("soap.probe_inventory is required")
	}
	if err := validateURL("report.url", c.ReportURL); err != nil {
		return err
	}
	if c.ReportTimeout <= 0 {
		return fmt.Errorf("report.timeout must be positive")
	}
	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", key, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url", key)
	}
	return nil
}
