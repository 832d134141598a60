package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zdunecki/lsdomain/pkg/container"
	"github.com/zdunecki/lsdomain/pkg/dns"
	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

const (
	DefaultRegion     = "ca-central-1"
	DefaultDNSRegion  = "us-east-1"
	DefaultCertRegion = "us-east-1"
	DefaultAWSBinary  = "aws"
)

// Config holds the settings shared by every command. Values are layered as
// defaults, then the YAML file, then environment variables; command-line
// flags are applied on top by the caller.
type Config struct {
	Region       string        `yaml:"region"`
	DNSRegion    string        `yaml:"dnsRegion"`
	CertRegion   string        `yaml:"certRegion"`
	Profile      string        `yaml:"profile"`
	Backend      string        `yaml:"backend"`
	AWSBinary    string        `yaml:"awsBinary"`
	BindMode     string        `yaml:"bindMode"`
	MaxAttempts  int           `yaml:"maxAttempts"`
	PollInterval time.Duration `yaml:"pollInterval"`
	SkipNSCheck  bool          `yaml:"skipNSCheck"`
	LogLevel     string        `yaml:"logLevel"`
	LogFormat    string        `yaml:"logFormat"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Region:       DefaultRegion,
		DNSRegion:    DefaultDNSRegion,
		CertRegion:   DefaultCertRegion,
		Backend:      string(lightsail.BackendCLI),
		AWSBinary:    DefaultAWSBinary,
		BindMode:     string(container.BindReplace),
		MaxAttempts:  dns.DefaultMaxAttempts,
		PollInterval: dns.DefaultPollInterval,
		LogLevel:     "warning",
		LogFormat:    "text",
	}
}

// Load builds the configuration from path (optional) and the environment.
// A .env file in the working directory is loaded if present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Load .env file if exists
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Region = getEnv("LSDOMAIN_REGION", c.Region)
	c.DNSRegion = getEnv("LSDOMAIN_DNS_REGION", c.DNSRegion)
	c.CertRegion = getEnv("LSDOMAIN_CERT_REGION", c.CertRegion)
	c.Backend = getEnv("LSDOMAIN_BACKEND", c.Backend)
	c.AWSBinary = getEnv("LSDOMAIN_AWS_BIN", c.AWSBinary)
	c.Profile = getEnv("AWS_PROFILE", c.Profile)

	if v := getEnv("LSDOMAIN_MAX_ATTEMPTS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LSDOMAIN_MAX_ATTEMPTS: %s", v)
		}
		c.MaxAttempts = n
	}
	if v := getEnv("LSDOMAIN_POLL_INTERVAL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LSDOMAIN_POLL_INTERVAL: %s", v)
		}
		c.PollInterval = d
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if c.DNSRegion == "" || c.CertRegion == "" {
		return fmt.Errorf("dns and certificate regions are required")
	}

	switch lightsail.Backend(c.Backend) {
	case lightsail.BackendCLI, lightsail.BackendSDK:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, lightsail.BackendCLI, lightsail.BackendSDK)
	}

	if _, err := container.ParseBindMode(c.BindMode); err != nil {
		return err
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative, got %s", c.PollInterval)
	}
	return nil
}

// Regions returns the regions platform calls are issued against.
func (c *Config) Regions() lightsail.Regions {
	return lightsail.Regions{
		Service:     c.Region,
		DNS:         c.DNSRegion,
		Certificate: c.CertRegion,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
