package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Provider  ProviderConfig  `yaml:"provider"`
	Engine    EngineConfig    `yaml:"engine"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// ProviderConfig points at the remote fitness-metrics provider used by the
// sync tooling. APIKey is the provider-side credential, distinct from the
// ingest key in Auth.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// EngineConfig holds the externally tunable engine thresholds. The fatigue
// threshold gates the pre-workout compromised check; the tolerant value
// applies when the athlete's fatigue-tolerance upgrade is active.
type EngineConfig struct {
	FatigueThreshold         float64 `yaml:"fatigue_threshold"`
	TolerantFatigueThreshold float64 `yaml:"tolerant_fatigue_threshold"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix IRONQUEST_ and underscore-separated paths:
//
//	IRONQUEST_SERVER_HOST, IRONQUEST_SERVER_PORT,
//	IRONQUEST_DB_HOST, IRONQUEST_DB_PORT, IRONQUEST_DB_NAME,
//	IRONQUEST_DB_USER, IRONQUEST_DB_PASSWORD, IRONQUEST_DB_SSLMODE,
//	IRONQUEST_AUTH_API_KEY, IRONQUEST_PROVIDER_BASE_URL,
//	IRONQUEST_PROVIDER_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IRONQUEST_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("IRONQUEST_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IRONQUEST_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("IRONQUEST_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("IRONQUEST_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("IRONQUEST_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("IRONQUEST_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("IRONQUEST_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("IRONQUEST_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("IRONQUEST_PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("IRONQUEST_PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.FatigueThreshold == 0 {
		cfg.Engine.FatigueThreshold = 30
	}
	if cfg.Engine.TolerantFatigueThreshold == 0 {
		cfg.Engine.TolerantFatigueThreshold = 20
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Engine.TolerantFatigueThreshold > c.Engine.FatigueThreshold {
		return fmt.Errorf("engine.tolerant_fatigue_threshold must not exceed engine.fatigue_threshold")
	}
	return nil
}
