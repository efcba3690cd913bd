package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
	DataDir     string `yaml:"data_dir"`
	Environment string `yaml:"environment"`
	Printer     struct {
		Address string        `yaml:"address"`
		Port    int           `yaml:"port"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"printer"`
	License struct {
		File string `yaml:"file"`
	} `yaml:"license"`
	AdminTokenSecret string `yaml:"admin_token_secret"`
}

// Default returns the configuration used when no file or overrides are present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3001
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9090
	cfg.DataDir = "./data"
	cfg.Environment = "development"
	cfg.Printer.Address = "192.168.1.100"
	cfg.Printer.Port = 9100
	cfg.Printer.Timeout = 5 * time.Second
	cfg.License.File = "license.json"
	cfg.AdminTokenSecret = "ristorante-bellavista-admin"
	return cfg
}

// Load reads the YAML configuration file at path, falling back to defaults
// when the file does not exist. A .env file in the working directory and
// process environment variables override file values.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it is only a development convenience.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("PRINTER_ADDRESS"); v != "" {
		cfg.Printer.Address = v
	}
	if v := os.Getenv("LICENSE_FILE"); v != "" {
		cfg.License.File = v
	}
	if v := os.Getenv("ADMIN_TOKEN_SECRET"); v != "" {
		cfg.AdminTokenSecret = v
	}
}

// IsProduction reports whether the server runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
