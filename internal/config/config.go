// Package config handles loading and parsing application configuration.
//
// Configuration is read once at startup from, in priority order:
//  1. The process environment (including a .env file, if present)
//  2. An optional YAML file: CONFIG_PATH=/path/to/config.yaml or --config
//  3. The env-default values declared on the struct tags below
//
// Nothing here is required to start the server. A missing connection
// string is reported per request by the storage layer, not at boot, so a
// misconfigured deployment still answers with a useful 500.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers understood by cmd/contacts-api.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Host string `yaml:"host" env:"HOST"`
	Port string `yaml:"port" env:"PORT" env-default:"8080"`

	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"40s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Addr is the TCP address the server listens on, e.g. ":8080".
func (s HTTPServer) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Database holds everything needed to reach the contacts store.
type Database struct {
	// Driver selects the storage backend.
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlserver"`

	// AzureConnectionString is what Azure App Service injects for a
	// connection string of type SQLAzure named "DefaultConnection".
	// It wins over ConnectionString when both are set.
	AzureConnectionString string `yaml:"-" env:"SQLAZURECONNSTR_DefaultConnection"`
	ConnectionString      string `yaml:"connection_string" env:"DefaultConnection"`

	// StoragePath is the SQLite file, used only by the sqlite driver.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"15s"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" env-default:"15s"`
}

// DSN returns the effective connection string, or "" if none is set.
func (d Database) DSN() string {
	if d.AzureConnectionString != "" {
		return d.AzureConnectionString
	}
	return d.ConnectionString
}

// Load reads the configuration. path may be empty, in which case only the
// environment and defaults are used.
func Load(path string) (*Config, error) {
	// A .env file is a convenience for local runs; its absence is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: read .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config.Load: config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLServer, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Database.Driver)
	}
	if c.ConnectTimeout <= 0 || c.QueryTimeout <= 0 {
		return errors.New("database timeouts must be positive")
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
// It exits the process on failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to an optional configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
	return cfg
}
