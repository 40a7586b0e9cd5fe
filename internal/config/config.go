// Package config loads customerdesk settings from defaults, an optional YAML
// file, CUSTOMERDESK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CUSTOMERDESK_STORAGE_DRIVER.
const EnvPrefix = "customerdesk"

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Events  EventsConfig  `mapstructure:"events" yaml:"events"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Trace   TraceConfig   `mapstructure:"trace" yaml:"trace"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MarshalYAML renders durations in their human form.
func (s ServerConfig) MarshalYAML() (any, error) {
	return map[string]string{
		"addr":             s.Addr,
		"read_timeout":     s.ReadTimeout.String(),
		"write_timeout":    s.WriteTimeout.String(),
		"shutdown_timeout": s.ShutdownTimeout.String(),
	}, nil
}

// StorageConfig selects and configures the persistence driver.
type StorageConfig struct {
	Driver   string         `mapstructure:"driver" yaml:"driver"`
	File     FileConfig     `mapstructure:"file" yaml:"file"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	S3       S3Config       `mapstructure:"s3" yaml:"s3"`
	Pebble   PebbleConfig   `mapstructure:"pebble" yaml:"pebble"`
}

// FileConfig configures the JSON file driver.
type FileConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SQLiteConfig configures the sqlite driver.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// PostgresConfig configures the postgres driver.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// S3Config configures the S3 driver. Credentials come from the default AWS chain.
type S3Config struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Region    string `mapstructure:"region" yaml:"region"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Key       string `mapstructure:"key" yaml:"key"`
	PathStyle bool   `mapstructure:"path_style" yaml:"path_style"`
}

// PebbleConfig configures the pebble driver.
type PebbleConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// EventsConfig configures batch event publishing.
type EventsConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka" yaml:"kafka"`
}

// KafkaConfig enables the Kafka publisher when both brokers and topic are set.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic" yaml:"topic"`
}

// Enabled reports whether events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && strings.TrimSpace(k.Topic) != ""
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// TraceConfig toggles JSON span output on stderr.
type TraceConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Defaults returns the default value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"server.addr":             ":8080",
		"server.read_timeout":     "10s",
		"server.write_timeout":    "10s",
		"server.shutdown_timeout": "5s",
		"storage.driver":          "file",
		"storage.file.path":       "customers.json",
		"storage.sqlite.path":     "customerdesk.db",
		"storage.postgres.dsn":    "postgres://localhost/customerdesk?sslmode=disable",
		"storage.s3.bucket":       "",
		"storage.s3.region":       "us-east-1",
		"storage.s3.endpoint":     "",
		"storage.s3.key":          "customers.json",
		"storage.s3.path_style":   false,
		"storage.pebble.dir":      "customerdesk.pebble",
		"events.kafka.brokers":    []string{},
		"events.kafka.topic":      "",
		"log.level":               "info",
		"log.format":              "text",
		"metrics.enabled":         true,
		"metrics.path":            "/metrics",
		"trace.enabled":           false,
	}
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"addr":           "server.addr",
	"storage-driver": "storage.driver",
	"storage-path":   "storage.file.path",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// getConfigDir returns the user or system configuration directory.
func getConfigDir(system bool) (string, error) {
	if system {
		return "/etc/customerdesk", nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "customerdesk"), nil
}

// Load resolves the configuration. An explicit path must exist; otherwise
// customerdesk.yaml is looked up in the working directory, the user config
// directory and /etc/customerdesk, and its absence is not an error.
func Load(cmd *cobra.Command, path string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("customerdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := getConfigDir(false); err == nil {
			v.AddConfigPath(dir)
		}
		if dir, err := getConfigDir(true); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return c, err
		}
		if err := bindFlags(v, cmd.InheritedFlags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

var knownDrivers = []string{"file", "memory", "sqlite", "postgres", "s3", "pebble"}

// Validate rejects settings no component can act on.
func (c Config) Validate() error {
	known := false
	for _, d := range knownDrivers {
		if c.Storage.Driver == d {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown storage driver %q (want one of %s)", c.Storage.Driver, strings.Join(knownDrivers, ", "))
	}
	if c.Storage.Driver == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket required for s3 driver")
	}
	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics.path must start with /: %q", c.Metrics.Path)
		}
		if reservedPath(c.Metrics.Path) {
			return fmt.Errorf("metrics.path %q collides with a service route", c.Metrics.Path)
		}
	}
	return nil
}

// reservedPath reports whether p is already routed by the HTTP server.
func reservedPath(p string) bool {
	switch p {
	case "/customers", "/healthz":
		return true
	}
	return strings.HasPrefix(p, "/customers/")
}
