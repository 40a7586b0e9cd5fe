package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate keeps developer config files out of the lookup path.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("addr", ":8080", "")
	cmd.Flags().String("storage-driver", "file", "")
	cmd.Flags().String("storage-path", "customers.json", "")
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(newCommand(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "customers.json", cfg.Storage.File.Path)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Events.Kafka.Enabled())
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "customerdesk.yaml")
	body := "server:\n  addr: \":9000\"\n  read_timeout: 30s\nstorage:\n  driver: sqlite\n  sqlite:\n    path: /var/lib/desk.db\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))

	t.Setenv("CUSTOMERDESK_LOG_LEVEL", "warn")
	t.Setenv("CUSTOMERDESK_EVENTS_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CUSTOMERDESK_EVENTS_KAFKA_TOPIC", "customer-batches")

	cmd := newCommand()
	require.NoError(t, cmd.Flags().Set("addr", ":9100"))

	cfg, err := Load(cmd, file)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr, "flag beats file")
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout, "file beats default")
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/desk.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "warn", cfg.Log.Level, "env beats file")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Kafka.Brokers)
	assert.True(t, cfg.Events.Kafka.Enabled())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(newCommand(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	isolate(t)
	cmd := newCommand()
	require.NoError(t, cmd.Flags().Set("storage-driver", "floppy"))
	_, err := Load(cmd, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage driver "floppy"`)
}

func TestValidate(t *testing.T) {
	base := Config{Storage: StorageConfig{Driver: "file"}, Metrics: MetricsConfig{Enabled: true, Path: "/metrics"}}
	require.NoError(t, base.Validate())

	s3 := base
	s3.Storage.Driver = "s3"
	assert.ErrorContains(t, s3.Validate(), "bucket required")
	s3.Storage.S3.Bucket = "desk"
	assert.NoError(t, s3.Validate())

	metrics := base
	metrics.Metrics.Path = "metrics"
	assert.ErrorContains(t, metrics.Validate(), "metrics.path")
	metrics.Metrics.Enabled = false
	assert.NoError(t, metrics.Validate())
}

func TestValidateRejectsRoutedMetricsPath(t *testing.T) {
	for _, path := range []string{"/customers", "/customers/", "/customers/stats", "/healthz"} {
		cfg := Config{Storage: StorageConfig{Driver: "file"}, Metrics: MetricsConfig{Enabled: true, Path: path}}
		assert.ErrorContains(t, cfg.Validate(), "collides with a service route", path)
	}
	ok := Config{Storage: StorageConfig{Driver: "file"}, Metrics: MetricsConfig{Enabled: true, Path: "/customers-metrics"}}
	assert.NoError(t, ok.Validate())
}

func TestServerConfigYAML(t *testing.T) {
	out, err := yaml.Marshal(Config{Server: ServerConfig{Addr: ":8080", ReadTimeout: 10 * time.Second}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "read_timeout: 10s")
	assert.Contains(t, string(out), "shutdown_timeout: 0s")
}
