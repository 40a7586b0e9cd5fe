package core

import (
	"context"
	"fmt"
	"strings"

	"customerdesk/internal/config"
	"customerdesk/internal/infra/events/kafka"
	"customerdesk/internal/infra/persistence/file"
	"customerdesk/internal/infra/persistence/memory"
	"customerdesk/internal/infra/persistence/pebble"
	"customerdesk/internal/infra/persistence/postgres"
	"customerdesk/internal/infra/persistence/s3"
	"customerdesk/internal/infra/persistence/sqlite"
)

// OpenPersister selects a persistence backend from cfg. An empty driver
// selects the JSON file driver.
func OpenPersister(ctx context.Context, cfg config.StorageConfig) (Persister, error) {
	driver := StorageDriver(strings.ToLower(strings.TrimSpace(cfg.Driver)))
	if driver == "" {
		driver = StorageFile
	}
	switch driver {
	case StorageFile:
		return file.New(cfg.File.Path), nil
	case StorageMemory:
		return memory.New(), nil
	case StorageSQLite:
		return sqlite.New(ctx, cfg.SQLite.Path)
	case StoragePostgres:
		return postgres.New(ctx, cfg.Postgres.DSN)
	case StorageS3:
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Key:       cfg.S3.Key,
			PathStyle: cfg.S3.PathStyle,
		})
	case StoragePebble:
		return pebble.New(cfg.Pebble.Dir, nil)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// OpenPublisher returns the Kafka publisher when configured, NoopPublisher otherwise.
func OpenPublisher(cfg config.EventsConfig) EventPublisher {
	if !cfg.Kafka.Enabled() {
		return NoopPublisher{}
	}
	return kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
