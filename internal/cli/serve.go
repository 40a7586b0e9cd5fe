package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"customerdesk/internal/config"
	"customerdesk/internal/core"
	"customerdesk/internal/logging"
	"customerdesk/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, root.ConfigPath)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("storage-driver", "file", "storage driver (file|memory|sqlite|postgres|s3|pebble)")
	cmd.Flags().String("storage-path", "customers.json", "path of the JSON file used by the file driver")

	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log := logging.Adapt(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, err := core.OpenPersister(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = persister.Close() }()

	publisher := core.OpenPublisher(cfg.Events)
	defer func() { _ = publisher.Close() }()

	opts := []core.ServiceOption{core.WithLogger(log), core.WithEventPublisher(publisher)}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder, err := core.NewPrometheusMetricsRecorder(reg)
		if err != nil {
			return err
		}
		opts = append(opts, core.WithMetricsRecorder(recorder))
		gatherer = reg
	}
	if cfg.Trace.Enabled {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr())))
	}

	svc, err := core.Open(ctx, persister, opts...)
	if err != nil {
		log.Error("startup failed", "driver", persister.Driver(), "error", err)
		return err
	}

	log.Info("starting customerdesk", "addr", cfg.Server.Addr, "driver", persister.Driver(), "events", cfg.Events.Kafka.Enabled())
	return server.New(cfg, svc, gatherer, log).ListenAndRun(ctx)
}
