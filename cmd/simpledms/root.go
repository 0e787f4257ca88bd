package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jbweber/homelab/simpledms/internal/api"
	"github.com/jbweber/homelab/simpledms/internal/config"
	"github.com/jbweber/homelab/simpledms/internal/logging"
	"github.com/jbweber/homelab/simpledms/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// flagKeys maps serve flags to the config keys they override
var flagKeys = map[string]string{
	"port":      "server.port",
	"db-driver": "database.driver",
	"db-dsn":    "database.dsn",
	"log-level": "logging.level",
	"log-file":  "logging.file",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "simpledms",
		Short:        "Customer, department and FAQ management service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(viper.New()))
	return root
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a TOML, YAML or JSON config file")
	flags.String("port", "", "HTTP listen port")
	flags.String("db-driver", "", "database driver (sqlite or postgres)")
	flags.String("db-dsn", "", "database file path or connection string")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "path of the rotated JSON log file")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}
	return cmd
}

// bindFlags makes each flag in flagKeys override its config key once set
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newRouter assembles the middleware stack, the API routes and the metrics endpoint
func newRouter(a *api.API, logger *slog.Logger, reg *prometheus.Registry) *chi.Mux {
	m := metrics.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(m.Middleware)
	r.Use(middleware.Recoverer)

	a.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func serve(ctx context.Context, cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger, err := logging.SetupLogger(cfg.Logging.File, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ds, err := cfg.InitializeDatabase(ctx)
	if err != nil {
		logger.Error("Failed to initialize database", slog.Any("error", err))
		return err
	}
	defer ds.Close()

	a := api.NewAPI(ds, logger)
	defer a.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewDBStatsCollector(ds.DB, ds.Dialect.String()))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(a, logger, reg),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting SimpleDMS web service",
			slog.String("addr", srv.Addr),
			slog.String("driver", ds.Dialect.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("Server failed", slog.Any("error", err))
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
