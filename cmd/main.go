package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/propcast/internal/adapters/tabular"
	pipeline "github.com/okian/propcast/internal/app"
	"github.com/okian/propcast/internal/config"
	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Metrics listener timeouts. The listener only matters while a run is
// in flight, so these stay tight.
const (
	readTimeout       = 5 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	// Disable default Go metrics collection; the pipeline exposes its
	// own counters on a custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't
		// available yet.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Optional metrics listener, best effort for the run's duration.
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Handler(),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			log.Info(ctx, "serving metrics", logger.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn(ctx, "metrics listener failed", logger.Error(err))
			}
		}()
		defer srv.Close()
	}

	store := tabular.NewStore(cfg.DataDir, tabular.WithLogger(log.Named("store")))
	p := pipeline.New(store, append(
		pipeline.FromConfig(cfg),
		pipeline.WithLogger(log.Named("pipeline")),
	)...)

	if err := p.Run(ctx); err != nil {
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		return 1
	}
	return 0
}
