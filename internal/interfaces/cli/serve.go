package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/turtacn/molrad/internal/application/filters"
	"github.com/turtacn/molrad/internal/config"
	prom "github.com/turtacn/molrad/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/internal/intelligence/radial"
	httpapi "github.com/turtacn/molrad/internal/interfaces/http"
	"github.com/turtacn/molrad/internal/interfaces/http/handlers"
	"github.com/turtacn/molrad/internal/interfaces/http/middleware"
	"github.com/turtacn/molrad/pkg/errors"
)

var errNoLevels = errors.Internal("filter bank has no levels")

type serveOptions struct {
	rateLimit        float64
	burst            int
	batchConcurrency int
	watch            bool
}

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the filter bank over HTTP",
		Long: "Serve the configured filter bank over HTTP.  With --config and --watch the\n" +
			"config file is watched and the bank is rebuilt and swapped on every valid change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cliCtx, opts, nil)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&opts.rateLimit, "rate-limit", 50, "evaluation requests per second per client; 0 disables")
	f.IntVar(&opts.burst, "burst", 100, "rate limiter burst size")
	f.IntVar(&opts.batchConcurrency, "batch-concurrency", filters.DefaultBatchConcurrency, "parallel evaluations per batch request")
	f.BoolVar(&opts.watch, "watch", true, "reload the bank when the config file changes")
	return cmd
}

// runServe serves until ctx is done.  A nil ln listens on the configured port.
func runServe(ctx context.Context, cliCtx *CLIContext, opts *serveOptions, ln net.Listener) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger
	gin.SetMode(cfg.Server.Mode)

	var (
		metrics   radial.Metrics
		recorder  middleware.RequestRecorder
		collector prom.MetricsCollector
	)
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prom.NewMetricsCollector(prom.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		rm := prom.NewRadialMetrics(collector)
		metrics, recorder = rm, rm
	}

	bank, err := filters.NewBankFromConfig(cfg.Radial, logger, metrics)
	if err != nil {
		return err
	}
	svc, err := filters.NewService(bank, cfg.Server.MaxPairs, logger)
	if err != nil {
		return err
	}

	if opts.watch && cliCtx.ConfigPath != "" {
		if _, err := config.Watch(cliCtx.ConfigPath, reloadBank(svc, logger, metrics), func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		}); err != nil {
			return err
		}
	}

	rc := httpapi.RouterConfig{
		FilterHandler: handlers.NewFilterHandler(svc, opts.batchConcurrency),
		HealthHandler: handlers.NewHealthHandler(Version, handlers.CheckFunc{
			CheckName: "filter_bank",
			Fn: func(context.Context) error {
				if svc.Bank().NumLevels() == 0 {
					return errNoLevels
				}
				return nil
			},
		}),
		Logger:   logger,
		Logging:  middleware.DefaultLoggingConfig(),
		Recorder: recorder,
	}
	if collector != nil {
		rc.MetricsHandler = collector.Handler()
		rc.MetricsPath = cfg.Metrics.Path
	}
	if opts.rateLimit > 0 {
		limiter := middleware.NewTokenBucketLimiter(opts.rateLimit, opts.burst, time.Minute)
		defer limiter.Stop()
		rc.RateLimiter = limiter
	}

	srv := httpapi.NewServer(httpapi.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpapi.NewRouter(rc), logger)

	errCh := make(chan error, 1)
	go func() {
		if ln != nil {
			errCh <- srv.Serve(ln)
			return
		}
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// reloadBank rebuilds the bank from a reloaded config and swaps it in.  A
// config whose radial section cannot be built leaves the current bank.
func reloadBank(svc *filters.Service, logger logging.Logger, metrics radial.Metrics) func(*config.Config) {
	return func(cfg *config.Config) {
		bank, err := filters.NewBankFromConfig(cfg.Radial, logger, metrics)
		if err != nil {
			logger.Warn("filter bank rebuild failed", logging.Err(err))
			return
		}
		svc.Swap(bank)
	}
}

//Personal.AI order the ending
