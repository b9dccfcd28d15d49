package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"mlbcast/internal/auth"
	"mlbcast/internal/config"
	"mlbcast/internal/fixture"
	"mlbcast/internal/gateway"
	"mlbcast/internal/logging"
	"mlbcast/internal/metrics"
	"mlbcast/internal/tui"
)

const appVersion = "dev"

var (
	flagConfig  string
	flagOffline bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mlbcast",
		Short: "Generate MLB team podcasts from the terminal",
		Long: "mlbcast assembles a podcast request for an MLB team — players, game,\n" +
			"language — and submits it to the generation service. Running it without a\n" +
			"subcommand starts the interactive wizard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWizard,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	root.PersistentFlags().BoolVar(&flagOffline, "offline", false, "serve canned fixture data instead of calling the service")

	root.AddCommand(newTeamsCommand())
	root.AddCommand(newGenerateCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mlbcast %s\n", appVersion)
		},
	}
}

// appContext bundles the shared pieces each command needs.
type appContext struct {
	cfg      config.Config
	logger   *slog.Logger
	recorder *metrics.Recorder
	gw       *gateway.Gateway
	shutdown func(context.Context) error
}

func buildApp(ctx context.Context) (*appContext, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagOffline {
		cfg.Offline = true
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "mlbcast",
		Version: appVersion,
	})

	recorder, promHandler, metricsShutdown, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		recorder = metrics.NewRecorder()
		metricsShutdown = func(context.Context) error { return nil }
		promHandler = nil
	}

	if promHandler != nil && cfg.Metrics.Enabled {
		srv := &http.Server{Addr: ":" + cfg.Metrics.Port, Handler: promHandler}
		go func() {
			logging.Info(logger, "metrics server starting", "addr", srv.Addr)
			if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				logging.Warn(logger, "metrics server failed", "error", serveErr)
			}
		}()
	}

	gwCfg := gateway.Config{
		BaseURL:      cfg.APIBaseURL,
		HTTPTimeout:  cfg.HTTPTimeout,
		HistoryCount: cfg.HistoryCount,
		Logger:       logger,
		Metrics:      recorder,
	}
	if cfg.APIToken != "" {
		gwCfg.Tokens = auth.StaticTokenSource(cfg.APIToken)
	}
	if cfg.Offline {
		gwCfg.HTTPClient = &http.Client{Transport: fixture.New()}
	}

	return &appContext{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		gw:       gateway.New(gwCfg),
		shutdown: metricsShutdown,
	}, nil
}

func (a *appContext) close(ctx context.Context) {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			logging.Warn(a.logger, "metrics shutdown failed", "error", err)
		}
	}
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.close(ctx)

	return tui.Run(tui.RunOpts{
		Gateway:         app.gw,
		Logger:          app.logger,
		DefaultLanguage: app.cfg.Language,
	})
}
