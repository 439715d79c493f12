package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/cmd/dashboard-server/server"
	"github.com/shlapabank/dashboard-go/internal/logging"
	"github.com/shlapabank/dashboard-go/pkg/config"
	"github.com/shlapabank/dashboard-go/pkg/session"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var configPath string

	cmd := &cobra.Command{
		Use:          "dashboard-server",
		Short:        "Serve the banking dashboard engine over JSON-RPC and websocket signals",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, configPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a TOML config file")
	flags.String("address", "127.0.0.1:0", "host:port to listen")
	flags.String("backend", "", "banking API base URL")
	flags.String("locale", "", "UI locale (ru or en)")
	flags.String("log-file", "", "write JSON logs to this file instead of the console")
	flags.String("log-level", "", "minimum log level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		"server.address":   "address",
		"backend.base_url": "backend",
		"ui.locale":        "locale",
		"log.file":         "log-file",
		"log.level":        "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(ctx context.Context, v *viper.Viper, configPath string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	rootLogger, err := logging.New(logging.Options{Enabled: cfg.Log.Enabled, File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return errors.Wrap(err, "failed to initialize log")
	}
	zap.ReplaceGlobals(rootLogger)
	defer func() { _ = rootLogger.Sync() }()
	logger := rootLogger.Named("main")

	svc := session.NewDashboardService(cfg, session.WithLogger(rootLogger))
	if err = svc.Start(&session.StartRequest{}, &struct{}{}); err != nil {
		return err
	}

	srv := server.NewServer(svc, rootLogger)
	srv.Setup()
	if err = srv.Listen(cfg.Server.Address); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		return err
	}
	logger.Info("dashboard-server started", zap.String("address", srv.Address()), zap.String("backend", cfg.Backend.BaseURL))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go srv.Serve()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
	return svc.Stop(&struct{}{}, &struct{}{})
}
