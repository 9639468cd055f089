package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/editord/server"
)

var (
	serveAddr    string
	serveLogFile string
	servePretty  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the conversion HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config, e.g. :8000)")
	serveCmd.Flags().StringVar(&serveLogFile, "logfile", "", "Path to log file. If not set, logs to stdout")
	serveCmd.Flags().BoolVar(&servePretty, "pretty", false, "Use pretty console output (only valid when logfile is not set)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := initLogger(serveLogFile, servePretty)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Server.Addr).Str("version", version).Msg("editord starting")
	if err := server.New(cfg.ServerConfig(logger), svc).Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info().Msg("editord stopped")
	return nil
}
