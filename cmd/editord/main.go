// editord
//
// HTTP backend that turns natural-language text into LaTeX snippets, LaTeX
// blocks and table data through a hosted LLM.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/editord/config"
	"github.com/aschepis/backscratcher/editord/convert"
	editordlogger "github.com/aschepis/backscratcher/editord/logger"
)

var (
	version    = "dev"
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "editord",
	Short: "editord - natural language to LaTeX and tables",
	Long: `editord converts natural-language text into LaTeX and structured tables.

  editord config init                              Write a default config file
  editord serve                                    Start the HTTP server
  editord convert latex "x squared over two"       Convert one snippet
  editord convert block "the quadratic formula"    Convert a LaTeX block
  editord convert table "3 columns of fruit"       Generate table data`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetConfigPath(), "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file (skipped if missing)")
	rootCmd.AddCommand(serveCmd, convertCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env and the config file.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newService builds the conversion service. A missing provider is not fatal:
// the service runs unconfigured and answers with fallbacks.
func newService(cfg *config.Config, logger zerolog.Logger) (*convert.Service, error) {
	client, key, err := config.NewClient(cfg, logger)
	switch {
	case errors.Is(err, config.ErrNoProvider):
		logger.Warn().Err(err).Msg("No LLM provider configured, conversions will use fallbacks")
	case err != nil:
		return nil, err
	default:
		logger.Info().Str("provider", key.Provider).Str("model", key.Model).Msg("LLM provider selected")
	}
	return convert.New(cfg.ConvertConfig(logger), client), nil
}

// initLogger validates the log flags and creates the process logger.
func initLogger(logFile string, pretty bool) (zerolog.Logger, error) {
	if logFile != "" && pretty {
		return zerolog.Logger{}, fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}
	logger, err := editordlogger.InitWithOptions(logFile, pretty)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
