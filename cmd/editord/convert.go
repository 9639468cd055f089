package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/editord/convert"
	editordlogger "github.com/aschepis/backscratcher/editord/logger"
	"github.com/aschepis/backscratcher/editord/normalize"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Run a single conversion and print the JSON result",
}

var convertLatexCmd = &cobra.Command{
	Use:   "latex <text>",
	Short: "Convert text to an inline LaTeX snippet",
	Args:  cobra.MinimumNArgs(1),
	RunE: runConversion(func(cmd *cobra.Command, svc *convert.Service, text string) (any, normalize.Source, error) {
		out, err := svc.Latex(cmd.Context(), text)
		return map[string]string{"latex": out.Latex, "original_text": text}, out.Source, err
	}),
}

var convertBlockCmd = &cobra.Command{
	Use:   "block <text>",
	Short: "Convert a description to a LaTeX block",
	Args:  cobra.MinimumNArgs(1),
	RunE: runConversion(func(cmd *cobra.Command, svc *convert.Service, text string) (any, normalize.Source, error) {
		out, err := svc.LatexBlock(cmd.Context(), text)
		return map[string]string{"latexCode": out.Latex, "originalText": text}, out.Source, err
	}),
}

var convertTableCmd = &cobra.Command{
	Use:   "table <prompt>",
	Short: "Generate table data from a description",
	Args:  cobra.MinimumNArgs(1),
	RunE: runConversion(func(cmd *cobra.Command, svc *convert.Service, text string) (any, normalize.Source, error) {
		out, err := svc.Table(cmd.Context(), text)
		return map[string]any{"tableData": out.Rows, "originalPrompt": text}, out.Source, err
	}),
}

func init() {
	convertCmd.AddCommand(convertLatexCmd, convertBlockCmd, convertTableCmd)
}

type conversionFunc func(cmd *cobra.Command, svc *convert.Service, text string) (any, normalize.Source, error)

// runConversion wires a one-shot conversion: logs go to stderr, the JSON result to stdout.
func runConversion(fn conversionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := editordlogger.New(os.Stderr, editordlogger.LevelFromEnv())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := newService(cfg, logger)
		if err != nil {
			return err
		}

		result, source, err := fn(cmd, svc, strings.Join(args, " "))
		if err != nil {
			return err
		}
		logger.Debug().Str("source", string(source)).Msg("conversion finished")
		return printJSON(cmd.OutOrStdout(), result)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
