package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aschepis/backscratcher/editord/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the editord config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to --config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configPath, configForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nSet gemini.api_key (or another provider) before running editord serve.\n", configPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}
