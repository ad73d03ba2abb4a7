package cmd

import (
	"fmt"

	"abscomp/core/config"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// configCmd validates a config file and prints it with secrets masked.
var configCmd = &cobra.Command{
	Use:   "config [config.toml]",
	Short: "Validate and print the configuration",
	Long: `Loads the config file, the .env file next to it and the environment,
validates the result and prints it with tokens and keys masked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile(args))
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg.Masked(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
