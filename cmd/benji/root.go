package main

import (
	"github.com/spf13/cobra"

	"benji/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		yamlOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "benji",
		Short: "Benji generates, deduplicates and exports numbered bingo sheets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configureLogger(logLevel, cfg.LogLevel); err != nil {
				return err
			}
			selectFormatter(jsonOutput, yamlOutput)
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output YAML")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newGenerateCmd(cfg),
		newRegenerateCmd(cfg),
		newStatusCmd(cfg),
		newCodesCmd(cfg),
		newExportCmd(cfg),
		newPDFCmd(cfg),
		newCleanupCmd(cfg),
	)

	return cmd
}
