package main

import (
	"fmt"

	"overseer/internal/config"
	"overseer/internal/status"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status page once and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Status.Engine == config.EngineLink {
			return fmt.Errorf("the %s engine does not check the status page", config.EngineLink)
		}
		engine, ok := status.NewEngine(cfg.Status.Engine, cfg.Status.ChromePath)
		if !ok {
			return fmt.Errorf("unknown status engine %q", cfg.Status.Engine)
		}

		result := status.NewResolver(engine).Resolve(cmd.Context(), cfg.Query(), cfg.Resolver())
		fmt.Fprintln(cmd.OutOrStdout(), result)
		if result.Kind == status.ResultFailure {
			return fmt.Errorf("status check failed: %s", result.Failure)
		}
		return nil
	},
}
