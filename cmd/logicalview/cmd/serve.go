package cmd

import (
	"context"
	"fmt"

	"github.com/GoCodeAlone/logicalview/internal/telemetry"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the web server. Settings come from the optional config file
and LOGICALVIEW_* environment variables; the environment wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			telemetryCfg, err := telemetry.LoadConfig()
			if err != nil {
				return err
			}
			shutdown, err := telemetry.Setup(cmd.Context(), telemetryCfg)
			if err != nil {
				return fmt.Errorf("setting up telemetry: %w", err)
			}
			defer func() {
				if err := shutdown(context.WithoutCancel(cmd.Context())); err != nil {
					app.Logger().Error("Telemetry shutdown failed", "error", err)
				}
			}()

			return app.RunWithContext(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (.yaml, .yml or .toml)")

	return cmd
}
