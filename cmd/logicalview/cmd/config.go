package cmd

import (
	"fmt"

	"github.com/GoCodeAlone/logicalview"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewConfigSampleCommand())

	return cmd
}

// NewConfigSampleCommand creates the config sample command
func NewConfigSampleCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a sample configuration with every default filled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := logicalview.SaveSampleConfig(&FileConfig{}, format, output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", output)
				return nil
			}

			data, err := logicalview.GenerateSampleConfig(&FileConfig{}, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}
