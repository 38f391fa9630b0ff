// Package cmd implements the logicalview command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates the root command for the logicalview application
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logicalview",
		Short:   "LogicalView - view-context composition demo server",
		Version: PrintVersion(),
		Long: `LogicalView serves pages whose templates call helpers composed from
layout-level and controller-level view contexts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}

// PrintVersion returns version information
func PrintVersion() string {
	return fmt.Sprintf("LogicalView v%s (commit: %s, built on: %s)", Version, Commit, Date)
}
