// Command nika is the CLI surface over the core execution subsystem:
// validate, run, and plan a workflow document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nika",
		Short:        "Nika workflow engine",
		Long:         "nika validates, plans, and runs Nika workflow documents.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("config", "", "path to a nika config YAML file")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error, disabled")
	cmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	cmd.AddCommand(validateCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(planCmd())
	return cmd
}
