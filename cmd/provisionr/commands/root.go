// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/provisionr/cmd/provisionr/handlers"
)

// Root returns the root command for the provisionr CLI.
//
// Running the root command without a subcommand provisions the project in the
// working directory.
//
// Flags:
//
//	--config, -c: Path to the config file (default: provisionr.yaml when present)
//	--verbose, -v: Log external commands and search path changes
//	--no-color: Disable colored output
//	--tui: Show an interactive progress view
//	--dry-run: Report what would run without changing anything
//	--json: Print a JSON summary on stdout
//	--metrics-file: Write Prometheus metrics for the run to a file
func Root() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "provisionr",
		Short: "Set up a project's development environment in one run",
		Long: `Set up a project's development environment in one run.

provisionr runs these steps in order and stops at the first failure:

  1. Detect the host platform
  2. Locate the project manifest
  3. Install the package manager if it is missing
  4. Install the base dependencies
  5. Run the project's setup tasks
  6. Verify the runtime packages
  7. Confirm the auxiliary tool

Run it from the repository root. Re-running is safe: completed work is
detected and skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := globalFlags(cmd)
			opts.ConfigPath, opts.Verbose, opts.NoColor = g.configPath, g.verbose, g.noColor
			return handlers.Run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: provisionr.yaml when present)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log external commands and search path changes")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Show an interactive progress view")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would run without changing anything")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print a JSON summary on stdout")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics for the run to this file")

	cmd.AddCommand(Check())
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

type globals struct {
	configPath string
	verbose    bool
	noColor    bool
}

// globalFlags reads the persistent flags inherited by cmd.
func globalFlags(cmd *cobra.Command) globals {
	var g globals
	g.configPath, _ = cmd.Flags().GetString("config")
	g.verbose, _ = cmd.Flags().GetBool("verbose")
	g.noColor, _ = cmd.Flags().GetBool("no-color")
	return g
}
