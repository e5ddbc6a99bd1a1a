package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/provisionr/cmd/provisionr/handlers"
)

// Check returns the command reporting whether a run could succeed.
//
// Flags:
//
//	--json: Print the report as JSON
//	--probe: Also run tools reached through the package manager
func Check() *cobra.Command {
	var opts handlers.CheckOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the host without changing anything",
		Long: `Check the host platform, the project manifest and the tools a run
depends on, without installing anything.

Tools reached through the package manager are only run with --probe,
because the manager may resolve the project environment on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := globalFlags(cmd)
			opts.ConfigPath, opts.Verbose, opts.NoColor = g.configPath, g.verbose, g.noColor
			return handlers.Check(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&opts.Probe, "probe", false, "Also run tools reached through the package manager")

	return cmd
}
