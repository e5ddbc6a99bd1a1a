package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/provisionr/cmd/provisionr/handlers"
	"github.com/imamik/provisionr/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "provisionr.yaml")
//	--force: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a provisioning configuration",
		Long: `Interactively create a provisioning configuration file.

The wizard asks about:

  - The package manager and the project manifest
  - The setup tasks to run, in order
  - The runtime packages to verify
  - The auxiliary tool to confirm
  - The commands shown once the environment is ready

Settings the wizard does not ask about keep their defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
