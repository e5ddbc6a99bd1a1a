package config

import (
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// DefaultConfigFilename is looked up in the working directory when no
// explicit config path is given.
const DefaultConfigFilename = "provisionr.yaml"

// Config is the complete provisioning configuration.
type Config struct {
	Manager  ManagerConfig `mapstructure:"manager" yaml:"manager"`
	Manifest string        `mapstructure:"manifest" yaml:"manifest"`
	Tasks    []string      `mapstructure:"tasks" yaml:"tasks"`
	Runtime  RuntimeConfig `mapstructure:"runtime" yaml:"runtime"`
	AuxTool  AuxToolConfig `mapstructure:"aux_tool" yaml:"aux_tool"`
	FollowUp []string      `mapstructure:"follow_up" yaml:"follow_up,omitempty"`
}

// ManagerConfig describes the package manager and how to install it.
type ManagerConfig struct {
	// Name is the manager binary (e.g. "pixi").
	Name string `mapstructure:"name" yaml:"name"`

	// InstallURL points at the HTTPS install script.
	InstallURL string `mapstructure:"install_url" yaml:"install_url"`

	// InstallDir is where the installer places the binary; prepended to the
	// search path once the manager is present. "~" expands to $HOME.
	InstallDir string `mapstructure:"install_dir" yaml:"install_dir"`

	// InstallShell interprets the install script.
	InstallShell string `mapstructure:"install_shell" yaml:"install_shell"`

	// InstallArgs is the subcommand installing the base dependencies.
	InstallArgs []string `mapstructure:"install_args" yaml:"install_args"`
}

// RuntimeConfig describes the runtime probed for package availability.
type RuntimeConfig struct {
	// Command runs an inline script passed as its last argument,
	// e.g. [pixi run Rscript -e].
	Command []string `mapstructure:"command" yaml:"command"`

	// Packages must all be importable for verification to pass.
	Packages []string `mapstructure:"packages" yaml:"packages"`
}

// AuxToolConfig describes the tool confirmed at the end of the run.
type AuxToolConfig struct {
	Name        string   `mapstructure:"name" yaml:"name"`
	VersionArgs []string `mapstructure:"version_args" yaml:"version_args,omitempty"`

	// ViaManager runs the tool through `<manager> run`.
	ViaManager bool `mapstructure:"via_manager" yaml:"via_manager"`

	// Required turns a failed confirmation into a pipeline failure instead of
	// a warning.
	Required bool `mapstructure:"required" yaml:"required"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Manager: ManagerConfig{
			Name:         "pixi",
			InstallURL:   "https://pixi.sh/install.sh",
			InstallDir:   "~/.pixi/bin",
			InstallShell: "bash",
			InstallArgs:  []string{"install"},
		},
		Manifest: "pixi.toml",
		Tasks:    []string{"setup-r", "install-r-packages"},
		Runtime: RuntimeConfig{
			Command:  []string{"pixi", "run", "Rscript", "-e"},
			Packages: []string{"tidyverse", "rmarkdown", "knitr", "devtools", "testthat"},
		},
		AuxTool: AuxToolConfig{
			Name:        "quarto",
			VersionArgs: []string{"--version"},
			ViaManager:  true,
			Required:    true,
		},
		FollowUp: []string{
			"pixi run render",
			"pixi shell",
		},
	}
}

// InstallDirPath returns Manager.InstallDir with "~" expanded.
func (c *Config) InstallDirPath() (string, error) {
	return searchpath.ExpandHome(c.Manager.InstallDir)
}

// VersionArguments returns the auxiliary tool's version arguments, defaulting to --version.
func (a AuxToolConfig) VersionArguments() []string {
	if len(a.VersionArgs) == 0 {
		return []string{"--version"}
	}
	return a.VersionArgs
}
