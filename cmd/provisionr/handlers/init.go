package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// buildConfig turns wizard answers into a config.
	buildConfig = wizard.BuildConfig

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, force bool) error {
	if fileExists(outputPath) {
		if !force {
			return fmt.Errorf("%w: %s (use --force to overwrite)", wizard.ErrConfigExists, outputPath)
		}
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome(stdout)

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := buildConfig(result)

	if err := writeConfig(cfg, outputPath, force); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(stdout, outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "provisionr - project environment setup")
	fmt.Fprintln(w, "======================================")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This wizard creates a provisioning configuration for this repository.")
	fmt.Fprintln(w, "Unasked settings keep their defaults and can be edited afterwards.")
	fmt.Fprintln(w)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(w io.Writer, outputPath string, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration saved!")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  File: %s\n", outputPath)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Manager:   %s\n", cfg.Manager.Name)
	fmt.Fprintf(w, "  Manifest:  %s\n", cfg.Manifest)
	fmt.Fprintf(w, "  Tasks:     %s\n", listOrNone(cfg.Tasks))
	fmt.Fprintf(w, "  Packages:  %s\n", listOrNone(cfg.Runtime.Packages))
	if cfg.AuxTool.Name != "" {
		mode := "optional"
		if cfg.AuxTool.Required {
			mode = "required"
		}
		fmt.Fprintf(w, "  Aux tool:  %s (%s)\n", cfg.AuxTool.Name, mode)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Next Steps")
	fmt.Fprintln(w, "----------")
	fmt.Fprintf(w, "  1. Review %s if needed\n", outputPath)
	fmt.Fprintln(w)
	flag := ""
	if outputPath != config.DefaultConfigFilename {
		flag = " --config " + outputPath
	}
	fmt.Fprintln(w, "  2. Check the host:")
	fmt.Fprintf(w, "     provisionr check%s\n", flag)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  3. Provision the environment:")
	fmt.Fprintf(w, "     provisionr%s\n", flag)
	fmt.Fprintln(w)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
