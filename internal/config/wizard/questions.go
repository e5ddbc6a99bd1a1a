package wizard

import (
	"context"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/provisionr/internal/platform/rscript"
)

// runManagerGroup prompts for the package manager and manifest filename.
func runManagerGroup(ctx context.Context, result *WizardResult) error {
	result.Manager = ManagerPresets[0].Value

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Package Manager").
				Description("Installed on demand when missing").
				Options(ManagerPresetsToOptions()...).
				Value(&result.Manager),
		).Title("Package Manager"),
	).RunWithContext(ctx); err != nil {
		return err
	}

	preset, _ := PresetByValue(result.Manager)
	result.Manifest = preset.Manifest

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Manifest").
				Description("File marking the repository root").
				Placeholder(preset.Manifest).
				Value(&result.Manifest).
				Validate(validateManifest),
		),
	).RunWithContext(ctx)
}

// runTasksGroup prompts for the chained tasks.
func runTasksGroup(ctx context.Context, result *WizardResult) error {
	tasksInput := "setup-r, install-r-packages"

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tasks").
				Description("Comma-separated manifest tasks run in order after the base install").
				Placeholder("setup-r, install-r-packages").
				Value(&tasksInput).
				Validate(validateTaskList),
		).Title("Tasks"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.Tasks = parseList(tasksInput)
	return nil
}

// runPackagesGroup prompts for the runtime packages to verify.
func runPackagesGroup(ctx context.Context, result *WizardResult) error {
	var extraInput string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Packages").
				Description("Packages the runtime must be able to load").
				Options(PackagesToOptions()...).
				Value(&result.Packages),
			huh.NewInput().
				Title("Additional Packages (Optional)").
				Description("Comma-separated package names").
				Value(&extraInput).
				Validate(validatePackageList),
		).Title("Runtime Packages"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	for _, p := range parseList(extraInput) {
		if !contains(result.Packages, p) {
			result.Packages = append(result.Packages, p)
		}
	}
	return nil
}

// runAuxToolGroup prompts for the auxiliary tool.
func runAuxToolGroup(ctx context.Context, result *WizardResult) error {
	result.AuxTool = AuxTools[0].Value
	result.AuxViaManager = true
	result.AuxToolRequired = true

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Auxiliary Tool").
				Description("Confirmed with a version query at the end of the run").
				Options(AuxToolsToOptions()...).
				Value(&result.AuxTool),
		).Title("Auxiliary Tool"),
	).RunWithContext(ctx); err != nil {
		return err
	}

	if result.AuxTool == AuxToolNone {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run through the package manager?").
				Description("Use `" + result.Manager + " run " + result.AuxTool + "` instead of the system binary").
				Value(&result.AuxViaManager),
			huh.NewConfirm().
				Title("Fail the run when it is missing?").
				Description("Otherwise a warning is printed").
				Value(&result.AuxToolRequired),
		),
	).RunWithContext(ctx)
}

// runFollowUpGroup prompts for the commands listed in the closing banner.
func runFollowUpGroup(ctx context.Context, result *WizardResult) error {
	followUp := result.Manager + " run render; " + result.Manager + " shell"

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Next Steps").
				Description("Semicolon-separated commands shown after a successful run").
				Value(&followUp).
				Validate(validateCommandList),
		).Title("Follow-up"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.FollowUp = parseCommands(followUp)
	return nil
}

// Validation functions

func validateManifest(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errManifestRequired
	}
	if strings.ContainsAny(s, `/\`) {
		return errManifestIsPath
	}
	return nil
}

func validateTaskList(s string) error {
	for _, task := range parseList(s) {
		if strings.ContainsAny(task, " \t") {
			return errTaskNameInvalid
		}
	}
	return nil
}

func validatePackageList(s string) error {
	for _, p := range parseList(s) {
		if err := rscript.ValidatePackageName(p); err != nil {
			return err
		}
	}
	return nil
}

func validateCommandList(s string) error {
	if len(parseCommands(s)) == 0 {
		return errCommandRequired
	}
	return nil
}

// parseList splits a comma-separated list, dropping blanks.
func parseList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseCommands splits a semicolon-separated list of commands.
func parseCommands(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
