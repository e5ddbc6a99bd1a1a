package wizard

import "github.com/charmbracelet/huh"

// ManagerPreset bundles the settings of a supported package manager.
type ManagerPreset struct {
	Value       string
	Label       string
	Description string
	InstallURL  string
	InstallDir  string
	Manifest    string
}

// PackageOption represents a runtime package offered for verification.
type PackageOption struct {
	Value       string
	Label       string
	Description string
}

// AuxToolOption represents an auxiliary tool choice.
type AuxToolOption struct {
	Value       string
	Label       string
	Description string
}

// AuxToolNone disables the auxiliary tool check.
const AuxToolNone = "none"

// ManagerPresets contains the package managers provisionr knows how to install.
var ManagerPresets = []ManagerPreset{
	{
		Value:       "pixi",
		Label:       "pixi",
		Description: "conda-forge environments from pixi.toml",
		InstallURL:  "https://pixi.sh/install.sh",
		InstallDir:  "~/.pixi/bin",
		Manifest:    "pixi.toml",
	},
}

// Packages contains commonly verified R packages.
var Packages = []PackageOption{
	{Value: "tidyverse", Label: "tidyverse", Description: "Data science meta-package"},
	{Value: "rmarkdown", Label: "rmarkdown", Description: "Dynamic documents"},
	{Value: "knitr", Label: "knitr", Description: "Report generation"},
	{Value: "devtools", Label: "devtools", Description: "Package development"},
	{Value: "testthat", Label: "testthat", Description: "Unit testing"},
	{Value: "data.table", Label: "data.table", Description: "Fast data manipulation"},
	{Value: "shiny", Label: "shiny", Description: "Web applications"},
}

// DefaultPackages are preselected in the wizard.
var DefaultPackages = []string{"tidyverse", "rmarkdown", "knitr", "devtools", "testthat"}

// AuxTools contains auxiliary tool choices.
var AuxTools = []AuxToolOption{
	{Value: "quarto", Label: "quarto", Description: "Publishing system"},
	{Value: AuxToolNone, Label: "none", Description: "Skip the auxiliary tool check"},
}

// PresetByValue returns the preset named value.
func PresetByValue(value string) (ManagerPreset, bool) {
	for _, p := range ManagerPresets {
		if p.Value == value {
			return p, true
		}
	}
	return ManagerPreset{}, false
}

// ManagerPresetsToOptions converts presets to huh select options.
func ManagerPresetsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(ManagerPresets))
	for i, p := range ManagerPresets {
		opts[i] = huh.NewOption(p.Label+" - "+p.Description, p.Value)
	}
	return opts
}

// PackagesToOptions converts packages to huh multi-select options, with
// defaults preselected.
func PackagesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Packages))
	for i, p := range Packages {
		opts[i] = huh.NewOption(p.Label+" - "+p.Description, p.Value).
			Selected(contains(DefaultPackages, p.Value))
	}
	return opts
}

// AuxToolsToOptions converts auxiliary tools to huh select options.
func AuxToolsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(AuxTools))
	for i, t := range AuxTools {
		opts[i] = huh.NewOption(t.Label+" - "+t.Description, t.Value)
	}
	return opts
}
