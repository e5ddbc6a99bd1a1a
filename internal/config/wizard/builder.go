package wizard

import "github.com/imamik/provisionr/internal/config"

// BuildConfig creates a Config struct from the wizard result, starting from
// the defaults for anything the wizard does not ask.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := config.Default()

	if preset, ok := PresetByValue(result.Manager); ok {
		cfg.Manager.Name = preset.Value
		cfg.Manager.InstallURL = preset.InstallURL
		cfg.Manager.InstallDir = preset.InstallDir
	}
	if result.Manifest != "" {
		cfg.Manifest = result.Manifest
	}

	cfg.Tasks = append([]string(nil), result.Tasks...)
	cfg.Runtime.Packages = append([]string(nil), result.Packages...)
	if len(cfg.Runtime.Command) > 0 {
		cfg.Runtime.Command[0] = cfg.Manager.Name
	}

	if result.AuxTool == "" || result.AuxTool == AuxToolNone {
		cfg.AuxTool = config.AuxToolConfig{}
	} else {
		cfg.AuxTool.Name = result.AuxTool
		cfg.AuxTool.ViaManager = result.AuxViaManager
		cfg.AuxTool.Required = result.AuxToolRequired
	}

	if len(result.FollowUp) > 0 {
		cfg.FollowUp = append([]string(nil), result.FollowUp...)
	}

	return cfg
}
