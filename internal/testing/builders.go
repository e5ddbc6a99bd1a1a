package testing

import (
	"github.com/imamik/provisionr/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder starting from config.Default.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

// WithManager sets the package manager name and its install script URL.
func (b *ConfigBuilder) WithManager(name, installURL string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Manager.Name = name
	newBuilder.cfg.Manager.InstallURL = installURL
	return newBuilder
}

// WithInstallDir sets where the manager is installed.
func (b *ConfigBuilder) WithInstallDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Manager.InstallDir = dir
	return newBuilder
}

// WithManifest sets the manifest filename.
func (b *ConfigBuilder) WithManifest(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Manifest = name
	return newBuilder
}

// WithTasks sets the chained tasks.
func (b *ConfigBuilder) WithTasks(tasks ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Tasks = tasks
	return newBuilder
}

// WithPackages sets the packages verified after the tasks.
func (b *ConfigBuilder) WithPackages(packages ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Runtime.Packages = packages
	return newBuilder
}

// WithAuxTool sets the auxiliary tool.
func (b *ConfigBuilder) WithAuxTool(name string, viaManager, required bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.AuxTool = config.AuxToolConfig{
		Name:        name,
		VersionArgs: []string{"--version"},
		ViaManager:  viaManager,
		Required:    required,
	}
	return newBuilder
}

// WithFollowUp sets the commands listed in the closing banner.
func (b *ConfigBuilder) WithFollowUp(commands ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.FollowUp = commands
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Manager.InstallArgs = append([]string(nil), b.cfg.Manager.InstallArgs...)
	cfg.Tasks = append([]string(nil), b.cfg.Tasks...)
	cfg.Runtime.Command = append([]string(nil), b.cfg.Runtime.Command...)
	cfg.Runtime.Packages = append([]string(nil), b.cfg.Runtime.Packages...)
	cfg.AuxTool.VersionArgs = append([]string(nil), b.cfg.AuxTool.VersionArgs...)
	cfg.FollowUp = append([]string(nil), b.cfg.FollowUp...)
	return &ConfigBuilder{cfg: cfg}
}
