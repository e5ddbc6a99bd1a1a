package provisioning

import (
	"context"

	"github.com/imamik/provisionr/internal/platform/installer"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	// Returning a *SkipError marks the phase as skipped rather than failed.
	Provision(ctx *Context) error
}

// ScriptInstaller installs a tool by running its install script.
// Implemented by internal/platform/installer.Installer.
type ScriptInstaller interface {
	Install(ctx context.Context, spec installer.Spec) error
}
