// Package toolchain makes sure the tools a run depends on are present: the
// package manager, installed on demand, and the auxiliary tool, confirmed at
// the end of the run.
package toolchain

import (
	"fmt"

	"github.com/imamik/provisionr/internal/provisioning"
)

// CheckFunc reports whether a tool is present.
type CheckFunc func(ctx *provisioning.Context) (bool, error)

// InstallFunc installs a tool.
type InstallFunc func(ctx *provisioning.Context) error

// EnsureTool makes name present. When check already succeeds the installer
// is not invoked. After install the tool must pass check, otherwise the
// result is ToolInstallFailed. Nothing is retried.
func EnsureTool(ctx *provisioning.Context, name string, check CheckFunc, install InstallFunc) (provisioning.ToolOutcome, error) {
	present, err := check(ctx)
	if err != nil {
		return provisioning.ToolInstallFailed, installError(name, fmt.Errorf("failed to check for %s: %w", name, err))
	}
	if present {
		ctx.Logger.V(1).Info("tool already present", "tool", name)
		return provisioning.ToolAlreadyPresent, nil
	}

	ctx.Logger.V(1).Info("installing tool", "tool", name)
	if err := install(ctx); err != nil {
		return provisioning.ToolInstallFailed, installError(name, err)
	}

	present, err = check(ctx)
	if err != nil {
		return provisioning.ToolInstallFailed, installError(name, fmt.Errorf("failed to check for %s: %w", name, err))
	}
	if !present {
		return provisioning.ToolInstallFailed, installError(name, fmt.Errorf("%s still not found after install", name))
	}
	return provisioning.ToolInstalled, nil
}

func installError(name string, err error) error {
	return &provisioning.Error{
		Kind: provisioning.KindToolInstallFailed,
		Step: name,
		Err:  err,
	}
}
