package toolchain

import (
	"errors"
	"fmt"

	"github.com/imamik/provisionr/internal/platform/installer"
	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// ManagerPhaseName names the package manager phase.
const ManagerPhaseName = "package-manager"

// ManagerPhase installs the package manager when it cannot be found, then
// puts its install directory at the front of the search path.
type ManagerPhase struct{}

// NewManagerPhase creates a ManagerPhase.
func NewManagerPhase() *ManagerPhase {
	return &ManagerPhase{}
}

// Name implements provisioning.Phase.
func (p *ManagerPhase) Name() string { return ManagerPhaseName }

// Describe implements provisioning.Describer.
func (p *ManagerPhase) Describe() string { return "ensuring package manager" }

// Provision implements provisioning.Phase.
func (p *ManagerPhase) Provision(ctx *provisioning.Context) error {
	mgr := ctx.Config.Manager

	dir, err := ctx.Config.InstallDirPath()
	if err != nil {
		return fmt.Errorf("failed to resolve install dir: %w", err)
	}
	path := ctx.State.SearchPath.Prepend(dir)

	check := func(ctx *provisioning.Context) (bool, error) {
		found, err := path.LookPath(mgr.Name)
		if errors.Is(err, searchpath.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		ctx.State.ManagerPath = found
		return true, nil
	}

	if ctx.DryRun {
		present, err := check(ctx)
		if err != nil {
			return err
		}
		if present {
			ctx.State.ManagerOutcome = provisioning.ToolAlreadyPresent
			return provisioning.Skip(fmt.Sprintf("%s already installed at %s", mgr.Name, ctx.State.ManagerPath))
		}
		provisioning.LogInfo(ctx.Observer, ManagerPhaseName, "would run: curl -fsSL %s | %s", mgr.InstallURL, mgr.InstallShell)
		return provisioning.Skip("dry run")
	}

	install := func(ctx *provisioning.Context) error {
		provisioning.LogInfo(ctx.Observer, ManagerPhaseName, "installing %s from %s", mgr.Name, mgr.InstallURL)
		return ctx.Installer.Install(ctx, installer.Spec{
			URL:    mgr.InstallURL,
			Shell:  mgr.InstallShell,
			Path:   ctx.State.SearchPath,
			Stdout: ctx.Stdout,
			Stderr: ctx.Stderr,
		})
	}

	outcome, err := EnsureTool(ctx, mgr.Name, check, install)
	ctx.State.ManagerOutcome = outcome
	if err != nil {
		var perr *provisioning.Error
		if errors.As(err, &perr) {
			perr.Step = ManagerPhaseName
			perr.Hint = fmt.Sprintf("check network access to %s or install %s into %s manually", mgr.InstallURL, mgr.Name, dir)
		}
		return err
	}

	ctx.UsePath(path)

	if outcome == provisioning.ToolAlreadyPresent {
		return provisioning.Skip(fmt.Sprintf("%s already installed at %s", mgr.Name, ctx.State.ManagerPath))
	}
	provisioning.LogInfo(ctx.Observer, ManagerPhaseName, "%s installed at %s", mgr.Name, ctx.State.ManagerPath)
	return nil
}
