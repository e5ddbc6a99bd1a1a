// Package tasks runs the package manager inside the project: the base
// dependency install and the chained setup tasks. Every step here requires
// the manifest in the working directory.
package tasks

import (
	"fmt"
	"strings"

	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/provisioning/preflight"
)

const (
	// InstallPhaseName names the base dependency install phase.
	InstallPhaseName = "base-dependencies"
	// ChainedTasksPhaseName names the chained tasks phase.
	ChainedTasksPhaseName = "chained-tasks"
)

// ActionFunc is the body of a manifest-guarded step.
type ActionFunc func(ctx *provisioning.Context) error

// ManifestStep builds a step that fails with KindMissingManifest before
// running action when the manifest is absent.
func ManifestStep(name, description string, action ActionFunc) *provisioning.Step {
	return &provisioning.Step{
		StepName:     name,
		Description:  description,
		Precondition: preflight.RequireManifest,
		Action:       action,
	}
}

// RunStep runs action as step name once precondition holds. A nil
// precondition means the manifest must be present.
func RunStep(ctx *provisioning.Context, name string, precondition func(*provisioning.Context) error, action ActionFunc) error {
	if precondition == nil {
		precondition = preflight.RequireManifest
	}
	step := &provisioning.Step{StepName: name, Precondition: precondition, Action: action}
	return step.Provision(ctx)
}

// NewInstallPhase returns the phase running `<manager> <install_args>`.
func NewInstallPhase() *provisioning.Step {
	return ManifestStep(InstallPhaseName, "installing base dependencies", installBase)
}

func installBase(ctx *provisioning.Context) error {
	if len(ctx.Config.Manager.InstallArgs) == 0 {
		return provisioning.Skip("no install command configured")
	}
	cmd := ctx.ManagerCommand(ctx.Config.Manager.InstallArgs...)
	if ctx.DryRun {
		provisioning.LogInfo(ctx.Observer, InstallPhaseName, "would run: %s", cmd)
		return provisioning.Skip("dry run")
	}

	provisioning.LogInfo(ctx.Observer, InstallPhaseName, "running %s", cmd)
	if err := ctx.Exec(cmd); err != nil {
		perr := provisioning.ExternalTaskError(InstallPhaseName, err)
		perr.Hint = fmt.Sprintf("check %s and re-run provisionr", ctx.Config.Manifest)
		return perr
	}
	return nil
}

// NewChainedTasksPhase returns the phase running the configured tasks in order.
func NewChainedTasksPhase() *provisioning.Step {
	return ManifestStep(ChainedTasksPhaseName, "running project tasks", func(ctx *provisioning.Context) error {
		if len(ctx.Config.Tasks) == 0 {
			return provisioning.Skip("no tasks configured")
		}
		return RunChainedTasks(ctx, ctx.Config.Tasks)
	})
}

// RunChainedTasks runs `<manager> run <task>` for each task in order. The
// first failing task stops the chain and its exit status becomes the error's
// code. Tasks already run are not undone.
func RunChainedTasks(ctx *provisioning.Context, names []string) error {
	if ctx.DryRun {
		for _, name := range names {
			provisioning.LogInfo(ctx.Observer, ChainedTasksPhaseName, "would run: %s", ctx.ManagerCommand("run", name))
		}
		return provisioning.Skip("dry run")
	}

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted before task %s: %w", name, err)
		}

		provisioning.LogInfo(ctx.Observer, ChainedTasksPhaseName, "task %s (%d/%d)", name, i+1, len(names))
		if err := ctx.Exec(ctx.ManagerCommand("run", name)); err != nil {
			perr := provisioning.ExternalTaskError(ChainedTasksPhaseName, fmt.Errorf("task %s: %w", name, err))
			perr.Hint = fmt.Sprintf("fix task %q in %s, then re-run provisionr", name, ctx.Config.Manifest)
			if remaining := names[i+1:]; len(remaining) > 0 {
				ctx.Logger.V(1).Info("chain aborted", "failed", name, "skipped", strings.Join(remaining, ","))
			}
			return perr
		}
	}
	return nil
}
