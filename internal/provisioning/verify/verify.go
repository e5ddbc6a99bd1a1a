// Package verify checks that the runtime can load every expected package.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/provisionr/internal/platform/rscript"
	"github.com/imamik/provisionr/internal/provisioning"
)

// PhaseName names the verification phase.
const PhaseName = "packages"

// VerifyPackages asks the runtime which of names it can load and stores the
// result in State. Any missing package fails with KindVerificationIncomplete;
// the result is returned either way.
func VerifyPackages(ctx *provisioning.Context, names []string) (*provisioning.PackageCheckResult, error) {
	if len(names) == 0 {
		result := provisioning.NewPackageCheckResult(nil, nil)
		ctx.State.Packages = result
		return result, nil
	}

	command := ctx.Config.Runtime.Command
	if len(command) == 0 {
		return nil, errors.New("runtime.command is not configured")
	}

	script, err := rscript.ProbeScript(names)
	if err != nil {
		return nil, err
	}

	args := append(append([]string(nil), command[1:]...), script)
	cmd := ctx.Command(command[0], args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := ctx.Exec(cmd); err != nil {
		perr := provisioning.ExternalTaskError(PhaseName, err)
		perr.Hint = "the runtime could not be started; re-run provisionr after fixing the environment"
		return nil, perr
	}

	result := provisioning.NewPackageCheckResult(names, rscript.ParseProbeOutput(out.String(), names))
	ctx.State.Packages = result

	provisioning.LogInfo(ctx.Observer, PhaseName, "%d/%d packages available", result.Satisfied(), result.Total())
	missing := result.Missing()
	for _, name := range missing {
		provisioning.LogWarning(ctx.Observer, PhaseName, "package %s is not installed", name)
	}
	if len(missing) > 0 {
		return result, &provisioning.Error{
			Kind: provisioning.KindVerificationIncomplete,
			Step: PhaseName,
			Err: fmt.Errorf("%d/%d packages available, missing: %s",
				result.Satisfied(), result.Total(), strings.Join(missing, ", ")),
			Hint: fmt.Sprintf("add the missing packages to %s and re-run provisionr", ctx.Config.Manifest),
		}
	}
	return result, nil
}

// Phase runs VerifyPackages over the configured packages.
type Phase struct{}

// NewPhase creates the verification phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements provisioning.Phase.
func (p *Phase) Name() string { return PhaseName }

// Describe implements provisioning.Describer.
func (p *Phase) Describe() string { return "verifying runtime packages" }

// Provision implements provisioning.Phase.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	names := ctx.Config.Runtime.Packages
	if len(names) == 0 {
		return provisioning.Skip("no packages configured")
	}
	if ctx.DryRun {
		provisioning.LogInfo(ctx.Observer, PhaseName, "would check %d packages with %s",
			len(names), strings.Join(ctx.Config.Runtime.Command, " "))
		return provisioning.Skip("dry run")
	}
	_, err := VerifyPackages(ctx, names)
	return err
}
