package toolchain

import (
	"bytes"
	"fmt"

	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/util/prerequisites"
)

// AuxToolPhaseName names the auxiliary tool phase.
const AuxToolPhaseName = "aux-tool"

// AuxToolPhase confirms the auxiliary tool answers a version query. An
// optional tool that fails only produces a warning.
type AuxToolPhase struct{}

// NewAuxToolPhase creates an AuxToolPhase.
func NewAuxToolPhase() *AuxToolPhase {
	return &AuxToolPhase{}
}

// Name implements provisioning.Phase.
func (p *AuxToolPhase) Name() string { return AuxToolPhaseName }

// Describe implements provisioning.Describer.
func (p *AuxToolPhase) Describe() string { return "confirming auxiliary tool" }

// VersionCommand builds the command querying the tool's version, through
// `<manager> run` when configured so.
func VersionCommand(ctx *provisioning.Context) shell.Command {
	aux := ctx.Config.AuxTool
	args := aux.VersionArguments()
	if aux.ViaManager {
		return ctx.ManagerCommand(append([]string{"run", aux.Name}, args...)...)
	}
	return ctx.Command(aux.Name, args...)
}

// Provision implements provisioning.Phase.
func (p *AuxToolPhase) Provision(ctx *provisioning.Context) error {
	aux := ctx.Config.AuxTool
	if aux.Name == "" {
		return provisioning.Skip("no auxiliary tool configured")
	}

	cmd := VersionCommand(ctx)
	if ctx.DryRun {
		provisioning.LogInfo(ctx.Observer, AuxToolPhaseName, "would run: %s", cmd)
		return provisioning.Skip("dry run")
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := ctx.Exec(cmd); err != nil {
		if !aux.Required {
			provisioning.LogWarning(ctx.Observer, AuxToolPhaseName, "%s is not available: %v", aux.Name, err)
			return nil
		}
		perr := provisioning.ExternalTaskError(AuxToolPhaseName, err)
		perr.Hint = fmt.Sprintf("add %s to %s or set aux_tool.required to false", aux.Name, ctx.Config.Manifest)
		return perr
	}

	version := prerequisites.FirstLine(out.String())
	ctx.State.AuxToolVersion = version
	provisioning.LogInfo(ctx.Observer, AuxToolPhaseName, "%s %s", aux.Name, version)
	return nil
}
