// Package preflight holds the read-only phases that gate a provisioning run:
// platform detection and manifest location. Neither has side effects, so a
// failure here leaves the machine untouched.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/imamik/provisionr/internal/platform/host"
	"github.com/imamik/provisionr/internal/provisioning"
)

const (
	// PlatformPhaseName names the platform detection phase.
	PlatformPhaseName = "platform"
	// ManifestPhaseName names the manifest location phase.
	ManifestPhaseName = "manifest"
)

// unsupportedHint lists what the run accepts.
const unsupportedHint = "provisionr runs on Linux, macOS and Windows POSIX layers; set " +
	host.EnvOSID + " to override detection"

// DetectPlatform maps osID to a platform tag. Unknown identifiers fail with
// KindUnsupportedPlatform.
func DetectPlatform(osID string) (host.Tag, error) {
	tag, err := host.Detect(osID)
	if err != nil {
		return host.Unsupported, &provisioning.Error{
			Kind: provisioning.KindUnsupportedPlatform,
			Step: PlatformPhaseName,
			Hint: unsupportedHint,
			Err:  err,
		}
	}
	return tag, nil
}

// PlatformPhase detects the host platform and stores it in State.
type PlatformPhase struct {
	// Identify returns the OS identifier; host.Identifier when nil.
	Identify func(ctx context.Context) string
}

// NewPlatformPhase creates a PlatformPhase using the host identifier.
func NewPlatformPhase() *PlatformPhase {
	return &PlatformPhase{Identify: host.Identifier}
}

// Name implements provisioning.Phase.
func (p *PlatformPhase) Name() string { return PlatformPhaseName }

// Describe implements provisioning.Describer.
func (p *PlatformPhase) Describe() string { return "detecting platform" }

// Provision implements provisioning.Phase.
func (p *PlatformPhase) Provision(ctx *provisioning.Context) error {
	identify := p.Identify
	if identify == nil {
		identify = host.Identifier
	}

	osID := identify(ctx)
	ctx.State.OSIdentifier = osID

	tag, err := DetectPlatform(osID)
	if err != nil {
		return err
	}
	ctx.State.Platform = tag
	provisioning.LogInfo(ctx.Observer, PlatformPhaseName, "platform %s (%s)", tag, osID)
	return nil
}

// RequireManifest fails with KindMissingManifest unless the configured
// manifest is a regular file in the working directory.
func RequireManifest(ctx *provisioning.Context) error {
	path := ctx.ManifestPath()
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Mode().IsRegular():
		return nil
	case err == nil:
		err = fmt.Errorf("%s is not a regular file", path)
	case errors.Is(err, fs.ErrNotExist):
		err = fmt.Errorf("%s not found in %s", ctx.Config.Manifest, ctx.WorkDir)
	}
	return &provisioning.Error{
		Kind: provisioning.KindMissingManifest,
		Step: ManifestPhaseName,
		Hint: fmt.Sprintf("run provisionr from the repository root (the directory containing %s)", ctx.Config.Manifest),
		Err:  err,
	}
}

// ManifestPhase checks the manifest is present before anything is installed.
type ManifestPhase struct{}

// NewManifestPhase creates a ManifestPhase.
func NewManifestPhase() *ManifestPhase {
	return &ManifestPhase{}
}

// Name implements provisioning.Phase.
func (p *ManifestPhase) Name() string { return ManifestPhaseName }

// Describe implements provisioning.Describer.
func (p *ManifestPhase) Describe() string { return "locating project manifest" }

// Provision implements provisioning.Phase.
func (p *ManifestPhase) Provision(ctx *provisioning.Context) error {
	if err := RequireManifest(ctx); err != nil {
		return err
	}
	provisioning.LogInfo(ctx.Observer, ManifestPhaseName, "found %s", ctx.ManifestPath())
	return nil
}
