package provisioning

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config    *config.Config
	State     *State
	Runner    shell.Runner
	Installer ScriptInstaller
	Observer  Observer
	Logger    logr.Logger

	// WorkDir is where the manifest is expected and commands run.
	WorkDir string

	// Stdout and Stderr receive external command output.
	Stdout io.Writer
	Stderr io.Writer

	// DryRun limits phases to read-only checks.
	DryRun bool
}

// NewContext creates a new provisioning context rooted at workDir, starting
// from the process search path.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	runner shell.Runner,
	inst ScriptInstaller,
	observer Observer,
	workDir string,
) *Context {
	return &Context{
		Context:   ctx,
		Config:    cfg,
		State:     NewState(searchpath.FromEnv()),
		Runner:    runner,
		Installer: inst,
		Observer:  observer,
		Logger:    logr.Discard(),
		WorkDir:   workDir,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Command builds a command running in WorkDir with the current search path
// and the context's output streams.
func (c *Context) Command(name string, args ...string) shell.Command {
	return shell.Command{
		Name:   name,
		Args:   args,
		Dir:    c.WorkDir,
		Path:   c.State.SearchPath,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	}
}

// Exec runs a command through the context's runner.
func (c *Context) Exec(cmd shell.Command) error {
	return c.Runner.Run(c.Context, cmd)
}

// ManifestPath returns the absolute location the manifest must exist at.
func (c *Context) ManifestPath() string {
	return filepath.Join(c.WorkDir, c.Config.Manifest)
}

// UsePath replaces the search path for later phases and logs the change.
func (c *Context) UsePath(p searchpath.Path) {
	c.Logger.V(1).Info("search path updated", "path", p.String())
	c.State.SearchPath = p
}

// ManagerCommand builds `<manager> args...`.
func (c *Context) ManagerCommand(args ...string) shell.Command {
	return c.Command(c.Config.Manager.Name, args...)
}
