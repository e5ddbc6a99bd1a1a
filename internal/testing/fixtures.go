package testing

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// Workspace is a temporary project: a working directory, an install
// directory for the package manager and a system bin directory.
type Workspace struct {
	t T

	Dir        string
	InstallDir string
	SystemBin  string

	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(t T) *Workspace {
	t.Helper()
	root := t.TempDir()
	w := &Workspace{
		t:          t,
		Dir:        filepath.Join(root, "project"),
		InstallDir: filepath.Join(root, "home", ".pixi", "bin"),
		SystemBin:  filepath.Join(root, "usr", "bin"),
	}
	for _, dir := range []string{w.Dir, w.SystemBin} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}
	return w
}

// WriteManifest creates the manifest file in the working directory.
func (w *Workspace) WriteManifest(name string) string {
	w.t.Helper()
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte("[workspace]\nname = \"test\"\n"), 0o600); err != nil {
		w.t.Fatalf("write manifest: %v", err)
	}
	return path
}

// InstallManager places an executable manager stub in the install directory.
func (w *Workspace) InstallManager(name string) string {
	w.t.Helper()
	return WriteExecutable(w.t, w.InstallDir, name)
}

// Path returns a search path holding only the system bin directory.
func (w *Workspace) Path() searchpath.Path {
	return searchpath.New(w.SystemBin)
}

// Config returns cfg with the manager install dir pointed into the workspace.
func (w *Workspace) Config(cfg *config.Config) *config.Config {
	cfg.Manager.InstallDir = w.InstallDir
	return cfg
}

// Context builds a provisioning context rooted in the workspace, with
// command output captured in Stdout and Stderr.
func (w *Workspace) Context(
	cfg *config.Config,
	runner *FakeRunner,
	inst provisioning.ScriptInstaller,
	observer provisioning.Observer,
) *provisioning.Context {
	ctx := provisioning.NewContext(TestContext(w.t), w.Config(cfg), runner, inst, observer, w.Dir)
	ctx.State = provisioning.NewState(w.Path())
	ctx.Logger = logr.Discard()
	ctx.Stdout = &w.Stdout
	ctx.Stderr = &w.Stderr
	return ctx
}
