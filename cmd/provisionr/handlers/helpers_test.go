package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-logr/logr"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/provisioning"
	testutil "github.com/imamik/provisionr/internal/testing"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// saveAndRestoreFactories saves and restores the handler factory functions.
func saveAndRestoreFactories(t *testing.T) {
	origLoadConfig := loadConfig
	origNewRunner := newRunner
	origNewInstaller := newInstaller
	origIdentifyHost := identifyHost
	origGetwd := getwd
	origStdout := stdout
	origStderr := stderr
	origUseColor := useColor
	origIsInteractive := isInteractive
	origRunTUI := runTUI
	origSearchPath := searchPathFromEnv
	origFileExists := fileExists
	origRunWizard := runWizard
	origBuildConfig := buildConfig
	origWriteConfig := writeConfig

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newRunner = origNewRunner
		newInstaller = origNewInstaller
		identifyHost = origIdentifyHost
		getwd = origGetwd
		stdout = origStdout
		stderr = origStderr
		useColor = origUseColor
		isInteractive = origIsInteractive
		runTUI = origRunTUI
		searchPathFromEnv = origSearchPath
		fileExists = origFileExists
		runWizard = origRunWizard
		buildConfig = origBuildConfig
		writeConfig = origWriteConfig
	})
}

// harness wires the handler factories to a temporary workspace.
type harness struct {
	ws        *testutil.Workspace
	cfg       *config.Config
	runner    *testutil.FakeRunner
	installer *testutil.MockInstaller
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
}

func newHarness(t *testing.T, osID string) *harness {
	t.Helper()
	saveAndRestoreFactories(t)

	h := &harness{
		ws:        testutil.NewWorkspace(t),
		runner:    testutil.NewFakeRunner(),
		installer: &testutil.MockInstaller{},
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	}
	h.cfg = h.ws.Config(testutil.NewConfigBuilder().Build())
	t.Setenv("PATH", h.ws.SystemBin)

	loadConfig = func(string) (*config.Config, error) { return h.cfg, nil }
	newRunner = func(logr.Logger) shell.Runner { return h.runner }
	newInstaller = func(shell.Runner) provisioning.ScriptInstaller { return h.installer }
	identifyHost = func(context.Context) string { return osID }
	getwd = func() (string, error) { return h.ws.Dir, nil }
	stdout = h.stdout
	stderr = h.stderr
	useColor = func(bool) bool { return false }
	isInteractive = func() bool { return false }
	searchPathFromEnv = func() searchpath.Path { return h.ws.Path() }
	return h
}

// healthy scripts a project whose tasks, probe and aux tool all succeed.
func (h *harness) healthy() *harness {
	h.ws.WriteManifest(h.cfg.Manifest)
	h.ws.InstallManager(h.cfg.Manager.Name)

	var probe bytes.Buffer
	for _, p := range h.cfg.Runtime.Packages {
		probe.WriteString("OK " + p + "\n")
	}
	h.runner.
		On("pixi --version", testutil.Response{Stdout: "pixi 0.41.4\n"}).
		On("pixi run Rscript -e", testutil.Response{Stdout: probe.String()}).
		On("pixi run quarto --version", testutil.Response{Stdout: "1.5.57\n"})
	return h
}
