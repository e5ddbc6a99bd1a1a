package toolchain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/provisionr/internal/platform/installer"
	"github.com/imamik/provisionr/internal/provisioning"
	testutil "github.com/imamik/provisionr/internal/testing"
)

func TestManagerPhase_AlreadyInstalled(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	binary := ws.InstallManager("pixi")
	inst := &testutil.MockInstaller{}
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), testutil.NewFakeRunner(), inst, testutil.NewRecordingObserver())

	err := NewManagerPhase().Provision(ctx)

	skip, ok := provisioning.IsSkip(err)
	require.True(t, ok)
	assert.Contains(t, skip.Reason, "already installed")
	inst.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
	assert.Equal(t, provisioning.ToolAlreadyPresent, ctx.State.ManagerOutcome)
	assert.Equal(t, binary, ctx.State.ManagerPath)
	assert.Equal(t, ws.InstallDir, ctx.State.SearchPath.Dirs()[0])
}

func TestManagerPhase_FoundOnSystemPath(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	binary := testutil.WriteExecutable(t, ws.SystemBin, "pixi")
	inst := &testutil.MockInstaller{}
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), testutil.NewFakeRunner(), inst, testutil.NewRecordingObserver())

	_, skipped := provisioning.IsSkip(NewManagerPhase().Provision(ctx))

	assert.True(t, skipped)
	assert.Equal(t, binary, ctx.State.ManagerPath)
	inst.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}

func TestManagerPhase_Installs(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	inst := &testutil.MockInstaller{}
	inst.On("Install", mock.Anything, mock.MatchedBy(func(spec installer.Spec) bool {
		return spec.URL == "https://pixi.sh/install.sh" && spec.Shell == "bash"
	})).Run(func(mock.Arguments) {
		ws.InstallManager("pixi")
	}).Return(nil).Once()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), testutil.NewFakeRunner(), inst, testutil.NewRecordingObserver())

	err := NewManagerPhase().Provision(ctx)

	require.NoError(t, err)
	inst.AssertExpectations(t)
	assert.Equal(t, provisioning.ToolInstalled, ctx.State.ManagerOutcome)
	assert.Equal(t, []string{ws.InstallDir, ws.SystemBin}, ctx.State.SearchPath.Dirs())
}

func TestManagerPhase_InstallLeavesNoBinary(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	inst := &testutil.MockInstaller{}
	inst.On("Install", mock.Anything, mock.Anything).Return(nil).Once()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), testutil.NewFakeRunner(), inst, testutil.NewRecordingObserver())

	err := NewManagerPhase().Provision(ctx)

	require.ErrorIs(t, err, provisioning.ErrToolInstallFailed)
	assert.Equal(t, 1, provisioning.ExitCode(err))
	assert.Contains(t, provisioning.HintFor(err), "https://pixi.sh/install.sh")
	assert.Equal(t, provisioning.ToolInstallFailed, ctx.State.ManagerOutcome)
	assert.Equal(t, []string{ws.SystemBin}, ctx.State.SearchPath.Dirs(), "search path unchanged on failure")
	inst.AssertNumberOfCalls(t, "Install", 1)
}

func TestManagerPhase_InstallerFails(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	inst := &testutil.MockInstaller{}
	inst.On("Install", mock.Anything, mock.Anything).Return(errors.New("unexpected status 503")).Once()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), testutil.NewFakeRunner(), inst, testutil.NewRecordingObserver())

	err := NewManagerPhase().Provision(ctx)

	require.ErrorIs(t, err, provisioning.ErrToolInstallFailed)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestManagerPhase_DryRun(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	inst := &testutil.MockInstaller{}
	observer := testutil.NewRecordingObserver()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), testutil.NewFakeRunner(), inst, observer)
	ctx.DryRun = true

	_, skipped := provisioning.IsSkip(NewManagerPhase().Provision(ctx))

	assert.True(t, skipped)
	inst.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
	assert.Contains(t, observer.Messages(provisioning.EventInfo)[0], "would run")
}
