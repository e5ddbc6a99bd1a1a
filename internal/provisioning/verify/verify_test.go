package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/provisionr/internal/provisioning"
	testutil "github.com/imamik/provisionr/internal/testing"
)

func TestVerifyPackages_AllPresent(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	runner := testutil.NewFakeRunner().On("pixi run Rscript -e", testutil.Response{
		Stdout: "OK knitr\nOK rmarkdown\n",
	})
	observer := testutil.NewRecordingObserver()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), runner, &testutil.MockInstaller{}, observer)

	result, err := VerifyPackages(ctx, []string{"knitr", "rmarkdown"})

	require.NoError(t, err)
	assert.True(t, result.Complete())
	assert.Same(t, result, ctx.State.Packages)
	assert.Equal(t, []string{"2/2 packages available"}, observer.Messages(provisioning.EventInfo))

	call := runner.Calls()[0]
	assert.Equal(t, "pixi", call.Name)
	require.Len(t, call.Args, 4)
	assert.Equal(t, []string{"run", "Rscript", "-e"}, call.Args[:3])
	assert.Contains(t, call.Args[3], `c("knitr", "rmarkdown")`)
}

func TestVerifyPackages_SomeMissing(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	runner := testutil.NewFakeRunner().On("pixi run Rscript", testutil.Response{
		Stdout: "OK tidyverse\nMISSING rmarkdown\nOK knitr\nLoading required namespace: devtools\n",
	})
	observer := testutil.NewRecordingObserver()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), runner, &testutil.MockInstaller{}, observer)

	result, err := VerifyPackages(ctx, []string{"tidyverse", "rmarkdown", "knitr", "devtools", "testthat"})

	require.ErrorIs(t, err, provisioning.ErrVerificationIncomplete)
	assert.NotEqual(t, 0, provisioning.ExitCode(err))
	assert.Contains(t, err.Error(), "2/5 packages available, missing: rmarkdown, devtools, testthat")
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Satisfied())
	assert.Equal(t, []string{"rmarkdown", "devtools", "testthat"}, result.Missing())
	assert.Equal(t, []string{"2/5 packages available"}, observer.Messages(provisioning.EventInfo))
	assert.Len(t, observer.Messages(provisioning.EventWarning), 3)
}

func TestVerifyPackages_RuntimeFails(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	runner := testutil.NewFakeRunner().On("pixi run Rscript", testutil.Response{Code: 1})
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), runner, &testutil.MockInstaller{}, testutil.NewRecordingObserver())

	result, err := VerifyPackages(ctx, []string{"knitr"})

	require.ErrorIs(t, err, provisioning.ErrExternalTaskFailed)
	assert.Nil(t, result)
	assert.Nil(t, ctx.State.Packages)
}

func TestVerifyPackages_InvalidName(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	runner := testutil.NewFakeRunner()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), runner, &testutil.MockInstaller{}, testutil.NewRecordingObserver())

	_, err := VerifyPackages(ctx, []string{`knitr"); system("rm`})

	require.Error(t, err)
	assert.Empty(t, runner.Calls())
}

func TestPhase_NoPackages(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	runner := testutil.NewFakeRunner()
	ctx := ws.Context(testutil.NewConfigBuilder().WithPackages().Build(), runner, &testutil.MockInstaller{}, testutil.NewRecordingObserver())

	_, skipped := provisioning.IsSkip(NewPhase().Provision(ctx))

	assert.True(t, skipped)
	assert.Empty(t, runner.Calls())
}

func TestPhase_DryRun(t *testing.T) {
	t.Parallel()
	ws := testutil.NewWorkspace(t)
	runner := testutil.NewFakeRunner()
	ctx := ws.Context(testutil.NewConfigBuilder().Build(), runner, &testutil.MockInstaller{}, testutil.NewRecordingObserver())
	ctx.DryRun = true

	_, skipped := provisioning.IsSkip(NewPhase().Provision(ctx))

	assert.True(t, skipped)
	assert.Empty(t, runner.Calls())
}
