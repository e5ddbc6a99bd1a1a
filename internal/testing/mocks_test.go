package testing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/provisionr/internal/platform/shell"
	testutil "github.com/imamik/provisionr/internal/testing"
)

func runLine(t *testing.T, r *testutil.FakeRunner, name string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := r.Run(context.Background(), shell.Command{Name: name, Args: args, Stdout: &out})
	return out.String(), err
}

func TestFakeRunner_LongestPrefixWins(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeRunner().
		On("pixi run quarto --version", testutil.Response{Stdout: "1.5.57\n"}).
		On("pixi run", testutil.Response{Code: 2})

	out, err := runLine(t, r, "pixi", "run", "quarto", "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.5.57\n", out)

	_, err = runLine(t, r, "pixi", "run", "setup-r")
	assert.Equal(t, 2, shell.ExitCode(err))
}

func TestFakeRunner_LaterRegistrationOverridesSamePrefix(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeRunner().
		On("pixi run Rscript -e", testutil.Response{Stdout: "OK knitr\n"}).
		On("pixi run Rscript -e", testutil.Response{Stdout: "MISSING knitr\n"})

	out, err := runLine(t, r, "pixi", "run", "Rscript", "-e", "script")
	require.NoError(t, err)
	assert.Equal(t, "MISSING knitr\n", out)
}

func TestFakeRunner_UnmatchedSucceedsAndIsRecorded(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeRunner()

	out, err := runLine(t, r, "pixi", "install")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, []string{"pixi install"}, r.CommandLines())
	assert.True(t, r.Ran("pixi"))
}

func TestFakeRunner_CanceledContext(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, shell.Command{Name: "pixi"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.Calls())
}
