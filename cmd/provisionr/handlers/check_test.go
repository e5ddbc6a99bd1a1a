package handlers

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/provisionr/internal/testing"
)

func TestCheck_Ready(t *testing.T) {
	h := newHarness(t, "Linux 5.15").healthy()

	require.NoError(t, Check(context.Background(), CheckOptions{}))

	out := h.stdout.String()
	assert.Contains(t, out, "[OK] platform linux (Linux 5.15)")
	assert.Contains(t, out, "[OK] manifest pixi.toml found")
	assert.Contains(t, out, "[OK] pixi: pixi 0.41.4")
	assert.Contains(t, out, "[INFO] runtime not probed (use --probe)")
	assert.Contains(t, out, "[INFO] quarto not probed (use --probe)")
	assert.Contains(t, out, "ready to provision")

	assert.Equal(t, []string{"pixi --version"}, h.runner.CommandLines())
}

func TestCheck_ProbeRunsThroughManager(t *testing.T) {
	h := newHarness(t, "Linux 5.15").healthy()
	h.runner.On("pixi run Rscript -e cat(R.version.string", testutil.Response{
		Stdout: "R version 4.4.1 (2024-06-14)\n",
	})

	require.NoError(t, Check(context.Background(), CheckOptions{Probe: true}))

	out := h.stdout.String()
	assert.Contains(t, out, "[OK] runtime: R version 4.4.1 (2024-06-14)")
	assert.Contains(t, out, "[OK] quarto: 1.5.57")
	assert.NotContains(t, out, "not probed")
	assert.False(t, h.runner.Ran("pixi install"))
}

func TestCheck_MissingManager(t *testing.T) {
	h := newHarness(t, "Linux 5.15").healthy()
	require.NoError(t, os.RemoveAll(h.ws.InstallDir))

	err := Check(context.Background(), CheckOptions{})
	require.Error(t, err)

	assert.True(t, IsReported(err))
	assert.Contains(t, err.Error(), "missing required tools: pixi (https://pixi.sh/install.sh)")
	assert.Contains(t, h.stderr.String(), "[FAIL] pixi not available")
	assert.Empty(t, h.runner.Calls())
}

func TestCheck_UnsupportedPlatformAndMissingManifest(t *testing.T) {
	h := newHarness(t, "Plan9")
	h.ws.InstallManager("pixi")

	err := Check(context.Background(), CheckOptions{})
	require.Error(t, err)

	stderr := h.stderr.String()
	assert.Contains(t, stderr, `[FAIL] platform "Plan9" is not supported`)
	assert.Contains(t, stderr, "[FAIL] manifest pixi.toml not found")
	assert.Contains(t, stderr, "repository root")
}

func TestCheck_JSON(t *testing.T) {
	h := newHarness(t, "Darwin 23.1.0").healthy()

	require.NoError(t, Check(context.Background(), CheckOptions{JSON: true}))

	var report CheckReport
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &report))
	assert.Equal(t, "macos", report.Platform)
	assert.True(t, report.Supported)
	assert.True(t, report.ManifestOK)
	assert.ElementsMatch(t, []string{"runtime", "quarto"}, report.NotProbed)
	require.Len(t, report.Tools.Results, 1)
	assert.Equal(t, "pixi 0.41.4", report.Tools.Results[0].Version)
	assert.Empty(t, report.Problems)
}
