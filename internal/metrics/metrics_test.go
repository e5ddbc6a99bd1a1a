package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

func sampleState() *provisioning.State {
	s := provisioning.NewState(searchpath.New())
	s.Record(provisioning.StepResult{Name: "platform", Status: provisioning.StepOK, Duration: 5 * time.Millisecond})
	s.Record(provisioning.StepResult{Name: "package-manager", Status: provisioning.StepSkipped, Duration: time.Millisecond})
	s.Record(provisioning.StepResult{Name: "packages", Status: provisioning.StepFailed, Duration: 2 * time.Second})
	s.Packages = provisioning.NewPackageCheckResult(
		[]string{"knitr", "rmarkdown", "testthat"},
		map[string]bool{"knitr": true, "testthat": true},
	)
	return s
}

func TestRecorder_Record(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.Record(sampleState(), false)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.stepRuns.WithLabelValues("platform", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.stepRuns.WithLabelValues("package-manager", "skipped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.stepRuns.WithLabelValues("packages", "failed")))
	assert.InDelta(t, 2.0, testutil.ToFloat64(r.stepDuration.WithLabelValues("packages")), 1e-9)
	assert.Equal(t, float64(2), testutil.ToFloat64(r.packages.WithLabelValues("present")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.packages.WithLabelValues("missing")))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.runSuccess))
}

func TestRecorder_Success(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.Record(provisioning.NewState(searchpath.New()), true)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.runSuccess))
	count, err := testutil.GatherAndCount(r.Gatherer(), "provisionr_packages")
	require.NoError(t, err)
	assert.Zero(t, count, "no package metrics without a verification result")
}

func TestRecorder_WriteFile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.Record(sampleState(), true)
	path := filepath.Join(t.TempDir(), "provisionr.prom")

	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `provisionr_run_success 1`)
	assert.Contains(t, out, `provisionr_step_runs_total{result="ok",step="platform"} 1`)
	assert.Contains(t, out, `provisionr_packages{state="missing"} 1`)
	assert.True(t, strings.HasPrefix(out, "# HELP"))
}

func TestRecorder_WriteFileBadDir(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	err := r.WriteFile(filepath.Join(t.TempDir(), "missing", "x.prom"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}
