package provisioning

import (
	"time"

	"github.com/imamik/provisionr/internal/platform/host"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// ToolOutcome is the result of ensuring a tool is present.
type ToolOutcome string

const (
	ToolInstalled      ToolOutcome = "installed"
	ToolAlreadyPresent ToolOutcome = "already-present"
	ToolInstallFailed  ToolOutcome = "install-failed"
)

// StepStatus is the final status of an executed phase.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepResult records one executed phase.
type StepResult struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
}

// PackageCheckResult maps each expected package to whether the runtime can
// import it. Names keeps the configured order.
type PackageCheckResult struct {
	Names     []string        `json:"names"`
	Installed map[string]bool `json:"installed"`
}

// NewPackageCheckResult builds a result for names; packages missing from
// status count as not installed.
func NewPackageCheckResult(names []string, status map[string]bool) *PackageCheckResult {
	r := &PackageCheckResult{
		Names:     append([]string(nil), names...),
		Installed: make(map[string]bool, len(names)),
	}
	for _, n := range names {
		r.Installed[n] = status[n]
	}
	return r
}

// Satisfied returns the number of installed packages.
func (r *PackageCheckResult) Satisfied() int {
	n := 0
	for _, name := range r.Names {
		if r.Installed[name] {
			n++
		}
	}
	return n
}

// Total returns the number of expected packages.
func (r *PackageCheckResult) Total() int {
	return len(r.Names)
}

// Missing lists packages not installed, in configured order.
func (r *PackageCheckResult) Missing() []string {
	var missing []string
	for _, name := range r.Names {
		if !r.Installed[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete reports whether every expected package is installed.
func (r *PackageCheckResult) Complete() bool {
	return r.Satisfied() == r.Total()
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Preflight results
	OSIdentifier string
	Platform     host.Tag

	// SearchPath is handed to every external command. Phases replace it
	// rather than touching the process environment.
	SearchPath searchpath.Path

	// Toolchain results
	ManagerPath    string
	ManagerOutcome ToolOutcome
	AuxToolVersion string

	// Verification result
	Packages *PackageCheckResult

	// Results has one entry per phase that ran, in order.
	Results []StepResult
}

// NewState creates a provisioning state starting from the given search path.
func NewState(path searchpath.Path) *State {
	return &State{
		Platform:   host.Unsupported,
		SearchPath: path,
	}
}

// Record appends a step result.
func (s *State) Record(r StepResult) {
	s.Results = append(s.Results, r)
}

// Failed returns the failed step result, if any.
func (s *State) Failed() (StepResult, bool) {
	for _, r := range s.Results {
		if r.Status == StepFailed {
			return r, true
		}
	}
	return StepResult{}, false
}
