package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/logging"
	"github.com/imamik/provisionr/internal/metrics"
	"github.com/imamik/provisionr/internal/platform/host"
	"github.com/imamik/provisionr/internal/platform/installer"
	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/provisioning/preflight"
	"github.com/imamik/provisionr/internal/provisioning/tasks"
	"github.com/imamik/provisionr/internal/provisioning/toolchain"
	"github.com/imamik/provisionr/internal/provisioning/verify"
	"github.com/imamik/provisionr/internal/ui/status"
	"github.com/imamik/provisionr/internal/ui/tui"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	loadConfig = config.Load

	newRunner = func(logger logr.Logger) shell.Runner {
		return shell.NewExecRunner(logger)
	}

	newInstaller = func(runner shell.Runner) provisioning.ScriptInstaller {
		return installer.New(nil, runner)
	}

	identifyHost = host.Identifier

	getwd = os.Getwd

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// useColor decides whether status lines are colored.
	useColor = status.ColorEnabled

	isInteractive = func() bool {
		return status.IsTerminal(os.Stdout) && status.IsTerminal(os.Stdin)
	}

	runTUI = tui.Run
)

// RunOptions holds the flags of the root command.
type RunOptions struct {
	ConfigPath  string
	Verbose     bool
	NoColor     bool
	TUI         bool
	MetricsFile string
	DryRun      bool
	JSON        bool
}

// RunSummary is the JSON document printed with --json.
type RunSummary struct {
	Success        bool                             `json:"success"`
	ExitCode       int                              `json:"exitCode"`
	DryRun         bool                             `json:"dryRun,omitempty"`
	OSIdentifier   string                           `json:"osIdentifier"`
	Platform       host.Tag                         `json:"platform"`
	ManagerOutcome provisioning.ToolOutcome         `json:"managerOutcome,omitempty"`
	AuxToolVersion string                           `json:"auxToolVersion,omitempty"`
	Steps          []provisioning.StepResult        `json:"steps"`
	Packages       *provisioning.PackageCheckResult `json:"packages,omitempty"`
	Error          string                           `json:"error,omitempty"`
	Hint           string                           `json:"hint,omitempty"`
	FollowUp       []string                         `json:"followUp,omitempty"`
}

// Phases returns the provisioning pipeline in execution order. The manifest
// is located before anything is installed.
func Phases() []provisioning.Phase {
	return []provisioning.Phase{
		&preflight.PlatformPhase{Identify: identifyHost},
		preflight.NewManifestPhase(),
		toolchain.NewManagerPhase(),
		tasks.NewInstallPhase(),
		tasks.NewChainedTasksPhase(),
		verify.NewPhase(),
		toolchain.NewAuxToolPhase(),
	}
}

// Run provisions the project in the working directory.
func Run(ctx context.Context, opts RunOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	wd, err := getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	logger := logging.New(stderr, opts.Verbose)
	if used := config.UsedFile(opts.ConfigPath); used != "" {
		logger.V(1).Info("loaded config", "file", used)
	}

	// With --json stdout carries only the summary.
	out := stdout
	if opts.JSON {
		out = stderr
	}
	printer := status.New(out, stderr, useColor(opts.NoColor))

	runner := newRunner(logger)
	pctx := provisioning.NewContext(ctx, cfg, runner, newInstaller(runner), provisioning.NewConsoleObserver(printer), wd)
	pctx.Logger = logger
	pctx.DryRun = opts.DryRun
	pctx.Stdout = out
	pctx.Stderr = stderr

	pipeline := provisioning.NewPipeline(Phases()...)

	var runErr error
	if opts.TUI && !opts.JSON && isInteractive() {
		runErr = runTUI(ctx, "Provisioning "+filepath.Base(wd), stepInfos(pipeline), func(ctx context.Context, observer provisioning.Observer, w io.Writer) error {
			pctx.Context = ctx
			pctx.Observer = observer
			pctx.Stdout = w
			pctx.Stderr = w
			return pipeline.Run(pctx)
		})
		printResults(printer, pctx.State, runErr)
	} else {
		runErr = pipeline.Run(pctx)
	}

	if opts.MetricsFile != "" {
		writeMetrics(opts.MetricsFile, pctx.State, runErr, printer, logger)
	}

	if opts.JSON {
		if err := writeJSON(stdout, buildSummary(cfg, pctx, runErr)); err != nil {
			return err
		}
	}

	if runErr != nil {
		if _, failed := pctx.State.Failed(); failed {
			return &ReportedError{Err: runErr}
		}
		return runErr
	}

	if !opts.JSON {
		printBanner(printer, cfg, pctx)
	}
	return nil
}

func stepInfos(p *provisioning.Pipeline) []tui.StepInfo {
	infos := make([]tui.StepInfo, 0, len(p.Phases))
	for _, phase := range p.Phases {
		info := tui.StepInfo{Key: phase.Name(), Description: phase.Name()}
		if d, ok := phase.(provisioning.Describer); ok {
			info.Description = d.Describe()
		}
		infos = append(infos, info)
	}
	return infos
}

// printResults replays the step results once the TUI has closed, ending with
// the failure and its hint.
func printResults(printer *status.Printer, state *provisioning.State, runErr error) {
	for _, r := range state.Results {
		switch r.Status {
		case provisioning.StepOK:
			printer.OK("%s", r.Name)
		case provisioning.StepSkipped:
			printer.OK("%s: %s", r.Name, r.Message)
		case provisioning.StepFailed:
			printer.Fail("%s failed: %s", r.Name, r.Message)
		}
	}
	if hint := provisioning.HintFor(runErr); hint != "" {
		printer.Fail("%s", hint)
	}
}

func writeMetrics(path string, state *provisioning.State, runErr error, printer *status.Printer, logger logr.Logger) {
	rec := metrics.NewRecorder()
	rec.Record(state, runErr == nil)
	if err := rec.WriteFile(path); err != nil {
		if runErr == nil {
			printer.Warn("%v", err)
			return
		}
		// Keep the failure as the last line printed.
		logger.V(1).Info("metrics not written", "err", err.Error())
	}
}

func buildSummary(cfg *config.Config, pctx *provisioning.Context, runErr error) RunSummary {
	state := pctx.State
	summary := RunSummary{
		Success:        runErr == nil,
		ExitCode:       provisioning.ExitCode(runErr),
		DryRun:         pctx.DryRun,
		OSIdentifier:   state.OSIdentifier,
		Platform:       state.Platform,
		ManagerOutcome: state.ManagerOutcome,
		AuxToolVersion: state.AuxToolVersion,
		Steps:          state.Results,
		Packages:       state.Packages,
	}
	if summary.Steps == nil {
		summary.Steps = []provisioning.StepResult{}
	}
	if runErr != nil {
		summary.Error = runErr.Error()
		summary.Hint = provisioning.HintFor(runErr)
	} else {
		summary.FollowUp = cfg.FollowUp
	}
	return summary
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func printBanner(printer *status.Printer, cfg *config.Config, pctx *provisioning.Context) {
	if pctx.DryRun {
		printer.Banner("Dry run complete, nothing was changed", nil)
		return
	}
	title := "Environment ready"
	if pkgs := pctx.State.Packages; pkgs != nil && pkgs.Total() > 0 {
		title = fmt.Sprintf("Environment ready (%d/%d packages)", pkgs.Satisfied(), pkgs.Total())
	}
	printer.Banner(title, cfg.FollowUp)
}
