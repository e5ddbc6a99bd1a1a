package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/logging"
	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/provisioning/preflight"
	"github.com/imamik/provisionr/internal/ui/status"
	"github.com/imamik/provisionr/internal/util/prerequisites"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// searchPathFromEnv returns the process search path; replaced in tests.
var searchPathFromEnv = searchpath.FromEnv

// CheckOptions holds the flags of the check command.
type CheckOptions struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
	JSON       bool
	// Probe also runs tools reached through the package manager, which may
	// make the manager resolve the project environment.
	Probe bool
}

// CheckReport is the outcome of a read-only environment check.
type CheckReport struct {
	OSIdentifier string                      `json:"osIdentifier"`
	Platform     string                      `json:"platform"`
	Supported    bool                        `json:"supported"`
	Manifest     string                      `json:"manifest"`
	ManifestOK   bool                        `json:"manifestFound"`
	Tools        *prerequisites.CheckResults `json:"tools"`
	NotProbed    []string                    `json:"notProbed,omitempty"`
	Problems     []string                    `json:"problems,omitempty"`
}

// OK reports whether a provisioning run could start.
func (r *CheckReport) OK() bool {
	return len(r.Problems) == 0
}

// Check reports whether the host, the manifest and the tools a run depends on
// are in place, without changing anything.
func Check(ctx context.Context, opts CheckOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	wd, err := getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	logger := logging.New(stderr, opts.Verbose)
	runner := newRunner(logger)

	report := &CheckReport{Manifest: cfg.Manifest}

	report.OSIdentifier = identifyHost(ctx)
	tag, err := preflight.DetectPlatform(report.OSIdentifier)
	report.Platform = tag.String()
	if err != nil {
		report.Problems = append(report.Problems, fmt.Sprintf("unsupported platform %q", report.OSIdentifier))
	} else {
		report.Supported = true
	}

	pctx := provisioning.NewContext(ctx, cfg, runner, nil, nil, wd)
	if err := preflight.RequireManifest(pctx); err != nil {
		report.Problems = append(report.Problems, provisioning.HintFor(err))
	} else {
		report.ManifestOK = true
	}

	installDir, err := cfg.InstallDirPath()
	if err != nil {
		return fmt.Errorf("failed to resolve install dir: %w", err)
	}

	var tools []prerequisites.Tool
	for _, tool := range prerequisites.ToolsFor(cfg) {
		if !opts.Probe && runsThroughManager(cfg, tool) {
			report.NotProbed = append(report.NotProbed, tool.Name)
			continue
		}
		tools = append(tools, tool)
	}

	checker := &prerequisites.Checker{
		Path:   searchPathFromEnv().Prepend(installDir),
		Runner: runner,
		Dir:    wd,
	}
	report.Tools = checker.Check(ctx, tools)
	if err := report.Tools.Error(); err != nil {
		report.Problems = append(report.Problems, err.Error())
	}

	if opts.JSON {
		if err := writeJSON(stdout, report); err != nil {
			return err
		}
	} else {
		printCheckReport(status.New(stdout, stderr, useColor(opts.NoColor)), report)
	}

	if !report.OK() {
		return &ReportedError{Err: errors.New("environment check failed: " + strings.Join(report.Problems, "; "))}
	}
	return nil
}

// runsThroughManager reports whether probing tool means running `<manager> run`.
func runsThroughManager(cfg *config.Config, tool prerequisites.Tool) bool {
	argv := tool.VersionCommand
	return len(argv) > 1 && argv[0] == cfg.Manager.Name && argv[1] == "run"
}

func printCheckReport(p *status.Printer, r *CheckReport) {
	if r.Supported {
		p.OK("platform %s (%s)", r.Platform, r.OSIdentifier)
	} else {
		p.Fail("platform %q is not supported", r.OSIdentifier)
	}

	if r.ManifestOK {
		p.OK("manifest %s found", r.Manifest)
	} else {
		p.Fail("manifest %s not found", r.Manifest)
	}

	for _, res := range r.Tools.Results {
		switch {
		case res.Found && res.Version != "":
			p.OK("%s: %s", res.Tool.Name, res.Version)
		case res.Found:
			p.OK("%s found at %s", res.Tool.Name, res.Path)
		case res.Tool.Required:
			p.Fail("%s not available", res.Tool.Name)
		default:
			p.Warn("%s not available (optional)", res.Tool.Name)
		}
	}

	for _, name := range r.NotProbed {
		p.Info("%s not probed (use --probe)", name)
	}

	if r.OK() {
		p.OK("ready to provision")
		return
	}
	for _, problem := range r.Problems {
		p.Fail("%s", problem)
	}
}
