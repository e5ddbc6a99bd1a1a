// Package prerequisites checks that the tools a provisioning run relies on are
// reachable and reports their versions.
package prerequisites

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/platform/rscript"
	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in the search path.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionCommand replaces `<Name> --version`. Its first element is the
	// binary looked up; a tool reached through the package manager is found
	// when the command succeeds.
	VersionCommand []string
}

// versionArgv returns the command printing the tool's version.
func (t Tool) versionArgv() []string {
	if len(t.VersionCommand) > 0 {
		return t.VersionCommand
	}
	return []string{t.Name, "--version"}
}

// ToolsFor returns the tools a run with cfg depends on: the package manager,
// the runtime and the auxiliary tool.
func ToolsFor(cfg *config.Config) []Tool {
	tools := []Tool{{
		Name:        cfg.Manager.Name,
		Required:    true,
		Description: "Package manager installing the project environment",
		InstallURL:  cfg.Manager.InstallURL,
	}}

	if len(cfg.Runtime.Command) > 0 {
		argv := append(append([]string(nil), cfg.Runtime.Command...), rscript.VersionScript)
		tools = append(tools, Tool{
			Name:           "runtime",
			Required:       len(cfg.Runtime.Packages) > 0,
			Description:    "Runtime used to verify installed packages",
			VersionCommand: argv,
		})
	}

	if cfg.AuxTool.Name != "" {
		aux := Tool{
			Name:        cfg.AuxTool.Name,
			Required:    cfg.AuxTool.Required,
			Description: "Auxiliary tool confirmed after provisioning",
		}
		argv := append([]string{cfg.AuxTool.Name}, cfg.AuxTool.VersionArguments()...)
		if cfg.AuxTool.ViaManager {
			argv = append([]string{cfg.Manager.Name, "run"}, argv...)
		}
		aux.VersionCommand = argv
		tools = append(tools, aux)
	}
	return tools
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool   `json:"tool"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult `json:"results"`
	Missing []Tool        `json:"missing,omitempty"`
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if !tool.Required {
			continue
		}
		if tool.InstallURL != "" {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		} else {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Checker looks tools up in an explicit search path and asks them for their
// version through a shell.Runner.
type Checker struct {
	Path   searchpath.Path
	Runner shell.Runner
	// Dir is the working directory for version commands.
	Dir string
}

// Check verifies that the specified tools are available.
func (c *Checker) Check(ctx context.Context, tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}
		argv := tool.versionArgv()

		path, err := c.Path.LookPath(argv[0])
		if err == nil {
			result.Path = path
			version, verr := c.Version(ctx, argv)
			switch {
			case verr == nil:
				result.Found = true
				result.Version = version
			case len(tool.VersionCommand) == 0:
				// Found but silent about its version.
				result.Found = true
			}
		}

		if !result.Found {
			results.Missing = append(results.Missing, tool)
		}
		results.Results = append(results.Results, result)
	}

	return results
}

// Version runs argv and returns the first line it prints.
func (c *Checker) Version(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("empty version command")
	}
	var out bytes.Buffer
	err := c.Runner.Run(ctx, shell.Command{
		Name:   argv[0],
		Args:   argv[1:],
		Dir:    c.Dir,
		Path:   c.Path,
		Stdout: &out,
	})
	if err != nil {
		return "", err
	}
	return FirstLine(out.String()), nil
}

// FirstLine returns the first non-blank line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
