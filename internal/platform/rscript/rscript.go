// Package rscript builds the inline R program used to probe package
// availability and parses what it prints.
//
// The probe runs inside the target runtime so "installed" means exactly what
// requireNamespace() reports there. Each package produces one line:
//
//	OK <name>
//	MISSING <name>
package rscript

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	markerOK      = "OK"
	markerMissing = "MISSING"
)

// ErrInvalidPackageName is returned for names R would not accept.
var ErrInvalidPackageName = errors.New("invalid R package name")

// packageNameRegex follows R's rules: letters, digits and dots, starting with
// a letter, not ending in a dot.
var packageNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*[A-Za-z0-9]$|^[A-Za-z]$`)

// ValidatePackageName checks a single package name.
func ValidatePackageName(name string) error {
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// ProbeScript returns an R expression printing one status line per package.
func ProbeScript(packages []string) (string, error) {
	quoted := make([]string, 0, len(packages))
	for _, p := range packages {
		if err := ValidatePackageName(p); err != nil {
			return "", err
		}
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}

	return fmt.Sprintf(
		`for (p in c(%s)) cat(sprintf("%%s %%s\n", if (requireNamespace(p, quietly = TRUE)) "%s" else "%s", p))`,
		strings.Join(quoted, ", "), markerOK, markerMissing,
	), nil
}

// ParseProbeOutput maps every requested package to its installed status.
// Packages absent from the output count as missing; unrelated lines are ignored.
func ParseProbeOutput(output string, packages []string) map[string]bool {
	status := make(map[string]bool, len(packages))
	for _, p := range packages {
		status[p] = false
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		if _, requested := status[fields[1]]; !requested {
			continue
		}
		switch fields[0] {
		case markerOK:
			status[fields[1]] = true
		case markerMissing:
			status[fields[1]] = false
		}
	}
	return status
}

// VersionScript prints the runtime's version string on one line.
const VersionScript = `cat(R.version.string, "\n")`
