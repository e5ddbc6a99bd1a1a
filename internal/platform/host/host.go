// Package host derives the platform tag of the machine running provisionr.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// EnvOSID overrides the detected OS identifier.
const EnvOSID = "PROVISIONR_OS_ID"

// ErrUnsupported is returned for OS identifiers no platform matches.
var ErrUnsupported = errors.New("unsupported platform")

// Tag identifies the platform family a run targets.
type Tag string

const (
	// Linux covers every identifier starting with "Linux".
	Linux Tag = "linux"
	// MacOS covers identifiers starting with "Darwin".
	MacOS Tag = "macos"
	// WindowsCompat covers POSIX layers on Windows (Git Bash, MSYS2, Cygwin).
	WindowsCompat Tag = "windows-compat"
	// Unsupported is returned together with ErrUnsupported.
	Unsupported Tag = "unsupported"
)

// String implements fmt.Stringer.
func (t Tag) String() string {
	return string(t)
}

// prefixes maps identifier prefixes to tags, matched case-sensitively in order.
var prefixes = []struct {
	prefix string
	tag    Tag
}{
	{"Linux", Linux},
	{"Darwin", MacOS},
	{"MINGW", WindowsCompat},
	{"MSYS", WindowsCompat},
	{"CYGWIN", WindowsCompat},
	{"Windows_NT", WindowsCompat},
}

// Detect maps an OS identifier such as "Linux 5.15" or "Darwin" to a Tag.
func Detect(osID string) (Tag, error) {
	id := strings.TrimSpace(osID)
	for _, p := range prefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.tag, nil
		}
	}
	return Unsupported, fmt.Errorf("%w: %q", ErrUnsupported, osID)
}

// unameFunc runs `uname -s`; replaced in tests.
var unameFunc = func(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "uname", "-s").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Identifier returns the host OS identifier. PROVISIONR_OS_ID wins; otherwise
// `uname -s` is asked, falling back to a name derived from runtime.GOOS.
func Identifier(ctx context.Context) string {
	if id := os.Getenv(EnvOSID); id != "" {
		return id
	}
	if id, err := unameFunc(ctx); err == nil && id != "" {
		return id
	}
	return goosIdentifier(runtime.GOOS)
}

func goosIdentifier(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows_NT"
	default:
		return goos
	}
}
