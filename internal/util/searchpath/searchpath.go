package searchpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound is returned by LookPath when no directory contains the executable.
var ErrNotFound = errors.New("executable not found in search path")

// Path is an ordered list of directories searched for executables.
// The zero value is an empty path.
type Path struct {
	dirs []string
}

// New creates a Path from directories, dropping empty entries and duplicates
// while keeping first occurrence order.
func New(dirs ...string) Path {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return Path{dirs: out}
}

// Parse splits a PATH-style string using the OS list separator.
func Parse(value string) Path {
	return New(filepath.SplitList(value)...)
}

// FromEnv returns the search path of the current process.
func FromEnv() Path {
	return Parse(os.Getenv("PATH"))
}

// Dirs returns a copy of the directories in search order.
func (p Path) Dirs() []string {
	return append([]string(nil), p.dirs...)
}

// Contains reports whether dir is part of the path.
func (p Path) Contains(dir string) bool {
	for _, d := range p.dirs {
		if d == dir {
			return true
		}
	}
	return false
}

// Prepend returns a new Path with dir searched first. If dir is already
// present it is moved to the front.
func (p Path) Prepend(dir string) Path {
	return New(append([]string{dir}, p.dirs...)...)
}

// String renders the path with the OS list separator.
func (p Path) String() string {
	return strings.Join(p.dirs, string(os.PathListSeparator))
}

// Environ returns base with its PATH entry replaced by this path.
// A PATH entry is appended when base has none.
func (p Path) Environ(base []string) []string {
	out := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if isPathVar(kv) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "PATH="+p.String())
}

// LookPath searches the path for an executable named name and returns its
// absolute location. Names containing a separator are checked directly.
func (p Path) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	for _, dir := range p.dirs {
		for _, candidate := range candidates(name) {
			full := filepath.Join(dir, candidate)
			if isExecutable(full) {
				return full, nil
			}
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}

func isPathVar(kv string) bool {
	if runtime.GOOS == "windows" {
		return strings.HasPrefix(strings.ToUpper(kv), "PATH=")
	}
	return strings.HasPrefix(kv, "PATH=")
}

// candidates lists the file names tried for name; Windows adds PATHEXT suffixes.
func candidates(name string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(name) != "" {
		return []string{name}
	}
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".COM;.EXE;.BAT;.CMD"
	}
	out := []string{name}
	for _, ext := range strings.Split(strings.ToLower(exts), ";") {
		if ext != "" {
			out = append(out, name+ext)
		}
	}
	return out
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
