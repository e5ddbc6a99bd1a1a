package testing

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// T is the part of testing.TB the fixtures use. GinkgoT() satisfies it too.
type T interface {
	Helper()
	Cleanup(func())
	TempDir() string
	Fatalf(format string, args ...any)
}

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// WriteExecutable creates an executable stub named name in dir and returns
// its path.
func WriteExecutable(t T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil { // #nosec G306 -- test stub must be executable
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
