// Package installer fetches a tool's install script over HTTPS and executes it.
package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/imamik/provisionr/internal/platform/shell"
	"github.com/imamik/provisionr/internal/util/searchpath"
)

// maxScriptSize bounds the downloaded script.
const maxScriptSize = 4 << 20

// ErrInsecureURL is returned for installer URLs not using https.
var ErrInsecureURL = errors.New("installer URL must use https")

// Spec describes one installer invocation.
type Spec struct {
	// URL of the install script.
	URL string
	// Shell interprets the script read from stdin (e.g. "bash").
	Shell string
	// Path is the search path used to find Shell.
	Path   searchpath.Path
	Stdout io.Writer
	Stderr io.Writer
}

// Installer downloads and runs install scripts.
type Installer struct {
	client *http.Client
	runner shell.Runner
}

// New creates an Installer. A nil client uses http.DefaultClient.
func New(client *http.Client, runner shell.Runner) *Installer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Installer{client: client, runner: runner}
}

// Install fetches spec.URL and pipes it into spec.Shell, the equivalent of
// `curl -fsSL <url> | <shell>`.
func (i *Installer) Install(ctx context.Context, spec Spec) error {
	script, err := i.Fetch(ctx, spec.URL)
	if err != nil {
		return err
	}

	sh := spec.Shell
	if sh == "" {
		sh = "sh"
	}

	err = i.runner.Run(ctx, shell.Command{
		Name:   sh,
		Args:   []string{"-s"},
		Path:   spec.Path,
		Stdin:  bytes.NewReader(script),
		Stdout: spec.Stdout,
		Stderr: spec.Stderr,
	})
	if err != nil {
		return fmt.Errorf("install script %s failed: %w", spec.URL, err)
	}
	return nil
}

// Fetch downloads the script at rawURL.
func (i *Installer) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid installer URL %q: %w", rawURL, err)
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrInsecureURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download installer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download installer: %s returned %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read installer: %w", err)
	}
	if len(body) > maxScriptSize {
		return nil, fmt.Errorf("installer at %s exceeds %d bytes", rawURL, maxScriptSize)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("installer at %s is empty", rawURL)
	}
	return body, nil
}
