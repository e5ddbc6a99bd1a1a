package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/imamik/provisionr/internal/platform/rscript"
)

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Manager.Name == "" {
		errs = append(errs, errors.New("manager.name is required"))
	}
	if err := validateInstallURL(c.Manager.InstallURL); err != nil {
		errs = append(errs, err)
	}
	if c.Manager.InstallDir == "" {
		errs = append(errs, errors.New("manager.install_dir is required"))
	}

	if c.Manifest == "" {
		errs = append(errs, errors.New("manifest is required"))
	} else if strings.ContainsAny(c.Manifest, `/\`) {
		errs = append(errs, fmt.Errorf("manifest %q must be a file name, not a path", c.Manifest))
	}

	for i, task := range c.Tasks {
		if strings.TrimSpace(task) == "" {
			errs = append(errs, fmt.Errorf("tasks[%d] is empty", i))
		}
	}

	if len(c.Runtime.Packages) > 0 && len(c.Runtime.Command) == 0 {
		errs = append(errs, errors.New("runtime.command is required when runtime.packages is set"))
	}
	seen := make(map[string]bool, len(c.Runtime.Packages))
	for _, p := range c.Runtime.Packages {
		if err := rscript.ValidatePackageName(p); err != nil {
			errs = append(errs, fmt.Errorf("runtime.packages: %w", err))
		}
		if seen[p] {
			errs = append(errs, fmt.Errorf("runtime.packages: %q listed twice", p))
		}
		seen[p] = true
	}

	return errors.Join(errs...)
}

func validateInstallURL(raw string) error {
	if raw == "" {
		return errors.New("manager.install_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("manager.install_url: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("manager.install_url %q must be an https URL", raw)
	}
	return nil
}
