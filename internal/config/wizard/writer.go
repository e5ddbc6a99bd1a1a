package wizard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/imamik/provisionr/internal/config"
)

// WriteConfig validates cfg and writes it to outputPath. An existing file is
// only replaced when force is set.
func WriteConfig(cfg *config.Config, outputPath string, force bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generated configuration is invalid: %w", err)
	}

	if !force {
		_, err := os.Stat(outputPath)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, outputPath)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to check %s: %w", outputPath, err)
		}
	}

	return config.Write(cfg, outputPath)
}
