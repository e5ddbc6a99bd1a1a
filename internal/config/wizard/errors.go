package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errManifestRequired = errors.New("manifest filename is required")
	errManifestIsPath   = errors.New("manifest must be a filename, not a path")
	errTaskNameInvalid  = errors.New("task names must not contain spaces")
	errCommandRequired  = errors.New("at least one command is required")
)

// ErrConfigExists is returned when the output file exists and overwriting
// was not requested.
var ErrConfigExists = errors.New("config file already exists")
