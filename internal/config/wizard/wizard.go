package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Package manager
	Manager  string
	Manifest string

	// Tasks run in order after the base install
	Tasks []string

	// Runtime packages to verify
	Packages []string

	// Auxiliary tool; AuxToolNone disables it
	AuxTool         string
	AuxViaManager   bool
	AuxToolRequired bool

	// Commands shown in the closing banner
	FollowUp []string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{}

	if err := runManagerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("package manager: %w", err)
	}

	if err := runTasksGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}

	if err := runPackagesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("packages: %w", err)
	}

	if err := runAuxToolGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("auxiliary tool: %w", err)
	}

	if err := runFollowUpGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("follow-up: %w", err)
	}

	return result, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
