package provisioning

import (
	"errors"
	"fmt"
)

// ErrPostconditionUnmet is returned when a step's action ran but its
// postcondition still does not hold.
var ErrPostconditionUnmet = errors.New("postcondition not met after action")

// Step is a Phase assembled from functions. Precondition and Satisfied are
// optional.
//
// Order: Precondition must pass; if Satisfied already reports true the step is
// skipped; otherwise Action runs and Satisfied must report true afterwards.
type Step struct {
	StepName     string
	Description  string
	Precondition func(ctx *Context) error
	Satisfied    func(ctx *Context) (bool, error)
	Action       func(ctx *Context) error

	// SkipReason is reported when Satisfied holds before Action.
	SkipReason string
}

// Name implements Phase.
func (s *Step) Name() string {
	return s.StepName
}

// Describe returns the line announcing the step.
func (s *Step) Describe() string {
	if s.Description != "" {
		return s.Description
	}
	return s.StepName
}

// Provision implements Phase.
func (s *Step) Provision(ctx *Context) error {
	if s.Precondition != nil {
		if err := s.Precondition(ctx); err != nil {
			return err
		}
	}

	if s.Satisfied != nil {
		ok, err := s.Satisfied(ctx)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", s.StepName, err)
		}
		if ok {
			reason := s.SkipReason
			if reason == "" {
				reason = "already satisfied"
			}
			return Skip(reason)
		}
	}

	if s.Action == nil {
		return nil
	}
	if err := s.Action(ctx); err != nil {
		return err
	}

	if s.Satisfied != nil {
		ok, err := s.Satisfied(ctx)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", s.StepName, err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", s.StepName, ErrPostconditionUnmet)
		}
	}
	return nil
}
