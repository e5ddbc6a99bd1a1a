package provisioning

import (
	"fmt"
	"time"
)

// Describer is implemented by phases that announce themselves with a custom line.
type Describer interface {
	Describe() string
}

// Pipeline is an ordered list of phases.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline running phases in the given order.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes the pipeline.
func (p *Pipeline) Run(ctx *Context) error {
	return RunPhases(ctx, p.Phases)
}

// Names returns phase names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.Phases))
	for _, phase := range p.Phases {
		names = append(names, phase.Name())
	}
	return names
}

// RunPhases executes phases sequentially and stops at the first failure.
// Phases after a failure are never started.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Logger.V(1).Info("starting pipeline", "phases", len(phases), "workdir", ctx.WorkDir)

	for i, phase := range phases {
		if err := interrupted(ctx); err != nil {
			return fmt.Errorf("provisioning interrupted before %s: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name(), describe(phase, i, len(phases)))

		err := phase.Provision(ctx)
		elapsed := time.Since(phaseStart)

		if skip, ok := IsSkip(err); ok {
			ctx.State.Record(StepResult{Name: phase.Name(), Status: StepSkipped, Duration: elapsed, Message: skip.Reason})
			LogPhaseSkipped(ctx.Observer, phase.Name(), skip.Reason)
			continue
		}

		if err != nil {
			ctx.State.Record(StepResult{Name: phase.Name(), Status: StepFailed, Duration: elapsed, Message: err.Error()})
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			ctx.Logger.V(1).Info("phase failed", "phase", phase.Name(), "err", err.Error())
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.State.Record(StepResult{Name: phase.Name(), Status: StepOK, Duration: elapsed})
		LogPhaseComplete(ctx.Observer, phase.Name(), elapsed)
	}

	ctx.Logger.V(1).Info("pipeline finished", "elapsed", time.Since(start).Round(time.Millisecond).String())
	return nil
}

func describe(phase Phase, i, total int) string {
	desc := phase.Name()
	if d, ok := phase.(Describer); ok && d.Describe() != "" {
		desc = d.Describe()
	}
	return fmt.Sprintf("(%d/%d) %s", i+1, total, desc)
}

func interrupted(ctx *Context) error {
	if ctx.Context == nil {
		return nil
	}
	return ctx.Err()
}
