package scenario

import (
	"context"
	"log/slog"
	"time"

	"github.com/networkd-conformance/harness/internal/auxproc"
	"github.com/networkd-conformance/harness/internal/config"
	"github.com/networkd-conformance/harness/internal/fixture"
	"github.com/networkd-conformance/harness/internal/staging"
)

// Runner executes scenario groups sequentially. The kernel network
// namespace is a single shared resource; whichever case is currently
// running owns it outright, so there is exactly one case in flight at any
// time.
type Runner struct {
	Config *config.Config
}

// RunOptions narrows a run to a single group and/or case by name. Empty
// fields match everything.
type RunOptions struct {
	Group string
	Case  string
}

// NewRunner returns a runner over the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{Config: cfg}
}

// Run executes every matching case of every matching group and returns the
// per-case results.
func (r *Runner) Run(ctx context.Context, groups []Group, opts RunOptions) []Result {
	results := []Result{}

	for _, g := range groups {
		if opts.Group != "" && g.Name != opts.Group {
			continue
		}

		for _, c := range g.Cases {
			if opts.Case != "" && c.Name != opts.Case {
				continue
			}

			results = append(results, r.runCase(ctx, g, c))
		}
	}

	return results
}

func (r *Runner) runCase(ctx context.Context, g Group, c Case) Result {
	slog.Info("Running case", "group", g.Name, "case", c.Name)

	start := time.Now()

	// The capability probe is evaluated once per guarded case, before the
	// case touches any shared state.
	available := true
	if c.RequiresModule != "" {
		available = auxproc.ModuleAvailable(ctx, c.RequiresModule)
		if !available {
			slog.Info("Required module unavailable, failures will be expected", "module", c.RequiresModule)
		}
	}

	err := r.setup(ctx, g)
	if err == nil {
		err = r.execute(ctx, c)
	}

	teardownErr := r.teardown(ctx, g)
	if err == nil {
		err = teardownErr
	}

	outcome := decideOutcome(err != nil, c.RequiresModule != "", available)
	if outcome != Passed {
		slog.Warn("Case did not pass", "group", g.Name, "case", c.Name, "outcome", outcome, "err", err)
	}

	return Result{
		Group:    g.Name,
		Case:     c.Name,
		Outcome:  outcome,
		Err:      err,
		Duration: time.Since(start),
	}
}

// setup enforces the case precondition: none of the group's links exist and
// no responder instance is left over from a possibly-dirty prior run.
func (r *Runner) setup(ctx context.Context, g Group) error {
	err := fixture.Reset(ctx, r.Config.LinkSettleTimeout, r.Config.PollInterval, g.Links...)
	if err != nil {
		return err
	}

	if g.UsesResponder {
		err = auxproc.Stop(r.Config.Responder.PIDFile)
		if err != nil {
			return err
		}
	}

	return nil
}

// execute runs the case body, converting a failed step or assertion back
// into an error.
func (r *Runner) execute(ctx context.Context, c Case) (err error) {
	t := &T{ctx: ctx, cfg: r.Config}

	defer func() {
		v := recover()
		if v == nil {
			return
		}

		_, ok := v.(caseFailure)
		if !ok {
			panic(v)
		}

		err = t.failure
	}()

	c.Run(t)

	return nil
}

// teardown enforces the postcondition regardless of the case outcome.
func (r *Runner) teardown(ctx context.Context, g Group) error {
	var firstErr error

	err := fixture.Reset(ctx, r.Config.LinkSettleTimeout, r.Config.PollInterval, g.Links...)
	if err != nil {
		firstErr = err
	}

	err = staging.Unstage(r.Config.UnitDirectory, g.Units...)
	if err != nil && firstErr == nil {
		firstErr = err
	}

	if g.UsesResponder {
		err = auxproc.Stop(r.Config.Responder.PIDFile)
		if err != nil && firstErr == nil {
			firstErr = err
		}

		auxproc.RemoveRuntimeFiles(r.Config)
	}

	return firstErr
}

// decideOutcome demotes a failure to SkippedCapabilityUnavailable when the
// case is gated on a module the host doesn't have. A gated case that passes
// still reports Passed so a regression back to passing stays visible.
func decideOutcome(failed bool, gated bool, available bool) Outcome {
	if !failed {
		return Passed
	}

	if gated && !available {
		return SkippedCapabilityUnavailable
	}

	return Failed
}
