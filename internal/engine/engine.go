package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tbpush/tbpush/internal/publisher"
)

// Plan is the fixed shape of a run: how long to pause between rounds and how
// many rounds to attempt. Rounds == 0 means unbounded — the loop runs until
// the context is cancelled. Interval == 0 with Rounds == 0 is a valid but
// maximally aggressive tight loop; the engine does not guard against it.
type Plan struct {
	Interval time.Duration
	Rounds   int
}

// Sender performs one publish attempt. The engine never retries within a
// round; the next scheduled round is the retry.
type Sender interface {
	Send(ctx context.Context) publisher.Result
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context) publisher.Result

func (f SenderFunc) Send(ctx context.Context) publisher.Result { return f(ctx) }

// Outcome is the record of one attempted round. It is ephemeral: handed to
// the OnRound hook, folded into the summary counters, then dropped.
type Outcome struct {
	Round  int
	OK     bool
	Detail string
}

// Summary accumulates across the run. Attempted == Succeeded + Failed holds
// after every round.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
}

// State of the engine. There is no internal aborted state: round failures
// are recorded and the loop proceeds, and external cancellation still ends
// in Completed with the summary accumulated so far.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

// Options configures a run.
type Options struct {
	Plan   Plan
	Sender Sender

	// OnRound, if set, receives every round's outcome as it happens.
	OnRound func(Outcome)
}

// Engine drives the send loop: one round at a time, strictly sequential,
// with an interruptible wait between rounds. All state is owned by the
// single goroutine that calls Run.
type Engine struct {
	opts  Options
	state State
}

// New validates the plan and returns an idle engine.
func New(opts Options) (*Engine, error) {
	if opts.Sender == nil {
		return nil, errors.New("engine: sender required")
	}
	if opts.Plan.Interval < 0 {
		return nil, errors.New("engine: interval must be >= 0")
	}
	if opts.Plan.Rounds < 0 {
		return nil, errors.New("engine: rounds must be >= 0")
	}
	return &Engine{opts: opts}, nil
}

// State reports where the engine is in its lifecycle.
func (e *Engine) State() State { return e.state }

// Run executes the plan and returns the final summary.
//
// Each round: attempt the publish, account the outcome, apply the stopping
// rule, then wait out the interval before the next round. A failed round is
// counted and the loop moves on — a transient network failure in one round
// must not sink the remaining scheduled rounds. The final round is never
// followed by a wait.
//
// Cancellation is honoured at the inter-round wait (and between rounds when
// the interval is zero), so an interrupted unbounded run still reports the
// counters it accumulated.
func (e *Engine) Run(ctx context.Context) Summary {
	e.state = StateRunning
	var sum Summary

	for round := 1; ; round++ {
		res := e.opts.Sender.Send(ctx)

		sum.Attempted++
		if res.OK {
			sum.Succeeded++
			slog.Info("engine: round succeeded",
				"round", round, "status", res.StatusCode)
		} else {
			sum.Failed++
			slog.Warn("engine: round failed",
				"round", round, "detail", res.Detail)
		}

		if e.opts.OnRound != nil {
			e.opts.OnRound(Outcome{Round: round, OK: res.OK, Detail: res.Detail})
		}

		if e.opts.Plan.Rounds != 0 && round >= e.opts.Plan.Rounds {
			break
		}
		if !e.wait(ctx) {
			break
		}
	}

	e.state = StateCompleted
	slog.Info("engine: run completed",
		"attempted", sum.Attempted,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
	)
	return sum
}

// wait pauses for the inter-round interval. Returns false when the context
// was cancelled, meaning the loop should stop instead of starting another
// round. A zero interval only checks for cancellation.
func (e *Engine) wait(ctx context.Context) bool {
	if e.opts.Plan.Interval <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(e.opts.Plan.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
