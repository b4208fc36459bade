package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/avisko/rostersync/internal/directory"
)

// Outcome records what happened to one intent.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped" // dry-run
	OutcomeFailed  Outcome = "failed"
	OutcomeNoOp    Outcome = "noop"
)

// Result pairs an intent with its execution outcome.
type Result struct {
	Intent  Intent
	Outcome Outcome
	Err     error
}

// Summary is the run-level account of a sync: every intent with its outcome
// plus aggregate counts. A run with Failed > 0 reports overall failure even
// though the remaining intents were still attempted.
type Summary struct {
	Results []Result
	Applied int
	Skipped int
	Failed  int
	NoOps   int
}

// String renders the aggregate counts, e.g. "applied 3, failed 1, no-ops 12".
func (s Summary) String() string {
	if s.Skipped > 0 {
		return fmt.Sprintf("skipped %d (dry-run), no-ops %d", s.Skipped, s.NoOps)
	}
	return fmt.Sprintf("applied %d, failed %d, no-ops %d", s.Applied, s.Failed, s.NoOps)
}

// Executor applies an intent list to the directory. In dry-run mode every
// intent is reported to out and nothing is called. A failed intent is
// recorded and execution continues: per-intent failures never abort the run.
type Executor struct {
	dir    directory.Directory
	dryRun bool
	out    io.Writer
	log    *slog.Logger
}

// NewExecutor returns an Executor writing dry-run reports to out.
func NewExecutor(dir directory.Directory, dryRun bool, out io.Writer) *Executor {
	return &Executor{
		dir:    dir,
		dryRun: dryRun,
		out:    out,
		log:    slog.Default(),
	}
}

// Execute applies the intents in order and returns the run summary.
func (e *Executor) Execute(ctx context.Context, intents []Intent) Summary {
	summary := Summary{Results: make([]Result, 0, len(intents))}

	for _, intent := range intents {
		if intent.Kind == KindNoOp {
			e.log.Debug("no change needed", "intent", intent.String())
			summary.Results = append(summary.Results, Result{Intent: intent, Outcome: OutcomeNoOp})
			summary.NoOps++
			continue
		}

		if e.dryRun {
			fmt.Fprintf(e.out, "would %s\n", intent)
			summary.Results = append(summary.Results, Result{Intent: intent, Outcome: OutcomeSkipped})
			summary.Skipped++
			continue
		}

		if err := e.apply(ctx, intent); err != nil {
			e.log.Error("intent failed", "intent", intent.String(), "error", err)
			summary.Results = append(summary.Results, Result{Intent: intent, Outcome: OutcomeFailed, Err: err})
			summary.Failed++
			continue
		}

		e.log.Info("intent applied", "intent", intent.String())
		summary.Results = append(summary.Results, Result{Intent: intent, Outcome: OutcomeApplied})
		summary.Applied++
	}

	return summary
}

// apply issues the single directory call an intent stands for.
func (e *Executor) apply(ctx context.Context, intent Intent) error {
	switch intent.Kind {
	case KindCreate:
		d := intent.Desired
		id, err := e.dir.CreateUser(ctx, d.Username, d.Email, d.FirstName, d.LastName)
		if err != nil {
			return err
		}
		e.log.Debug("user created", "id", id, "username", d.Username)
		return nil

	case KindUpdate:
		return e.dir.UpdateUser(ctx, intent.Target.ID, intent.Fields)

	case KindDisable:
		return e.dir.SetEnabled(ctx, intent.Target.ID, false)

	default:
		return fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
}
