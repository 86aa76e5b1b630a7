// Package runner executes long import/export operations in the
// background: one operation per workbook at a time, progress delivered
// over a channel, cooperative abort through context cancellation.
package runner

import (
	"context"
	"errors"
	"sync"

	"github.com/dt-pm-tools/sheet-sync/internal/mapper"
)

// ErrBusy is returned when an operation is already running against the
// same workbook.
var ErrBusy = errors.New("an operation is already running on this workbook")

// State classifies how an operation ended.
type State int

const (
	Completed State = iota
	Failed
	Aborted
)

func (s State) String() string {
	switch s {
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ProgressEvent is one progress update from a running operation.
type ProgressEvent struct {
	Stage   string
	Current int
	// Max is 0 when the total is not known.
	Max int
}

// Result is the terminal outcome of an operation.
type Result struct {
	State State
	Err   error
}

// Handle tracks one running operation. Progress carries updates until
// the operation ends; Done delivers exactly one Result and is then
// closed.
type Handle struct {
	Progress <-chan ProgressEvent
	Done     <-chan Result
	cancel   context.CancelCauseFunc
}

// Abort requests cooperative cancellation. The operation stops at its
// next poll point and reports the Aborted state.
func (h *Handle) Abort() {
	h.cancel(mapper.ErrAborted)
}

// Runner launches operations and enforces the one-per-workbook rule.
type Runner struct {
	mu   sync.Mutex
	busy map[string]bool
}

func New() *Runner {
	return &Runner{busy: make(map[string]bool)}
}

// Run starts fn in the background, keyed by workbook path. It returns
// ErrBusy without starting anything when an operation is already
// running for the same key.
func (r *Runner) Run(ctx context.Context, workbookKey string, fn func(ctx context.Context, progress func(stage string, current, max int)) error) (*Handle, error) {
	r.mu.Lock()
	if r.busy[workbookKey] {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.busy[workbookKey] = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancelCause(ctx)
	progressCh := make(chan ProgressEvent, 64)
	doneCh := make(chan Result, 1)

	progress := func(stage string, current, max int) {
		select {
		case progressCh <- ProgressEvent{Stage: stage, Current: current, Max: max}:
		default:
			// A slow consumer drops updates rather than stalling the
			// operation.
		}
	}

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.busy, workbookKey)
			r.mu.Unlock()
		}()
		err := fn(ctx, progress)
		close(progressCh)
		doneCh <- Result{State: classify(err), Err: err}
		close(doneCh)
		cancel(nil)
	}()

	return &Handle{Progress: progressCh, Done: doneCh, cancel: cancel}, nil
}

// classify maps an operation error to its terminal state. Cancellation
// counts as an abort whether it surfaced as the tagged sentinel or a
// raw context error.
func classify(err error) State {
	switch {
	case err == nil:
		return Completed
	case errors.Is(err, mapper.ErrAborted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return Aborted
	default:
		return Failed
	}
}
