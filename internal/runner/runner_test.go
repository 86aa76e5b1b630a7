package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dt-pm-tools/sheet-sync/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCompletes(t *testing.T) {
	r := New()
	handle, err := r.Run(context.Background(), "book.xlsx", func(ctx context.Context, progress func(stage string, current, max int)) error {
		progress("working", 1, 2)
		progress("working", 2, 2)
		return nil
	})
	require.NoError(t, err)

	var events []ProgressEvent
	for ev := range handle.Progress {
		events = append(events, ev)
	}
	result := <-handle.Done
	assert.Equal(t, Completed, result.State)
	assert.NoError(t, result.Err)
	require.Len(t, events, 2)
	assert.Equal(t, ProgressEvent{Stage: "working", Current: 2, Max: 2}, events[1])
}

func TestRunRejectsConcurrentOperationOnSameWorkbook(t *testing.T) {
	r := New()
	release := make(chan struct{})
	handle, err := r.Run(context.Background(), "book.xlsx", func(ctx context.Context, progress func(string, int, int)) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	_, err = r.Run(context.Background(), "book.xlsx", func(ctx context.Context, progress func(string, int, int)) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)

	// A different workbook is fine.
	other, err := r.Run(context.Background(), "other.xlsx", func(ctx context.Context, progress func(string, int, int)) error {
		return nil
	})
	require.NoError(t, err)
	<-other.Done

	close(release)
	<-handle.Done

	// The key frees up once the operation ends.
	again, err := r.Run(context.Background(), "book.xlsx", func(ctx context.Context, progress func(string, int, int)) error {
		return nil
	})
	require.NoError(t, err)
	<-again.Done
}

func TestRunAbort(t *testing.T) {
	r := New()
	handle, err := r.Run(context.Background(), "book.xlsx", func(ctx context.Context, progress func(string, int, int)) error {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", mapper.ErrAborted, context.Cause(ctx))
		case <-time.After(10 * time.Second):
			return errors.New("abort never arrived")
		}
	})
	require.NoError(t, err)

	handle.Abort()
	result := <-handle.Done
	assert.Equal(t, Aborted, result.State)
	assert.ErrorIs(t, result.Err, mapper.ErrAborted)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Completed, classify(nil))
	assert.Equal(t, Aborted, classify(mapper.ErrAborted))
	assert.Equal(t, Aborted, classify(fmt.Errorf("walking rows: %w", context.Canceled)))
	assert.Equal(t, Failed, classify(errors.New("boom")))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "aborted", Aborted.String())
}
