package pipeline

import (
	"context"
	"errors"

	"github.com/makeasinger/musicvideo/internal/model"
)

// Tracker observes job state transitions. Implementations must not block the
// pipeline for long; returned errors are logged and otherwise ignored.
type Tracker interface {
	Transition(ctx context.Context, jobID string, state model.JobState, detail string) error
}

// NopTracker ignores every transition.
type NopTracker struct{}

func (NopTracker) Transition(context.Context, string, model.JobState, string) error { return nil }

// Trackers fans a transition out to every tracker in order.
type Trackers []Tracker

func (ts Trackers) Transition(ctx context.Context, jobID string, state model.JobState, detail string) error {
	var errs []error
	for _, t := range ts {
		if err := t.Transition(ctx, jobID, state, detail); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
