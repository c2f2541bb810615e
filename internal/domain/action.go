package domain

import (
	"context"
	"sync"
)

// ActionFunc is a deferred action supplied by a caller, invoked when the
// download it belongs to completes
type ActionFunc func(ctx context.Context) error

// ActionHandle is an opaque, later-invocable action bound to a
// notification id
type ActionHandle interface {
	// NotifyID returns the notification id the action is bound to
	NotifyID() int

	// Fire runs the action. The action runs at most once; repeated calls
	// return the outcome of the first run.
	Fire(ctx context.Context) error
}

// WrapAction wraps a caller-supplied action as a fire-once handle bound
// to the given notification id
func WrapAction(notifyID int, fn ActionFunc) ActionHandle {
	return &onceHandle{notifyID: notifyID, fn: fn}
}

type onceHandle struct {
	notifyID int
	fn       ActionFunc
	once     sync.Once
	err      error
}

func (h *onceHandle) NotifyID() int { return h.notifyID }

func (h *onceHandle) Fire(ctx context.Context) error {
	h.once.Do(func() {
		h.err = h.fn(ctx)
	})
	return h.err
}
