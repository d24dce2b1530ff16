// Package notify fans contact messages out to the configured delivery channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/portfolio/store"
)

// Notifier delivers a contact message over one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg *store.ContactMessage) error
}

// Recorder observes delivery outcomes.
type Recorder interface {
	RecordNotification(notifier string, success bool)
}

// asyncTimeout bounds a background dispatch.
const asyncTimeout = time.Minute

// Dispatcher sends each message to every notifier.
type Dispatcher struct {
	notifiers []Notifier
	recorder  Recorder
	wg        sync.WaitGroup
}

func NewDispatcher(recorder Recorder, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, recorder: recorder}
}

// Len returns the number of configured notifiers.
func (d *Dispatcher) Len() int {
	return len(d.notifiers)
}

// Names returns the notifier names in registration order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Dispatch runs all notifiers concurrently and joins their errors.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *store.ContactMessage) error {
	errs := make([]error, len(d.notifiers))
	var wg sync.WaitGroup
	for i, n := range d.notifiers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := n.Notify(ctx, msg)
			if d.recorder != nil {
				d.recorder.RecordNotification(n.Name(), err == nil)
			}
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", n.Name(), err)
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// DispatchAsync dispatches in the background and logs failures.
func (d *Dispatcher) DispatchAsync(msg *store.ContactMessage) {
	if len(d.notifiers) == 0 {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := d.Dispatch(ctx, msg); err != nil {
			slog.Warn("Failed to deliver contact notification",
				slog.String("reference", msg.Reference),
				slog.Any("err", err))
		}
	}()
}

// Wait blocks until background dispatches finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
