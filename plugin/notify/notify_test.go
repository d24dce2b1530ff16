package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hrygo/portfolio/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeNotifier struct {
	name string
	err  error

	mu  sync.Mutex
	got []*store.ContactMessage
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Notify(_ context.Context, msg *store.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

type fakeRecorder struct {
	mu      sync.Mutex
	results map[string]bool
}

func (r *fakeRecorder) RecordNotification(notifier string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]bool{}
	}
	r.results[notifier] = success
}

func TestDispatch_AllNotifiersRun(t *testing.T) {
	a := &fakeNotifier{name: "a"}
	b := &fakeNotifier{name: "b", err: errors.New("unreachable")}
	c := &fakeNotifier{name: "c"}
	rec := &fakeRecorder{}
	d := NewDispatcher(rec, a, b, c)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"a", "b", "c"}, d.Names())

	err := d.Dispatch(context.Background(), &store.ContactMessage{Reference: "r1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, b.err)
	assert.Contains(t, err.Error(), "b: unreachable")

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 1, c.count())
	assert.Equal(t, map[string]bool{"a": true, "b": false, "c": true}, rec.results)
}

func TestDispatch_NoNotifiers(t *testing.T) {
	d := NewDispatcher(nil)
	assert.NoError(t, d.Dispatch(context.Background(), &store.ContactMessage{}))
	d.DispatchAsync(&store.ContactMessage{})
	d.Wait()
}

func TestDispatchAsync(t *testing.T) {
	a := &fakeNotifier{name: "a"}
	b := &fakeNotifier{name: "b", err: errors.New("down")}
	d := NewDispatcher(nil, a, b)

	for i := 0; i < 5; i++ {
		d.DispatchAsync(&store.ContactMessage{Reference: "async"})
	}
	d.Wait()

	assert.Equal(t, 5, a.count())
	assert.Equal(t, 5, b.count())
}
