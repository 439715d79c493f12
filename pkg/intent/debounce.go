package intent

import (
	"context"
	"sync"
	"time"

	"github.com/shlapabank/dashboard-go/internal/clock"
)

// Debouncer runs at most one delayed task per key. Scheduling a key again
// cancels the previous task, including one already running.
type Debouncer struct {
	mu    sync.Mutex
	clock clock.Clock
	delay time.Duration
	tasks map[string]*task
}

type task struct {
	timer  clock.Timer
	cancel context.CancelFunc
}

func NewDebouncer(c clock.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{
		clock: c,
		delay: delay,
		tasks: map[string]*task{},
	}
}

// Schedule runs fn after the quiet period unless key is scheduled again or
// cancelled first. fn must check ctx before publishing results.
func (d *Debouncer) Schedule(key string, fn func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked(key)
	d.tasks[key] = t
	t.timer = d.clock.AfterFunc(d.delay, func() {
		d.run(ctx, key, t, fn)
	})
}

func (d *Debouncer) run(ctx context.Context, key string, t *task, fn func(ctx context.Context)) {
	d.mu.Lock()
	current := d.tasks[key] == t
	d.mu.Unlock()
	if !current {
		return
	}

	fn(ctx)

	d.mu.Lock()
	if d.tasks[key] == t {
		delete(d.tasks, key)
	}
	d.mu.Unlock()
	t.cancel()
}

func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked(key)
}

// Pending reports whether a task for key is waiting or running.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.tasks[key]
	return ok
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.tasks {
		d.stopLocked(key)
	}
}

func (d *Debouncer) stopLocked(key string) {
	t, ok := d.tasks[key]
	if !ok {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.cancel()
	delete(d.tasks, key)
}
