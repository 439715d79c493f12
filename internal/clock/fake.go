package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Timer callbacks run synchronously
// inside Advance; ticks are delivered like time.Ticker and dropped when the
// receiver lags.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{
		clock:  f,
		period: d,
		next:   f.now.Add(d),
		ch:     make(chan time.Time, 1),
	}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{clock: f, at: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// PendingTimers reports how many timers are armed and not yet fired.
func (f *Fake) PendingTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Advance moves the clock forward, firing due tickers and timers in order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		at, fire := f.nextEventLocked(target)
		if fire == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = at
		f.mu.Unlock()
		fire()
	}
}

func (f *Fake) nextEventLocked(target time.Time) (time.Time, func()) {
	type event struct {
		at   time.Time
		fire func()
	}
	var events []event

	for _, t := range f.tickers {
		t := t
		if !t.next.After(target) {
			events = append(events, event{at: t.next, fire: func() {
				f.mu.Lock()
				now := f.now
				t.next = t.next.Add(t.period)
				f.mu.Unlock()
				select {
				case t.ch <- now:
				default:
				}
			}})
		}
	}
	for _, t := range f.timers {
		t := t
		if !t.at.After(target) {
			events = append(events, event{at: t.at, fire: func() {
				f.mu.Lock()
				f.removeTimerLocked(t)
				f.mu.Unlock()
				t.fn()
			}})
		}
	}
	if len(events) == 0 {
		return time.Time{}, nil
	}
	sort.SliceStable(events, func(a, b int) bool { return events[a].at.Before(events[b].at) })
	return events[0].at, events[0].fire
}

func (f *Fake) removeTimerLocked(t *fakeTimer) bool {
	for i, candidate := range f.timers {
		if candidate == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Fake) removeTickerLocked(t *fakeTicker) {
	for i, candidate := range f.tickers {
		if candidate == t {
			f.tickers = append(f.tickers[:i], f.tickers[i+1:]...)
			return
		}
	}
}

type fakeTicker struct {
	clock  *Fake
	period time.Duration
	next   time.Time
	ch     chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.clock.removeTickerLocked(t)
}

type fakeTimer struct {
	clock *Fake
	at    time.Time
	fn    func()
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.clock.removeTimerLocked(t)
}
