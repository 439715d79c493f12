package otp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/signal"
)

type fakeIssuer struct {
	mu    sync.Mutex
	clock clock.Clock
	codes []string
	ttl   time.Duration
	errs  []error
	calls int
}

func (f *fakeIssuer) IssueChallenge(context.Context) (*Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.calls
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	now := f.clock.Now()
	return &Challenge{Code: f.codes[n%len(f.codes)], TTL: f.ttl, IssuedAt: now, ExpiresAt: now.Add(f.ttl)}, nil
}

func (f *fakeIssuer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeExecutor struct {
	mu      sync.Mutex
	codes   []string
	errs    []error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeExecutor) Execute(_ context.Context, _ operation.Operation, code string) error {
	f.mu.Lock()
	f.codes = append(f.codes, code)
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeExecutor) Codes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.codes...)
}

type recorder struct {
	mu   sync.Mutex
	envs []signal.Envelope
}

func (r *recorder) handle(data []byte) {
	var env signal.Envelope
	_ = json.Unmarshal(data, &env)
	r.mu.Lock()
	r.envs = append(r.envs, env)
	r.mu.Unlock()
}

func (r *recorder) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.envs {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func (r *recorder) last(typ string) (signal.Envelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.envs) - 1; i >= 0; i-- {
		if r.envs[i].Type == typ {
			return r.envs[i], true
		}
	}
	return signal.Envelope{}, false
}

type fixture struct {
	clock    *clock.Fake
	issuer   *fakeIssuer
	executor *fakeExecutor
	mapper   *apierrors.Mapper
	signals  *recorder
	coord    *Coordinator
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	fc := clock.NewFake(time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC))
	loc := i18n.New("en")
	f := &fixture{
		clock:    fc,
		issuer:   &fakeIssuer{clock: fc, codes: []string{"1234", "5678", "9012"}, ttl: ttl},
		executor: &fakeExecutor{},
		mapper:   apierrors.NewMapper(loc),
		signals:  &recorder{},
	}
	f.coord = NewCoordinator(f.issuer, f.executor, f.mapper, loc, WithClock(fc))

	signal.SetSignalHandler(f.signals.handle)
	t.Cleanup(func() { signal.SetSignalHandler(nil) })
	return f
}

type hooks struct {
	mu        sync.Mutex
	successes int
	closes    int
}

func (h *hooks) pending() *operation.Pending {
	p := operation.NewPending(&operation.Topup{AccountID: 1}, "Account topped up", "Top-up failed")
	p.OnSuccess = func() {
		h.mu.Lock()
		h.successes++
		h.mu.Unlock()
	}
	p.OnClose = func() {
		h.mu.Lock()
		h.closes++
		h.mu.Unlock()
	}
	return p
}

func (h *hooks) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.successes, h.closes
}
