package intent

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/backend"
	"github.com/shlapabank/dashboard-go/pkg/backend/backendtest"
	"github.com/shlapabank/dashboard-go/pkg/otp"
	"github.com/shlapabank/dashboard-go/pkg/token"
	"github.com/shlapabank/dashboard-go/signal"
)

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

// last returns the payload of the most recent signal of typ.
func (r *recorder) last(t *testing.T, typ string) map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.envs) - 1; i >= 0; i-- {
		if r.envs[i].Type == typ {
			event, ok := r.envs[i].Event.(map[string]interface{})
			require.True(t, ok, "signal %s has no object payload", typ)
			return event
		}
	}
	require.Failf(t, "signal not sent", "no %s signal", typ)
	return nil
}

type harness struct {
	srv        *backendtest.Server
	tokens     *token.Store
	client     *backend.Client
	clock      *clock.Fake
	coord      *otp.Coordinator
	dispatcher *Dispatcher
	signals    *recorder
}

func newHarness(t *testing.T) *harness {
	srv := backendtest.NewServer(t)
	tokens, err := token.NewStore("")
	require.NoError(t, err)
	require.NoError(t, tokens.Set(backendtest.Token))

	loc := i18n.New("en")
	mapper := apierrors.NewMapper(loc)
	client := backend.NewClient(srv.BaseURL(), tokens, mapper)
	fc := clock.NewFake(time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC))

	coord := otp.NewCoordinator(otp.NewPreviewIssuer(client, fc), NewExecutor(client), mapper, loc, otp.WithClock(fc))
	h := &harness{
		srv:        srv,
		tokens:     tokens,
		client:     client,
		clock:      fc,
		coord:      coord,
		dispatcher: NewDispatcher(client, coord, loc, WithClock(fc)),
		signals:    &recorder{},
	}

	signal.SetSignalHandler(h.signals.handle)
	t.Cleanup(func() {
		h.dispatcher.Close()
		if coord.Active() {
			_ = coord.Cancel()
		}
		signal.SetSignalHandler(nil)
	})
	return h
}
