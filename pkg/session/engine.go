package session

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/backend"
	"github.com/shlapabank/dashboard-go/pkg/config"
	"github.com/shlapabank/dashboard-go/pkg/intent"
	"github.com/shlapabank/dashboard-go/pkg/otp"
	"github.com/shlapabank/dashboard-go/pkg/token"
)

// engine is everything a started service owns.
type engine struct {
	loc         *i18n.Localizer
	mapper      *apierrors.Mapper
	tokens      *token.Store
	client      *backend.Client
	coordinator *otp.Coordinator
	dispatcher  *intent.Dispatcher
}

func newEngine(cfg config.Config, clk clock.Clock, logger *zap.Logger) (*engine, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewStore(cfg.Session.TokenFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session token store")
	}

	loc := i18n.New(cfg.UI.Locale)
	mapper := apierrors.NewMapper(loc)
	client := backend.NewClient(cfg.Backend.BaseURL, tokens, mapper,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
		backend.WithRedirect(cfg.Session.LoginPath, cfg.Session.RedirectDelay),
		backend.WithLogger(logger),
	)

	coordinator := otp.NewCoordinator(
		otp.NewPreviewIssuer(client, clk),
		intent.NewExecutor(client, intent.WithExecutorLogger(logger)),
		mapper,
		loc,
		otp.WithClock(clk),
		otp.WithLogger(logger),
	)

	dispatcher := intent.NewDispatcher(client, coordinator, loc,
		intent.WithRules(rules),
		intent.WithClock(clk),
		intent.WithDebounce(cfg.Lookup.Debounce),
		intent.WithLogger(logger),
	)

	return &engine{
		loc:         loc,
		mapper:      mapper,
		tokens:      tokens,
		client:      client,
		coordinator: coordinator,
		dispatcher:  dispatcher,
	}, nil
}

func (e *engine) close() {
	e.dispatcher.Close()
	if e.coordinator.Active() {
		_ = e.coordinator.Cancel()
	}
}
