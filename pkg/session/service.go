package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/config"
	"github.com/shlapabank/dashboard-go/pkg/intent"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/pkg/otp"
	"github.com/shlapabank/dashboard-go/pkg/validation"
)

var (
	errServiceNotStarted     = errors.New("dashboard service not started")
	errServiceAlreadyStarted = errors.New("dashboard service already started")
)

// DashboardService is the JSON-RPC surface used by the UI. Progress of a
// confirmation is pushed as signals; the replies only carry what the caller
// needs to render immediately.
type DashboardService struct {
	mu     sync.RWMutex
	config config.Config
	clock  clock.Clock
	logger *zap.Logger
	engine *engine
}

type Option func(*DashboardService)

func WithClock(c clock.Clock) Option {
	return func(s *DashboardService) {
		s.clock = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *DashboardService) {
		s.logger = logger
	}
}

func NewDashboardService(cfg config.Config, opts ...Option) *DashboardService {
	s := &DashboardService{
		config: cfg,
		clock:  clock.Real(),
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DashboardService) current() (*engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return nil, errServiceNotStarted
	}
	return s.engine, nil
}

func (s *DashboardService) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine != nil
}

type StartRequest struct {
	BaseURL   string `json:"baseUrl" validate:"omitempty,url"`
	Locale    string `json:"locale" validate:"omitempty,oneof=ru en"`
	TokenFile string `json:"tokenFile"`
}

// Start builds the engine from the configuration, with optional overrides.
func (s *DashboardService) Start(args *StartRequest, reply *struct{}) error {
	if err := validateRequest(args); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		return errServiceAlreadyStarted
	}

	cfg := s.config
	if args.BaseURL != "" {
		cfg.Backend.BaseURL = args.BaseURL
	}
	if args.Locale != "" {
		cfg.UI.Locale = args.Locale
	}
	if args.TokenFile != "" {
		cfg.Session.TokenFile = args.TokenFile
	}

	e, err := newEngine(cfg, s.clock, s.logger)
	if err != nil {
		return err
	}
	s.engine = e
	s.logger.Named("session").Info("dashboard service started", zap.String("backend", cfg.Backend.BaseURL), zap.String("locale", cfg.UI.Locale))
	return nil
}

func (s *DashboardService) Stop(args *struct{}, reply *struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return errServiceNotStarted
	}
	s.engine.close()
	s.engine = nil
	return nil
}

type SetTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (s *DashboardService) SetToken(args *SetTokenRequest, reply *struct{}) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	return e.tokens.Set(args.Token)
}

// Logout abandons any pending confirmation and forgets the token.
func (s *DashboardService) Logout(args *struct{}, reply *struct{}) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if e.coordinator.Active() {
		_ = e.coordinator.Cancel()
	}
	return e.tokens.Clear()
}

type StatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	Locale        string     `json:"locale"`
	Confirmation  otp.Status `json:"confirmation"`
}

// GetStatus is mostly for debugging: confirmation progress is pushed as signals.
func (s *DashboardService) GetStatus(args *struct{}, reply *StatusResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	reply.Authenticated = e.tokens.Token() != ""
	reply.Locale = e.loc.Tag().String()
	reply.Confirmation = e.coordinator.Status()
	return nil
}

type ValidateFieldRequest struct {
	Kind           string      `json:"kind" validate:"required,opkind"`
	Field          string      `json:"field" validate:"required"`
	Values         intent.Form `json:"values"`
	ShowEmptyError bool        `json:"showEmptyError"`
}

func (s *DashboardService) ValidateField(args *ValidateFieldRequest, reply *validation.Result) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	res, err := e.dispatcher.ValidateField(operation.Kind(args.Kind), args.Values, args.Field, args.ShowEmptyError)
	if err != nil {
		return err
	}
	*reply = res
	return nil
}

type SubmitRequest struct {
	Kind   string      `json:"kind" validate:"required,opkind"`
	Values intent.Form `json:"values" validate:"required"`
}

type SubmitResponse struct {
	Accepted    bool              `json:"accepted"`
	OperationID string            `json:"operationId,omitempty"`
	Kind        operation.Kind    `json:"kind,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// Submit validates the form and opens its OTP confirmation. Field errors are
// returned in the reply; every other failure is an RPC error.
func (s *DashboardService) Submit(args *SubmitRequest, reply *SubmitResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}

	p, err := e.dispatcher.Submit(context.Background(), operation.Kind(args.Kind), args.Values)
	if err != nil {
		var verr *intent.ValidationError
		if errors.As(err, &verr) {
			reply.Fields = verr.Fields
			return nil
		}
		return err
	}

	reply.Accepted = true
	reply.OperationID = p.ID
	reply.Kind = p.Kind()
	return nil
}

type EnterDigitRequest struct {
	Index int    `json:"index" validate:"min=0,max=3"`
	Digit string `json:"digit" validate:"required,otpdigit"`
}

func (s *DashboardService) EnterDigit(args *EnterDigitRequest, reply *otp.Outcome) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	*reply, err = e.coordinator.EnterDigit(context.Background(), args.Index, args.Digit)
	return err
}

type BackspaceRequest struct {
	Index int `json:"index" validate:"min=0,max=3"`
}

type BackspaceResponse struct {
	Focus int `json:"focus"`
}

func (s *DashboardService) Backspace(args *BackspaceRequest, reply *BackspaceResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	reply.Focus, err = e.coordinator.Backspace(args.Index)
	return err
}

type EnterCodeRequest struct {
	Code string `json:"code" validate:"required,otpcode"`
}

func (s *DashboardService) EnterCode(args *EnterCodeRequest, reply *otp.Outcome) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	*reply, err = e.coordinator.EnterCode(context.Background(), args.Code)
	return err
}

func (s *DashboardService) RefreshChallenge(args *struct{}, reply *struct{}) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	return e.coordinator.RefreshChallenge(context.Background())
}

func (s *DashboardService) Cancel(args *struct{}, reply *struct{}) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	return e.coordinator.Cancel()
}

type LookupRequest struct {
	Value string `json:"value"`
}

// LookupAccount answers with the local check at once; the classification
// arrives later as a lookup.account-classified signal.
func (s *DashboardService) LookupAccount(args *LookupRequest, reply *validation.Result) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	*reply = e.dispatcher.LookupAccount(args.Value)
	return nil
}

func (s *DashboardService) LookupPhone(args *LookupRequest, reply *validation.Result) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	*reply = e.dispatcher.LookupPhone(args.Value)
	return nil
}

type PreviewFeeRequest struct {
	Kind   string      `json:"kind" validate:"required,opkind"`
	Values intent.Form `json:"values"`
}

type PreviewFeeResponse struct {
	Applies bool        `json:"applies"`
	Fee     *intent.Fee `json:"fee,omitempty"`
}

func (s *DashboardService) PreviewFee(args *PreviewFeeRequest, reply *PreviewFeeResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	fee, ok := e.dispatcher.PreviewFee(operation.Kind(args.Kind), args.Values)
	if ok {
		reply.Applies = true
		reply.Fee = &fee
	}
	return nil
}

type PreviewExchangeRequest struct {
	From   string `json:"from" validate:"required,iso4217"`
	To     string `json:"to" validate:"required,iso4217,nefield=From"`
	Amount string `json:"amount" validate:"required,numeric"`
}

func (s *DashboardService) PreviewExchange(args *PreviewExchangeRequest, reply *intent.ExchangeQuote) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	*reply, err = e.dispatcher.PreviewExchange(context.Background(), args.From, args.To, args.Amount)
	return err
}

type LimitUsageResponse struct {
	Limits []intent.LimitUsage `json:"limits"`
}

func (s *DashboardService) LimitUsage(args *struct{}, reply *LimitUsageResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	reply.Limits, err = e.dispatcher.LimitUsage(context.Background())
	return err
}

type MapErrorRequest struct {
	Code                   string `json:"code"`
	Status                 int    `json:"status" validate:"omitempty,min=100,max=599"`
	UnauthorizedIsPassword bool   `json:"unauthorizedIsPassword"`
}

// MapError classifies a backend failure the UI received on its own.
func (s *DashboardService) MapError(args *MapErrorRequest, reply *apierrors.Outcome) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	*reply = e.mapper.Classify(args.Code, args.Status, args.UnauthorizedIsPassword)
	return nil
}
