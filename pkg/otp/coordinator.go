package otp

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/signal"
)

// Coordinator owns the single confirmation session: the pending operation,
// its challenge, the countdown and the entered code. Every terminal
// transition tears all of them down together.
type Coordinator struct {
	mu        sync.Mutex
	logger    *zap.Logger
	clock     clock.Clock
	issuer    ChallengeIssuer
	executor  Executor
	mapper    *apierrors.Mapper
	loc       *i18n.Localizer
	state     State
	pending   *operation.Pending
	challenge *Challenge
	countdown *Countdown
	buffer    CodeBuffer
	inFlight  string
}

type Option func(*Coordinator)

func WithClock(c clock.Clock) Option {
	return func(co *Coordinator) {
		co.clock = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(co *Coordinator) {
		co.logger = logger.Named("otp")
	}
}

func NewCoordinator(issuer ChallengeIssuer, executor Executor, mapper *apierrors.Mapper, loc *i18n.Localizer, opts ...Option) *Coordinator {
	c := &Coordinator{
		logger:   zap.L().Named("otp"),
		clock:    clock.Real(),
		issuer:   issuer,
		executor: executor,
		mapper:   mapper,
		loc:      loc,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin opens a confirmation session for p and requests its first
// challenge. A failed challenge request leaves the session open so the user
// can retry with RefreshChallenge.
func (c *Coordinator) Begin(ctx context.Context, p *operation.Pending) error {
	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return ErrConfirmationActive
	}
	c.pending = p
	c.state = AwaitingCode
	c.buffer.Reset()
	c.mu.Unlock()

	c.logger.Debug("confirmation started", zap.String("operationID", p.ID), zap.String("kind", string(p.Kind())))
	_ = c.requestChallenge(ctx, p.ID)
	return nil
}

func (c *Coordinator) requestChallenge(ctx context.Context, operationID string) error {
	challenge, err := c.issuer.IssueChallenge(ctx)

	c.mu.Lock()
	if c.pending == nil || c.pending.ID != operationID {
		c.mu.Unlock()
		c.logger.Debug("dropping challenge for abandoned operation", zap.String("operationID", operationID))
		return ErrNoConfirmation
	}

	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("challenge request failed", zap.String("operationID", operationID), zap.Error(err))
		signal.Send(ChallengeFailed, ResultEvent{OperationID: operationID, Message: c.loc.T(i18n.OtpChallengeFailed)})
		return err
	}

	if c.countdown != nil {
		c.countdown.Stop()
	}
	c.challenge = challenge
	c.state = AwaitingCode
	c.buffer.Reset()
	c.countdown = startCountdown(c.clock, challenge.TTL,
		func(remaining int) {
			signal.Send(Tick, TickEvent{OperationID: operationID, Remaining: remaining})
		},
		func() { c.expire(operationID) })
	event := ChallengeEvent{
		OperationID: operationID,
		Code:        challenge.Code,
		Message:     c.loc.T(i18n.OtpPreview, challenge.Code),
		TTLSeconds:  int(challenge.TTL.Seconds()),
		ExpiresAt:   challenge.ExpiresAt,
	}
	c.mu.Unlock()

	signal.Send(ChallengeIssued, event)
	return nil
}

// expire moves a still-current challenge to Expired before announcing it.
func (c *Coordinator) expire(operationID string) {
	c.mu.Lock()
	if c.pending == nil || c.pending.ID != operationID || c.countdown == nil || !c.countdown.Expired() {
		c.mu.Unlock()
		return
	}
	if c.state == AwaitingCode {
		c.state = Expired
	}
	c.mu.Unlock()

	signal.Send(CodeExpired, TickEvent{OperationID: operationID})
}

// RefreshChallenge discards the current code and asks for a new one.
func (c *Coordinator) RefreshChallenge(ctx context.Context) error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return ErrNoConfirmation
	}
	if c.inFlight != "" {
		c.mu.Unlock()
		return ErrBusy
	}
	id := c.pending.ID
	c.mu.Unlock()

	return c.requestChallenge(ctx, id)
}

// EnterDigit types into box index and confirms automatically once every box
// holds a digit.
func (c *Coordinator) EnterDigit(ctx context.Context, index int, value string) (Outcome, error) {
	return c.edit(ctx, func(b *CodeBuffer) int { return b.Input(index, value) })
}

// EnterCode applies a whole code at once, e.g. from the SMS preview.
func (c *Coordinator) EnterCode(ctx context.Context, code string) (Outcome, error) {
	return c.edit(ctx, func(b *CodeBuffer) int { return b.Fill(code) })
}

func (c *Coordinator) Backspace(index int) (int, error) {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return 0, ErrNoConfirmation
	}
	focus := c.buffer.Backspace(index)
	id := c.pending.ID
	c.mu.Unlock()

	signal.Send(Focus, FocusEvent{OperationID: id, Index: focus})
	return focus, nil
}

func (c *Coordinator) edit(ctx context.Context, apply func(*CodeBuffer) int) (Outcome, error) {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return Outcome{}, ErrNoConfirmation
	}
	focus := apply(&c.buffer)
	complete := c.buffer.Complete()
	id := c.pending.ID
	c.mu.Unlock()

	signal.Send(Focus, FocusEvent{OperationID: id, Index: focus})
	if !complete {
		return Outcome{Result: ResultIncomplete, Focus: focus}, nil
	}
	return c.Confirm(ctx)
}

// Confirm submits the entered code. An expired countdown never reaches the
// backend: it is answered with a replacement challenge instead.
func (c *Coordinator) Confirm(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return Outcome{}, ErrNoConfirmation
	}
	if c.inFlight != "" {
		c.mu.Unlock()
		return Outcome{}, ErrBusy
	}

	p := c.pending
	code := c.buffer.Code()
	if len(code) != internal.OtpDigits {
		focus := c.buffer.Focus()
		c.mu.Unlock()
		return Outcome{Result: ResultIncomplete, Message: c.loc.T(i18n.OtpCodeIncomplete), Focus: focus}, nil
	}

	if c.state == Expired || (c.countdown != nil && c.countdown.Expired()) {
		c.state = Expired
		c.buffer.Reset()
		c.inFlight = p.ID
		c.mu.Unlock()

		c.logger.Debug("code expired locally, requesting a new challenge", zap.String("operationID", p.ID))
		c.refreshAfterRejection(ctx, p.ID)
		return Outcome{Result: ResultRefreshed, Message: c.loc.T(i18n.OtpCodeExpired)}, nil
	}

	c.inFlight = p.ID
	c.mu.Unlock()

	err := c.executor.Execute(ctx, p.Operation, code)

	c.mu.Lock()
	if c.inFlight == p.ID {
		c.inFlight = ""
	}
	if c.pending == nil || c.pending.ID != p.ID {
		c.mu.Unlock()
		c.logger.Info("ignoring response for abandoned operation", zap.String("operationID", p.ID), zap.Error(err))
		return Outcome{Result: ResultStale}, nil
	}

	if err == nil {
		c.state = Confirmed
		c.teardownLocked()
		c.mu.Unlock()

		c.logger.Info("operation confirmed", zap.String("operationID", p.ID), zap.String("kind", string(p.Kind())))
		signal.Send(OpConfirmed, ResultEvent{OperationID: p.ID, Kind: p.Kind(), Message: p.SuccessMessage})
		if p.OnSuccess != nil {
			p.OnSuccess()
		}
		return Outcome{Result: ResultConfirmed, Message: p.SuccessMessage}, nil
	}

	apiErr, ok := apierrors.As(err)
	if !ok {
		c.logger.Error("operation failed", zap.String("operationID", p.ID), zap.Error(err))
		apiErr = c.mapper.Error(apierrors.CodeRequestFailed, 0, false)
	}
	outcome := apiErr.Outcome()
	message := c.prefixed(p.ErrorPrefix, apiErr.Message)
	failed := ResultEvent{OperationID: p.ID, Kind: p.Kind(), Code: apiErr.Code, Message: message}

	switch {
	case apiErr.Code == apierrors.CodeInvalidOtp:
		c.state = Expired
		c.buffer.Reset()
		c.inFlight = p.ID
		c.mu.Unlock()

		signal.Send(OpFailed, failed)
		c.refreshAfterRejection(ctx, p.ID)
		return Outcome{Result: ResultRefreshed, Message: message, Error: &outcome}, nil

	case apiErr.Severity == apierrors.SessionFatal:
		c.state = Cancelled
		c.teardownLocked()
		c.mu.Unlock()

		signal.Send(OpFailed, failed)
		if p.OnClose != nil {
			p.OnClose()
		}
		return Outcome{Result: ResultFailed, Message: apiErr.Message, Error: &outcome}, nil
	}

	focus := c.buffer.Focus()
	c.mu.Unlock()

	c.logger.Debug("operation rejected", zap.String("operationID", p.ID), zap.String("code", apiErr.Code))
	signal.Send(OpFailed, failed)
	return Outcome{Result: ResultFailed, Message: message, Error: &outcome, Focus: focus}, nil
}

func (c *Coordinator) refreshAfterRejection(ctx context.Context, operationID string) {
	_ = c.requestChallenge(ctx, operationID)

	c.mu.Lock()
	if c.inFlight == operationID {
		c.inFlight = ""
	}
	c.mu.Unlock()
}

// Cancel abandons the pending operation.
func (c *Coordinator) Cancel() error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return ErrNoConfirmation
	}
	p := c.pending
	c.state = Cancelled
	c.teardownLocked()
	c.mu.Unlock()

	c.logger.Debug("confirmation cancelled", zap.String("operationID", p.ID))
	signal.Send(OpCancelled, ResultEvent{OperationID: p.ID, Kind: p.Kind()})
	if p.OnClose != nil {
		p.OnClose()
	}
	return nil
}

func (c *Coordinator) teardownLocked() {
	if c.countdown != nil {
		c.countdown.Stop()
	}
	c.countdown = nil
	c.challenge = nil
	c.pending = nil
	c.inFlight = ""
	c.buffer.Reset()
}

func (c *Coordinator) prefixed(prefix, message string) string {
	if prefix == "" {
		prefix = c.loc.T(i18n.OperationFailed)
	}
	return c.loc.T(i18n.FailurePrefixed, prefix, message)
}

// Active reports whether a confirmation session is open.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		State:    c.state,
		Filled:   c.buffer.Filled(),
		Focus:    c.buffer.Focus(),
		InFlight: c.inFlight != "",
	}
	if c.pending != nil {
		st.OperationID = c.pending.ID
		st.Kind = c.pending.Kind()
	}
	if c.challenge != nil {
		st.Code = c.challenge.Code
	}
	if c.countdown != nil {
		st.Remaining = c.countdown.Remaining()
		st.Expired = c.countdown.Expired()
	}
	return st
}
