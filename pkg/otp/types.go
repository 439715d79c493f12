package otp

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/operation"
)

type State string

const (
	Idle         State = "idle"
	AwaitingCode State = "awaiting-code"
	Confirmed    State = "confirmed"
	Expired      State = "expired"
	Cancelled    State = "cancelled"
)

// Signals
const (
	ChallengeIssued = "otp.challenge-issued"
	ChallengeFailed = "otp.challenge-failed"
	Tick            = "otp.tick"
	CodeExpired     = "otp.expired"
	Focus           = "otp.focus"
	OpConfirmed     = "otp.confirmed"
	OpFailed        = "otp.failed"
	OpCancelled     = "otp.cancelled"
)

var (
	ErrConfirmationActive = errors.New("a confirmation is already in progress")
	ErrNoConfirmation     = errors.New("no confirmation in progress")
	ErrBusy               = errors.New("confirmation request already in flight")
)

type Challenge struct {
	Code      string
	Message   string
	TTL       time.Duration
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ChallengeIssuer asks the backend for a fresh one-time code.
type ChallengeIssuer interface {
	IssueChallenge(ctx context.Context) (*Challenge, error)
}

// Executor submits an operation together with the entered code.
type Executor interface {
	Execute(ctx context.Context, op operation.Operation, code string) error
}

type Result string

const (
	// ResultIncomplete means fewer than four digits were entered.
	ResultIncomplete Result = "incomplete"
	ResultConfirmed  Result = "confirmed"
	// ResultRefreshed means the code was expired or rejected and a new
	// challenge was requested.
	ResultRefreshed Result = "refreshed"
	ResultFailed    Result = "failed"
	// ResultStale means the operation was abandoned while the request ran.
	ResultStale Result = "stale"
)

type Outcome struct {
	Result  Result             `json:"result"`
	Message string             `json:"message,omitempty"`
	Error   *apierrors.Outcome `json:"error,omitempty"`
	Focus   int                `json:"focus"`
}

type Status struct {
	State       State          `json:"state"`
	OperationID string         `json:"operationId,omitempty"`
	Kind        operation.Kind `json:"kind,omitempty"`
	Code        string         `json:"code,omitempty"`
	Remaining   int            `json:"remaining"`
	Expired     bool           `json:"expired"`
	Filled      int            `json:"filled"`
	Focus       int            `json:"focus"`
	InFlight    bool           `json:"inFlight"`
}

type ChallengeEvent struct {
	OperationID string    `json:"operationId"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	TTLSeconds  int       `json:"ttlSeconds"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type TickEvent struct {
	OperationID string `json:"operationId"`
	Remaining   int    `json:"remaining"`
}

type FocusEvent struct {
	OperationID string `json:"operationId"`
	Index       int    `json:"index"`
}

type ResultEvent struct {
	OperationID string         `json:"operationId"`
	Kind        operation.Kind `json:"kind"`
	Code        string         `json:"code,omitempty"`
	Message     string         `json:"message,omitempty"`
}
