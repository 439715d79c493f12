package intent

import (
	"context"

	"github.com/shlapabank/dashboard-go/pkg/backend"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/pkg/utils"
)

// Signals
const (
	ValidationFailed    = "intent.validation-failed"
	FeeDisclaimerShown  = "intent.fee-disclaimer"
	FeeDisclaimerHidden = "intent.fee-disclaimer-cleared"
	FormReset           = "intent.form-reset"
	AccountClassified   = "lookup.account-classified"
	PhoneClassified     = "lookup.phone-classified"
	AccountsUpdated     = "dashboard.accounts-updated"
	TransactionsUpdated = "dashboard.transactions-updated"
)

// Backend is the read-only part of the banking API the dispatcher needs.
type Backend interface {
	CheckAccount(ctx context.Context, accountNumber string) (*backend.AccountCheck, error)
	CheckPhone(ctx context.Context, phone string) (*backend.PhoneCheck, error)
	Accounts(ctx context.Context) ([]backend.Account, error)
	Transactions(ctx context.Context) ([]backend.Transaction, error)
	Rates(ctx context.Context) (*backend.Rates, error)
	DailyUsage(ctx context.Context) (*backend.DailyUsage, error)
}

// Confirmer runs the OTP confirmation of a pending operation.
type Confirmer interface {
	Begin(ctx context.Context, p *operation.Pending) error
	Active() bool
}

type Fee struct {
	Kind    operation.Kind `json:"kind"`
	Percent string         `json:"feePercent"`
	Fee     utils.Amount   `json:"fee"`
	Total   utils.Amount   `json:"total"`
}

type KindEvent struct {
	Kind operation.Kind `json:"kind"`
}

type AccountLookup struct {
	Number string `json:"number"`
	Found  bool   `json:"found"`
	Masked string `json:"masked,omitempty"`
	Error  string `json:"error,omitempty"`
}

type PhoneLookup struct {
	Phone          string         `json:"phone"`
	InOurBank      bool           `json:"inOurBank"`
	AvailableBanks []backend.Bank `json:"availableBanks"`
	Error          string         `json:"error,omitempty"`
}

type AccountsEvent struct {
	Accounts []backend.Account `json:"accounts"`
}

type TransactionsEvent struct {
	Transactions []backend.Transaction `json:"transactions"`
}
