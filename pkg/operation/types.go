package operation

import (
	"context"

	"github.com/shlapabank/dashboard-go/pkg/utils"
	"github.com/shlapabank/dashboard-go/pkg/validation"
)

type Kind string

const (
	KindTransferOwn               Kind = "transfer-own"
	KindTransferByAccount         Kind = "transfer-by-account"
	KindTransferExternalByAccount Kind = "transfer-external-by-account"
	KindTransferByPhone           Kind = "transfer-by-phone"
	KindExchange                  Kind = "exchange"
	KindMobilePayment             Kind = "mobile-payment"
	KindVendorPayment             Kind = "vendor-payment"
	KindTopup                     Kind = "topup"
)

var kinds = []Kind{
	KindTransferOwn,
	KindTransferByAccount,
	KindTransferExternalByAccount,
	KindTransferByPhone,
	KindExchange,
	KindMobilePayment,
	KindVendorPayment,
	KindTopup,
}

func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Operation is a validated money-moving request waiting for an OTP code.
// The set of implementations is closed; Accept routes each one to the
// matching Handler method.
type Operation interface {
	Kind() Kind
	Accept(ctx context.Context, h Handler, code string) error
	sealed()
}

// Handler executes every operation variant. Adding a variant means adding a
// method here, which breaks every Handler that has not been taught about it.
type Handler interface {
	TransferOwn(ctx context.Context, op *TransferOwn, code string) error
	TransferByAccount(ctx context.Context, op *TransferByAccount, code string) error
	TransferExternalByAccount(ctx context.Context, op *TransferExternalByAccount, code string) error
	TransferByPhone(ctx context.Context, op *TransferByPhone, code string) error
	Exchange(ctx context.Context, op *Exchange, code string) error
	MobilePayment(ctx context.Context, op *MobilePayment, code string) error
	VendorPayment(ctx context.Context, op *VendorPayment, code string) error
	Topup(ctx context.Context, op *Topup, code string) error
}

type TransferOwn struct {
	FromAccountID int64        `json:"from_account_id"`
	ToAccountID   int64        `json:"to_account_id"`
	Amount        utils.Amount `json:"amount"`
}

func (*TransferOwn) sealed() {}

func (*TransferOwn) Kind() Kind { return KindTransferOwn }

func (op *TransferOwn) Accept(ctx context.Context, h Handler, code string) error {
	return h.TransferOwn(ctx, op, code)
}

type TransferByAccount struct {
	FromAccountID       int64        `json:"from_account_id"`
	TargetAccountNumber string       `json:"target_account_number"`
	Amount              utils.Amount `json:"amount"`
}

func (*TransferByAccount) sealed() {}

func (*TransferByAccount) Kind() Kind { return KindTransferByAccount }

func (op *TransferByAccount) Accept(ctx context.Context, h Handler, code string) error {
	return h.TransferByAccount(ctx, op, code)
}

type TransferExternalByAccount struct {
	FromAccountID       int64        `json:"from_account_id"`
	TargetAccountNumber string       `json:"target_account_number"`
	Amount              utils.Amount `json:"amount"`
}

func (*TransferExternalByAccount) sealed() {}

func (*TransferExternalByAccount) Kind() Kind { return KindTransferExternalByAccount }

func (op *TransferExternalByAccount) Accept(ctx context.Context, h Handler, code string) error {
	return h.TransferExternalByAccount(ctx, op, code)
}

type TransferByPhone struct {
	FromAccountID   int64        `json:"from_account_id"`
	Phone           string       `json:"phone"`
	RecipientBankID string       `json:"recipient_bank_id"`
	Amount          utils.Amount `json:"amount"`
}

func (*TransferByPhone) sealed() {}

func (*TransferByPhone) Kind() Kind { return KindTransferByPhone }

func (op *TransferByPhone) Accept(ctx context.Context, h Handler, code string) error {
	return h.TransferByPhone(ctx, op, code)
}

type Exchange struct {
	FromAccountID int64        `json:"from_account_id"`
	ToAccountID   int64        `json:"to_account_id"`
	Amount        utils.Amount `json:"amount"`
}

func (*Exchange) sealed() {}

func (*Exchange) Kind() Kind { return KindExchange }

func (op *Exchange) Accept(ctx context.Context, h Handler, code string) error {
	return h.Exchange(ctx, op, code)
}

type MobilePayment struct {
	AccountID int64        `json:"account_id"`
	Operator  string       `json:"operator"`
	Phone     string       `json:"phone"`
	Amount    utils.Amount `json:"amount"`
}

func (*MobilePayment) sealed() {}

func (*MobilePayment) Kind() Kind { return KindMobilePayment }

func (op *MobilePayment) Accept(ctx context.Context, h Handler, code string) error {
	return h.MobilePayment(ctx, op, code)
}

// VendorPayment covers every vendor category; they share one endpoint.
type VendorPayment struct {
	Category      validation.Category `json:"-"`
	AccountID     int64               `json:"account_id"`
	Provider      string              `json:"provider"`
	AccountNumber string              `json:"account_number"`
	Amount        utils.Amount        `json:"amount"`
}

func (*VendorPayment) sealed() {}

func (*VendorPayment) Kind() Kind { return KindVendorPayment }

func (op *VendorPayment) Accept(ctx context.Context, h Handler, code string) error {
	return h.VendorPayment(ctx, op, code)
}

type Topup struct {
	AccountID int64        `json:"-"`
	Amount    utils.Amount `json:"amount"`
}

func (*Topup) sealed() {}

func (*Topup) Kind() Kind { return KindTopup }

func (op *Topup) Accept(ctx context.Context, h Handler, code string) error {
	return h.Topup(ctx, op, code)
}
