package intent

import (
	"context"

	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/pkg/backend"
	"github.com/shlapabank/dashboard-go/pkg/operation"
)

// Executor sends a confirmed operation to its endpoint. It is the only code
// path that issues mutating backend requests.
type Executor struct {
	client *backend.Client
	logger *zap.Logger
}

var _ operation.Handler = (*Executor)(nil)

type ExecutorOption func(*Executor)

func WithExecutorLogger(logger *zap.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger.Named("executor")
	}
}

func NewExecutor(client *backend.Client, opts ...ExecutorOption) *Executor {
	e := &Executor{
		client: client,
		logger: zap.L().Named("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, op operation.Operation, code string) error {
	e.logger.Debug("executing operation", zap.String("kind", string(op.Kind())))
	return op.Accept(ctx, e, code)
}

func (e *Executor) done(tx *backend.Transaction, err error) error {
	if err != nil {
		return err
	}
	e.logger.Info("operation accepted", zap.Int64("transactionID", tx.ID), zap.String("type", tx.Type))
	return nil
}

func (e *Executor) TransferOwn(ctx context.Context, op *operation.TransferOwn, code string) error {
	return e.done(e.client.Transfer(ctx, op, code))
}

func (e *Executor) TransferByAccount(ctx context.Context, op *operation.TransferByAccount, code string) error {
	return e.done(e.client.TransferByAccount(ctx, op, code))
}

func (e *Executor) TransferExternalByAccount(ctx context.Context, op *operation.TransferExternalByAccount, code string) error {
	return e.done(e.client.TransferExternalByAccount(ctx, op, code))
}

func (e *Executor) TransferByPhone(ctx context.Context, op *operation.TransferByPhone, code string) error {
	return e.done(e.client.TransferByPhone(ctx, op, code))
}

func (e *Executor) Exchange(ctx context.Context, op *operation.Exchange, code string) error {
	return e.done(e.client.Exchange(ctx, op, code))
}

func (e *Executor) MobilePayment(ctx context.Context, op *operation.MobilePayment, code string) error {
	return e.done(e.client.PayMobile(ctx, op, code))
}

func (e *Executor) VendorPayment(ctx context.Context, op *operation.VendorPayment, code string) error {
	return e.done(e.client.PayVendor(ctx, op, code))
}

func (e *Executor) Topup(ctx context.Context, op *operation.Topup, code string) error {
	return e.done(e.client.Topup(ctx, op, code))
}
