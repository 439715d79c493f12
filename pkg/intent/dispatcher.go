package intent

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/pkg/otp"
	"github.com/shlapabank/dashboard-go/pkg/validation"
	"github.com/shlapabank/dashboard-go/signal"
)

var (
	externalFeeRate = decimal.RequireFromString(internal.ExternalFeeRate)
	phoneFeeRate    = decimal.RequireFromString(internal.PhoneFeeRate)
)

const refreshTimeout = 10 * time.Second

// Dispatcher turns submitted forms into pending operations and hands them to
// the confirmer. It never issues a mutating request itself.
type Dispatcher struct {
	backend   Backend
	confirmer Confirmer
	validator *validation.Validator
	mapper    *apierrors.Mapper
	loc       *i18n.Localizer
	rules     validation.RuleSet
	logger    *zap.Logger
	clock     clock.Clock
	debounce  time.Duration
	lookups   *Debouncer

	mu       sync.Mutex
	external map[string]bool
}

type Option func(*Dispatcher)

func WithRules(rules validation.RuleSet) Option {
	return func(d *Dispatcher) {
		d.rules = rules
	}
}

func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

func WithDebounce(delay time.Duration) Option {
	return func(d *Dispatcher) {
		d.debounce = delay
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger.Named("intent")
	}
}

func NewDispatcher(b Backend, confirmer Confirmer, loc *i18n.Localizer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend:   b,
		confirmer: confirmer,
		validator: validation.New(loc),
		mapper:    apierrors.NewMapper(loc),
		loc:       loc,
		rules:     validation.DefaultRules(),
		logger:    zap.L().Named("intent"),
		clock:     clock.Real(),
		debounce:  internal.DefaultLookupDebounce,
		external:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.lookups = NewDebouncer(d.clock, d.debounce)
	return d
}

// Close cancels scheduled lookups.
func (d *Dispatcher) Close() {
	d.lookups.Stop()
}

func (d *Dispatcher) rule(name string) validation.AmountRule {
	if r, err := d.rules.Get(name); err == nil {
		return r
	}
	return validation.DefaultRules()[name]
}

func (d *Dispatcher) rememberClassification(number string, external bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.external[number] = external
}

func (d *Dispatcher) knownExternal(number string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.external[number]
}

func isOtherBank(bank string) bool {
	return bank != "" && bank != internal.OurBankCode
}

// amountRule picks the bounds for the amount field of kind. Fee-bearing
// routes disclose the fee in the over-limit message.
func (d *Dispatcher) amountRule(kind operation.Kind, form Form) validation.AmountRule {
	switch kind {
	case operation.KindTransferByAccount:
		r := d.rule(validation.RuleTransfer)
		if number := d.validator.AccountNumber(form[FieldTargetAccount]); number.Valid && d.knownExternal(number.Value) {
			r = r.WithFee(externalFeeRate)
		}
		return r
	case operation.KindTransferExternalByAccount:
		return d.rule(validation.RuleTransfer).WithFee(externalFeeRate)
	case operation.KindTransferByPhone:
		r := d.rule(validation.RuleTransfer)
		if isOtherBank(form.get(FieldBank)) {
			r = r.WithFee(phoneFeeRate)
		}
		return r
	case operation.KindExchange:
		r := d.rule(validation.RuleExchange)
		if cur := form.get(FieldCurrency); cur != "" {
			r = r.WithUnit(validation.CurrencySymbol(cur))
		}
		return r
	case operation.KindMobilePayment:
		return d.rule(validation.RuleMobile)
	case operation.KindVendorPayment:
		return d.rule(validation.RuleVendor)
	case operation.KindTopup:
		return d.rule(validation.RuleTopup)
	}
	return d.rule(validation.RuleTransfer)
}

// build runs every rule of kind against form. The operation is only usable
// when the returned field map is empty.
func (d *Dispatcher) build(kind operation.Kind, form Form) (operation.Operation, map[string]string, error) {
	c := newChecker(d.validator, form)
	rule := d.amountRule(kind, form)

	var op operation.Operation
	switch kind {
	case operation.KindTransferOwn:
		from, to := c.accountID(FieldFromAccount), c.accountID(FieldToAccount)
		c.distinct(from, to)
		op = &operation.TransferOwn{FromAccountID: from, ToAccountID: to, Amount: c.amount(rule)}

	case operation.KindTransferByAccount:
		op = &operation.TransferByAccount{
			FromAccountID:       c.accountID(FieldFromAccount),
			TargetAccountNumber: c.check(FieldTargetAccount, d.validator.AccountNumber(form[FieldTargetAccount])),
			Amount:              c.amount(rule),
		}

	case operation.KindTransferExternalByAccount:
		op = &operation.TransferExternalByAccount{
			FromAccountID:       c.accountID(FieldFromAccount),
			TargetAccountNumber: c.check(FieldTargetAccount, d.validator.AccountNumber(form[FieldTargetAccount])),
			Amount:              c.amount(rule),
		}

	case operation.KindTransferByPhone:
		op = &operation.TransferByPhone{
			FromAccountID:   c.accountID(FieldFromAccount),
			Phone:           c.check(FieldPhone, d.validator.Phone(form[FieldPhone])),
			RecipientBankID: c.check(FieldBank, d.validator.Required(form[FieldBank], i18n.BankRequired)),
			Amount:          c.amount(rule),
		}

	case operation.KindExchange:
		from, to := c.accountID(FieldFromAccount), c.accountID(FieldToAccount)
		c.distinct(from, to)
		op = &operation.Exchange{FromAccountID: from, ToAccountID: to, Amount: c.amount(rule)}

	case operation.KindMobilePayment:
		op = &operation.MobilePayment{
			AccountID: c.accountID(FieldAccount),
			Operator:  c.check(FieldOperator, d.validator.Operator(form.get(FieldOperator))),
			Phone:     c.check(FieldPhone, d.validator.Phone(form[FieldPhone])),
			Amount:    c.amount(rule),
		}

	case operation.KindVendorPayment:
		accountID := c.accountID(FieldAccount)
		category := validation.Category(form.get(FieldCategory))
		if !category.Valid() {
			c.fail(FieldCategory, d.loc.T(i18n.CategoryRequired))
		}
		provider, res := d.validator.Provider(category, form.get(FieldProvider))
		c.check(FieldProvider, res)
		var number string
		if res.Valid {
			number = c.check(FieldVendorNumber, d.validator.VendorAccountNumber(provider, form[FieldVendorNumber]))
		}
		op = &operation.VendorPayment{
			Category:      category,
			AccountID:     accountID,
			Provider:      provider.Name,
			AccountNumber: number,
			Amount:        c.amount(rule),
		}

	case operation.KindTopup:
		op = &operation.Topup{AccountID: c.accountID(FieldAccount), Amount: c.amount(rule)}

	default:
		return nil, nil, errors.Errorf("unknown operation kind %q", kind)
	}

	return op, c.fields, nil
}

// ValidateField checks a single field the way Submit would, for live
// feedback while the user types. Valid amounts carry the limit hint.
func (d *Dispatcher) ValidateField(kind operation.Kind, form Form, field string, showEmptyError bool) (validation.Result, error) {
	if !kind.Valid() {
		return validation.Result{}, errors.Errorf("unknown operation kind %q", kind)
	}

	switch field {
	case FieldAmount:
		return d.validator.Amount(form[FieldAmount], d.amountRule(kind, form), showEmptyError), nil
	case FieldTargetAccount:
		return d.validator.AccountNumber(form[FieldTargetAccount]), nil
	case FieldPhone:
		return d.validator.Phone(form[FieldPhone]), nil
	case FieldOperator:
		return d.validator.Operator(form.get(FieldOperator)), nil
	case FieldBank:
		return d.validator.Required(form[FieldBank], i18n.BankRequired), nil
	case FieldCategory:
		return d.validator.Required(form[FieldCategory], i18n.CategoryRequired), nil
	case FieldProvider:
		_, res := d.validator.Provider(validation.Category(form.get(FieldCategory)), form.get(FieldProvider))
		return res, nil
	case FieldVendorNumber:
		provider, res := d.validator.Provider(validation.Category(form.get(FieldCategory)), form.get(FieldProvider))
		if !res.Valid {
			return res, nil
		}
		return d.validator.VendorAccountNumber(provider, form[FieldVendorNumber]), nil
	case FieldFromAccount, FieldToAccount, FieldAccount:
		c := newChecker(d.validator, form)
		id := c.accountID(field)
		if field == FieldToAccount {
			c.distinct(c.accountID(FieldFromAccount), id)
		}
		if msg, ok := c.fields[field]; ok {
			return validation.Result{Message: msg}, nil
		}
		return validation.Result{Valid: true, Value: form.get(field)}, nil
	}
	return validation.Result{}, errors.Errorf("unknown field %q", field)
}

// Submit validates form, resolves the route and opens the OTP confirmation.
// Validation failures return *ValidationError before any request is made.
func (d *Dispatcher) Submit(ctx context.Context, kind operation.Kind, form Form) (*operation.Pending, error) {
	if d.confirmer.Active() {
		return nil, otp.ErrConfirmationActive
	}

	op, fields, err := d.build(kind, form)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		verr := &ValidationError{Kind: kind, Fields: fields}
		d.logger.Debug("submission rejected", zap.String("kind", string(kind)), zap.Int("fields", len(fields)))
		signal.Send(ValidationFailed, verr)
		return nil, verr
	}

	op, err = d.route(ctx, op)
	if err != nil {
		return nil, err
	}

	routed := op.Kind()
	p := operation.NewPending(op, d.loc.T("op."+string(routed)+".success"), d.loc.T("op."+string(routed)+".error"))
	fee, hasFee := d.feeFor(op)
	p.OnSuccess = func() {
		if hasFee {
			signal.Send(FeeDisclaimerHidden, KindEvent{Kind: routed})
		}
		d.refresh()
		signal.Send(FormReset, KindEvent{Kind: kind})
	}
	p.OnClose = func() {
		if hasFee {
			signal.Send(FeeDisclaimerHidden, KindEvent{Kind: routed})
		}
	}

	if err = d.confirmer.Begin(ctx, p); err != nil {
		return nil, err
	}
	if hasFee {
		signal.Send(FeeDisclaimerShown, fee)
	}

	d.logger.Info("operation awaiting confirmation", zap.String("operationID", p.ID), zap.String("kind", string(routed)))
	return p, nil
}

// route classifies by-account transfers. An unreachable classification
// falls back to the internal endpoint; a dead session aborts.
func (d *Dispatcher) route(ctx context.Context, op operation.Operation) (operation.Operation, error) {
	byAccount, ok := op.(*operation.TransferByAccount)
	if !ok {
		return op, nil
	}

	check, err := d.backend.CheckAccount(ctx, byAccount.TargetAccountNumber)
	if err != nil {
		if apierrors.IsSessionFatal(err) || ctx.Err() != nil {
			return nil, err
		}
		d.logger.Warn("account classification failed, routing internally", zap.Error(err))
		return op, nil
	}

	d.rememberClassification(byAccount.TargetAccountNumber, !check.Found)
	if check.Found {
		return op, nil
	}
	return &operation.TransferExternalByAccount{
		FromAccountID:       byAccount.FromAccountID,
		TargetAccountNumber: byAccount.TargetAccountNumber,
		Amount:              byAccount.Amount,
	}, nil
}

func (d *Dispatcher) feeFor(op operation.Operation) (Fee, bool) {
	switch o := op.(type) {
	case *operation.TransferExternalByAccount:
		return ComputeFee(o.Kind(), o.Amount.Decimal, externalFeeRate), true
	case *operation.TransferByPhone:
		if isOtherBank(o.RecipientBankID) {
			return ComputeFee(o.Kind(), o.Amount.Decimal, phoneFeeRate), true
		}
	}
	return Fee{}, false
}

// refresh reloads balances and history after a confirmed operation.
func (d *Dispatcher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	accounts, err := d.backend.Accounts(ctx)
	if err != nil {
		d.logger.Warn("failed to refresh accounts", zap.Error(err))
	} else {
		signal.Send(AccountsUpdated, AccountsEvent{Accounts: accounts})
	}

	txs, err := d.backend.Transactions(ctx)
	if err != nil {
		d.logger.Warn("failed to refresh transactions", zap.Error(err))
	} else {
		signal.Send(TransactionsUpdated, TransactionsEvent{Transactions: txs})
	}
}

func (d *Dispatcher) errorMessage(err error) string {
	if apiErr, ok := apierrors.As(err); ok {
		return apiErr.Message
	}
	return d.mapper.Message(apierrors.CodeRequestFailed)
}
