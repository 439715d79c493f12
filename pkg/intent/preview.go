package intent

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/pkg/backend"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

// ComputeFee rounds the fee half-up to kopecks.
func ComputeFee(kind operation.Kind, amount, rate decimal.Decimal) Fee {
	fee := amount.Mul(rate).Round(2)
	return Fee{
		Kind:    kind,
		Percent: rate.Mul(hundred).String(),
		Fee:     utils.NewAmount(fee),
		Total:   utils.NewAmount(amount.Add(fee)),
	}
}

// PreviewFee reports the fee the submission of form would carry. The second
// result is false when the route is free or the amount is not usable yet.
func (d *Dispatcher) PreviewFee(kind operation.Kind, form Form) (Fee, bool) {
	var rate decimal.Decimal
	switch kind {
	case operation.KindTransferExternalByAccount:
		rate = externalFeeRate
	case operation.KindTransferByAccount:
		number := d.validator.AccountNumber(form[FieldTargetAccount])
		if !number.Valid || !d.knownExternal(number.Value) {
			return Fee{}, false
		}
		kind = operation.KindTransferExternalByAccount
		rate = externalFeeRate
	case operation.KindTransferByPhone:
		if !isOtherBank(form.get(FieldBank)) {
			return Fee{}, false
		}
		rate = phoneFeeRate
	default:
		return Fee{}, false
	}

	amount, err := decimal.NewFromString(form.get(FieldAmount))
	if err != nil || !amount.IsPositive() {
		return Fee{}, false
	}
	return ComputeFee(kind, amount, rate), true
}

type ExchangeQuote struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	Rate      string       `json:"rate"`
	Amount    utils.Amount `json:"amount"`
	Converted utils.Amount `json:"converted"`
}

func rubRate(rates *backend.Rates, currency string) (decimal.Decimal, error) {
	currency = strings.ToUpper(currency)
	if r, ok := rates.ToRub[currency]; ok && r.IsPositive() {
		return r.Decimal, nil
	}
	if currency == internal.BaseCurrency || currency == strings.ToUpper(rates.Base) {
		return decimal.NewFromInt(1), nil
	}
	return decimal.Zero, errors.Errorf("no rate for %s", currency)
}

// QuoteExchange converts amount through the ruble cross rates.
func QuoteExchange(rates *backend.Rates, from, to string, amount decimal.Decimal) (ExchangeQuote, error) {
	fromRub, err := rubRate(rates, from)
	if err != nil {
		return ExchangeQuote{}, err
	}
	toRub, err := rubRate(rates, to)
	if err != nil {
		return ExchangeQuote{}, err
	}

	return ExchangeQuote{
		From:      strings.ToUpper(from),
		To:        strings.ToUpper(to),
		Rate:      fromRub.DivRound(toRub, 4).String(),
		Amount:    utils.NewAmount(amount),
		Converted: utils.NewAmount(amount.Mul(fromRub).DivRound(toRub, 2)),
	}, nil
}

func (d *Dispatcher) PreviewExchange(ctx context.Context, from, to, rawAmount string) (ExchangeQuote, error) {
	amount, err := utils.ParseAmount(strings.TrimSpace(rawAmount))
	if err != nil {
		return ExchangeQuote{}, err
	}
	rates, err := d.backend.Rates(ctx)
	if err != nil {
		return ExchangeQuote{}, err
	}
	return QuoteExchange(rates, from, to, amount.Decimal)
}

type UsageLevel string

const (
	UsageNormal UsageLevel = "normal"
	UsageWarn   UsageLevel = "warn"
	UsageDanger UsageLevel = "danger"
)

type LimitUsage struct {
	Currency  string       `json:"currency"`
	Limit     utils.Amount `json:"dailyLimit"`
	Used      utils.Amount `json:"usedToday"`
	Remaining utils.Amount `json:"remaining"`
	Percent   int          `json:"percent"`
	Level     UsageLevel   `json:"level"`
}

// ComputeUsage turns the daily counters into a capped percentage and level.
func ComputeUsage(u backend.CurrencyUsage) LimitUsage {
	out := LimitUsage{
		Currency:  u.Currency,
		Limit:     u.DailyLimit,
		Used:      u.UsedToday,
		Remaining: u.Remaining,
		Level:     UsageNormal,
	}
	if !u.DailyLimit.IsPositive() {
		return out
	}

	percent := u.UsedToday.Mul(hundred).Div(u.DailyLimit.Decimal).Floor().IntPart()
	if percent > 100 {
		percent = 100
	}
	out.Percent = int(percent)

	switch {
	case out.Percent >= internal.LimitUsageDangerPercent:
		out.Level = UsageDanger
	case out.Percent >= internal.LimitUsageWarnPercent:
		out.Level = UsageWarn
	}
	return out
}

func (d *Dispatcher) LimitUsage(ctx context.Context) ([]LimitUsage, error) {
	usage, err := d.backend.DailyUsage(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LimitUsage, 0, len(usage.Limits.PerCurrency))
	for _, u := range usage.Limits.PerCurrency {
		out = append(out, ComputeUsage(u))
	}
	return out, nil
}
