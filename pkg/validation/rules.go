package validation

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/shlapabank/dashboard-go/internal"
)

// AmountRule bounds an amount field. Both bounds are inclusive; Max is only
// enforced when HasMax is set.
type AmountRule struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	HasMax  bool
	Unit    string
	FeeRate decimal.Decimal
}

func (r AmountRule) Check() error {
	if r.Min.IsNegative() {
		return errors.Errorf("negative minimum %s", r.Min)
	}
	if r.HasMax && r.Min.GreaterThan(r.Max) {
		return errors.Errorf("minimum %s exceeds maximum %s", r.Min, r.Max)
	}
	return nil
}

// WithUnit returns a copy of the rule displayed in another unit.
func (r AmountRule) WithUnit(unit string) AmountRule {
	r.Unit = unit
	return r
}

// WithFee returns a copy of the rule whose over-max message discloses the fee.
func (r AmountRule) WithFee(rate decimal.Decimal) AmountRule {
	r.FeeRate = rate
	return r
}

// Rule names, one per amount input.
const (
	RuleTransfer = "transfer"
	RuleTopup    = "topup"
	RuleExchange = "exchange"
	RuleMobile   = "mobile"
	RuleVendor   = "vendor"
)

type RuleSet map[string]AmountRule

func bounded(min, max string) AmountRule {
	return AmountRule{
		Min:    decimal.RequireFromString(min),
		Max:    decimal.RequireFromString(max),
		HasMax: true,
		Unit:   CurrencySymbol(internal.BaseCurrency),
	}
}

func DefaultRules() RuleSet {
	return RuleSet{
		RuleTransfer: bounded(internal.TransferMin, internal.TransferMax),
		RuleTopup:    {Min: decimal.RequireFromString(internal.TopupMin), Unit: CurrencySymbol(internal.BaseCurrency)},
		RuleExchange: {Min: decimal.RequireFromString(internal.ExchangeMin)},
		RuleMobile:   bounded(internal.MobileMin, internal.MobileMax),
		RuleVendor:   bounded(internal.VendorMin, internal.VendorMax),
	}
}

func (rs RuleSet) Get(name string) (AmountRule, error) {
	r, ok := rs[name]
	if !ok {
		return AmountRule{}, errors.Errorf("unknown amount rule %q", name)
	}
	return r, nil
}

func (rs RuleSet) Check() error {
	for name, r := range rs {
		if err := r.Check(); err != nil {
			return errors.Wrapf(err, "rule %s", name)
		}
	}
	return nil
}

func CurrencySymbol(currency string) string {
	switch currency {
	case "RUB":
		return "₽"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "CNY":
		return "¥"
	}
	return currency
}
