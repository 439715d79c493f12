package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/internal/i18n"
)

// Result is the outcome of a single field check. Message is an error when
// Valid is false and a hint otherwise; it may be empty only for valid input.
type Result struct {
	Valid   bool            `json:"valid"`
	Message string          `json:"message"`
	Value   string          `json:"value,omitempty"`
	Amount  decimal.Decimal `json:"-"`
}

func invalid(msg string) Result {
	return Result{Valid: false, Message: msg}
}

type Validator struct {
	loc *i18n.Localizer
}

func New(loc *i18n.Localizer) *Validator {
	return &Validator{loc: loc}
}

func (v *Validator) Localizer() *i18n.Localizer {
	return v.loc
}

func (v *Validator) unit(rule AmountRule) string {
	if rule.Unit == "" {
		return ""
	}
	return " " + rule.Unit
}

// FormatLimit renders a bound the way every amount message shows it.
func (v *Validator) FormatLimit(d decimal.Decimal) string {
	return v.loc.Number(d)
}

// Amount checks raw input against rule. With showEmptyError unset an empty
// field yields the minimum hint instead of the "enter amount" error.
func (v *Validator) Amount(raw string, rule AmountRule, showEmptyError bool) Result {
	s := strings.TrimSpace(raw)
	unit := v.unit(rule)

	if s == "" {
		if showEmptyError {
			return invalid(v.loc.T(i18n.AmountRequired))
		}
		return invalid(v.loc.T(i18n.AmountMin, v.FormatLimit(rule.Min), unit))
	}

	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return invalid(v.loc.T(i18n.AmountInvalid))
	}

	if amount.LessThan(rule.Min) {
		return invalid(v.loc.T(i18n.AmountMin, v.FormatLimit(rule.Min), unit))
	}

	if rule.HasMax && amount.GreaterThan(rule.Max) {
		if rule.FeeRate.IsPositive() {
			total := rule.Max.Add(rule.Max.Mul(rule.FeeRate)).Round(2)
			percent := rule.FeeRate.Mul(decimal.NewFromInt(100))
			return invalid(v.loc.T(i18n.AmountMaxWithFee,
				v.FormatLimit(rule.Max), unit, v.FormatLimit(percent), v.FormatLimit(total), unit))
		}
		return invalid(v.loc.T(i18n.AmountMax, v.FormatLimit(rule.Max), unit))
	}

	res := Result{Valid: true, Value: amount.String(), Amount: amount}
	if rule.HasMax {
		res.Message = v.loc.T(i18n.AmountHintUpTo, v.FormatLimit(rule.Max), unit)
	} else {
		res.Message = v.loc.T(i18n.AmountHintFrom, v.FormatLimit(rule.Min), unit)
	}
	return res
}

// AccountNumber validates an internal 16-digit account number. Spaces and
// dashes used for grouping are ignored.
func (v *Validator) AccountNumber(raw string) Result {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if len(s) != internal.AccountNumberLength || digitsOnly(s) != s {
		return invalid(v.loc.T(i18n.AccountNumberLength, internal.AccountNumberLength))
	}
	return Result{Valid: true, Value: s}
}

// Phone normalizes and validates a recipient or mobile number.
func (v *Validator) Phone(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return invalid(v.loc.T(i18n.PhoneRequired))
	}
	phone, ok := NormalizePhone(raw)
	if !ok {
		return invalid(v.loc.T(i18n.PhoneInvalid))
	}
	return Result{Valid: true, Value: phone, Message: FormatPhone(phone)}
}

func (v *Validator) Operator(name string) Result {
	if name == "" {
		return invalid(v.loc.T(i18n.OperatorRequired))
	}
	if !IsMobileOperator(name) {
		return invalid(v.loc.T(i18n.OperatorUnknown))
	}
	return Result{Valid: true, Value: name}
}

// Provider checks that name is a known vendor of category.
func (v *Validator) Provider(category Category, name string) (Provider, Result) {
	p, ok := ProviderByName(name)
	if !ok {
		return Provider{}, invalid(v.loc.T(i18n.ProviderRequired))
	}
	if category != "" && p.Category != category {
		return p, invalid(v.loc.T(i18n.ProviderNotInCat))
	}
	return p, Result{Valid: true, Value: p.Name}
}

// VendorAccountNumber validates the customer number for a provider: required,
// provider prefix, provider length.
func (v *Validator) VendorAccountNumber(p Provider, raw string) Result {
	label := v.loc.T("label." + string(p.Category))
	s := SanitizeVendorNumber(raw, &p)

	if s == "" {
		return invalid(v.loc.T(i18n.VendorNumberRequired, v.loc.Lower(label)))
	}
	if p.Prefix != "" && !strings.HasPrefix(s, p.Prefix) {
		return invalid(v.loc.T(i18n.VendorNumberPrefix, label, p.Name, p.Prefix))
	}
	if p.Length > 0 && len(s) != p.Length {
		return invalid(v.loc.T(i18n.VendorNumberLength, label, p.Name, v.loc.T(i18n.DigitsCount, p.Length)))
	}
	return Result{Valid: true, Value: s}
}

// Required is a generic non-empty check used for selects.
func (v *Validator) Required(value, key string) Result {
	if strings.TrimSpace(value) == "" {
		return invalid(v.loc.T(key))
	}
	return Result{Valid: true, Value: strings.TrimSpace(value)}
}
