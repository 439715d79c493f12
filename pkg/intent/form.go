package intent

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/pkg/utils"
	"github.com/shlapabank/dashboard-go/pkg/validation"
)

// Form holds the raw input values of one operation form, keyed by field.
type Form map[string]string

// Field names
const (
	FieldFromAccount   = "fromAccountId"
	FieldToAccount     = "toAccountId"
	FieldAccount       = "accountId"
	FieldTargetAccount = "targetAccountNumber"
	FieldPhone         = "phone"
	FieldBank          = "bankId"
	FieldOperator      = "operator"
	FieldCategory      = "category"
	FieldProvider      = "provider"
	FieldVendorNumber  = "accountNumber"
	FieldAmount        = "amount"
	// FieldCurrency is the source account currency; it only changes the
	// unit shown in exchange amount messages.
	FieldCurrency = "currency"
)

func (f Form) get(field string) string {
	return strings.TrimSpace(f[field])
}

// ValidationError lists every invalid field of a rejected submission.
type ValidationError struct {
	Kind   operation.Kind    `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: invalid fields %s", e.Kind, strings.Join(names, ", "))
}

// checker collects field failures while a form is turned into an operation.
type checker struct {
	v      *validation.Validator
	form   Form
	fields map[string]string
}

func newChecker(v *validation.Validator, form Form) *checker {
	return &checker{v: v, form: form, fields: map[string]string{}}
}

func (c *checker) fail(field, message string) {
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = message
	}
}

func (c *checker) check(field string, res validation.Result) string {
	if !res.Valid {
		c.fail(field, res.Message)
	}
	return res.Value
}

func (c *checker) accountID(field string) int64 {
	id, err := strconv.ParseInt(c.form.get(field), 10, 64)
	if err != nil || id <= 0 {
		c.fail(field, c.v.Localizer().T(i18n.AccountRequired))
		return 0
	}
	return id
}

func (c *checker) distinct(from, to int64) {
	if from != 0 && from == to {
		c.fail(FieldToAccount, c.v.Localizer().T(i18n.AccountsMustDiffer))
	}
}

func (c *checker) amount(rule validation.AmountRule) utils.Amount {
	res := c.v.Amount(c.form[FieldAmount], rule, true)
	if !res.Valid {
		c.fail(FieldAmount, res.Message)
	}
	return utils.NewAmount(res.Amount)
}
