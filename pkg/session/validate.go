package session

import (
	goerrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/pkg/operation"
)

var (
	validate = validator.New()
)

func init() {
	mustRegister("opkind", isOperationKind)
	mustRegister("otpdigit", isOtpDigit)
	mustRegister("otpcode", isOtpCode)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func validateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err != nil {
		errs := err.(validator.ValidationErrors)
		return goerrors.Join(errs)
	}
	return nil
}

func isOperationKind(fl validator.FieldLevel) bool {
	return operation.Kind(fl.Field().String()).Valid()
}

// A single typed character; non-digits are rejected rather than ignored.
func isOtpDigit(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

// A pasted code may carry separators but must hold exactly the code digits.
func isOtpCode(fl validator.FieldLevel) bool {
	n := 0
	for _, r := range fl.Field().String() {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n == internal.OtpDigits
}
