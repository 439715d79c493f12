package apierrors

import (
	"github.com/pkg/errors"
)

// Error is a classified backend failure.
type Error struct {
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Outcome() Outcome {
	return Outcome{Code: e.Code, Message: e.Message, Severity: e.Severity}
}

// As extracts an *Error from a wrapped chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}

func IsSessionFatal(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Severity == SessionFatal
}
