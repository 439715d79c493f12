package apierrors

import (
	"net/http"
	"strings"

	"github.com/shlapabank/dashboard-go/internal/i18n"
)

type Severity string

const (
	// SessionFatal outcomes invalidate the session token.
	SessionFatal  Severity = "session-fatal"
	Recoverable   Severity = "recoverable"
	Informational Severity = "informational"
)

const (
	CodeInvalidToken           = "invalid_token"
	CodeInvalidOtp             = "invalid_otp_code"
	CodeRequestFailed          = "request_failed"
	CodeInvalidCurrentPassword = "invalid_current_password"
	CodeValidationPrefix       = "validation_error"
)

var informational = map[string]struct{}{
	CodeRequestFailed: {},
	"not_found":       {},
	"forbidden":       {},
}

// Outcome is the classified, user-facing form of a backend failure.
type Outcome struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Mapper turns backend error codes into localized outcomes. It has no side
// effects.
type Mapper struct {
	loc *i18n.Localizer
}

func NewMapper(loc *i18n.Localizer) *Mapper {
	return &Mapper{loc: loc}
}

func (m *Mapper) Known(code string) bool {
	return m.loc.Has(i18n.APIPrefix + code)
}

// Message is total: codes outside the catalog map to the generic failure text.
func (m *Mapper) Message(code string) string {
	if m.Known(code) {
		return m.loc.T(i18n.APIPrefix + code)
	}
	return m.loc.T(i18n.APIPrefix + CodeRequestFailed)
}

// Classify maps a code and HTTP status to an outcome. unauthorizedIsPassword
// marks requests where any 401 other than invalid_token reports a wrong
// current password rather than a dead session.
func (m *Mapper) Classify(code string, status int, unauthorizedIsPassword bool) Outcome {
	code = strings.TrimSpace(code)
	if code == "" {
		code = CodeRequestFailed
	}

	if code == CodeInvalidToken {
		return Outcome{Code: code, Message: m.Message(CodeInvalidToken), Severity: SessionFatal}
	}
	if status == http.StatusUnauthorized && unauthorizedIsPassword {
		code = CodeInvalidCurrentPassword
	} else if status == http.StatusUnauthorized {
		return Outcome{Code: code, Message: m.Message(CodeInvalidToken), Severity: SessionFatal}
	}

	out := Outcome{Code: code, Message: m.Message(code), Severity: Recoverable}
	if _, ok := informational[code]; ok || !m.Known(code) {
		out.Severity = Informational
	}
	return out
}

// Error builds the typed error carried through transport and coordinator.
func (m *Mapper) Error(code string, status int, unauthorizedIsPassword bool) *Error {
	out := m.Classify(code, status, unauthorizedIsPassword)
	return &Error{
		Code:     out.Code,
		Status:   status,
		Message:  out.Message,
		Severity: out.Severity,
	}
}
