package apierrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shlapabank/dashboard-go/internal/i18n"
)

func TestMessageIsTotal(t *testing.T) {
	m := NewMapper(i18n.New("en"))

	assert.Equal(t, "Insufficient funds.", m.Message("insufficient_funds"))
	assert.Equal(t, "Invalid OTP code.", m.Message(CodeInvalidOtp))
	assert.Equal(t, "The request failed. Please try again later.", m.Message("something_new"))
	assert.Equal(t, "The request failed. Please try again later.", m.Message(""))
	assert.Equal(t, "This phone number is already in use.", m.Message("validation_error: phone_not_unique"))
}

func TestRussianMessages(t *testing.T) {
	m := NewMapper(i18n.New("ru"))
	assert.Equal(t, "Сессия истекла. Войдите заново.", m.Message(CodeInvalidToken))
	assert.Equal(t, "Недостаточно средств на счёте.", m.Message("insufficient_funds"))
}

func TestClassify(t *testing.T) {
	m := NewMapper(i18n.New("en"))

	cases := []struct {
		name     string
		code     string
		status   int
		password bool
		severity Severity
		code2    string
	}{
		{"invalid token", CodeInvalidToken, http.StatusBadRequest, false, SessionFatal, CodeInvalidToken},
		{"bare 401", "whatever", http.StatusUnauthorized, false, SessionFatal, "whatever"},
		{"profile 401", CodeInvalidCurrentPassword, http.StatusUnauthorized, true, Recoverable, CodeInvalidCurrentPassword},
		{"profile 401 without code", "", http.StatusUnauthorized, true, Recoverable, CodeInvalidCurrentPassword},
		{"profile expired token", CodeInvalidToken, http.StatusUnauthorized, true, SessionFatal, CodeInvalidToken},
		{"otp", CodeInvalidOtp, http.StatusBadRequest, false, Recoverable, CodeInvalidOtp},
		{"business", "insufficient_funds", http.StatusBadRequest, false, Recoverable, "insufficient_funds"},
		{"unknown", "brand_new_code", http.StatusBadRequest, false, Informational, "brand_new_code"},
		{"empty", "", http.StatusInternalServerError, false, Informational, CodeRequestFailed},
		{"not found", "not_found", http.StatusNotFound, false, Informational, "not_found"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := m.Classify(c.code, c.status, c.password)
			assert.Equal(t, c.severity, out.Severity)
			assert.Equal(t, c.code2, out.Code)
			assert.NotEmpty(t, out.Message)
		})
	}
}

func TestSessionFatalUsesSessionMessage(t *testing.T) {
	m := NewMapper(i18n.New("en"))
	out := m.Classify("x", http.StatusUnauthorized, false)
	require.Equal(t, "Session expired. Please sign in again.", out.Message)
}

func TestErrorHelpers(t *testing.T) {
	m := NewMapper(i18n.New("en"))
	err := errors.Wrap(m.Error(CodeInvalidOtp, http.StatusBadRequest, false), "confirming")

	require.True(t, HasCode(err, CodeInvalidOtp))
	require.False(t, IsSessionFatal(err))

	apiErr, ok := As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Invalid OTP code.", apiErr.Error())

	require.True(t, IsSessionFatal(m.Error(CodeInvalidToken, http.StatusUnauthorized, false)))
}
