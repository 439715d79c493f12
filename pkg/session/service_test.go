package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/rpc"
	"github.com/stretchr/testify/require"

	"github.com/shlapabank/dashboard-go/internal/clock"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/backend"
	"github.com/shlapabank/dashboard-go/pkg/backend/backendtest"
	"github.com/shlapabank/dashboard-go/pkg/config"
	"github.com/shlapabank/dashboard-go/pkg/intent"
	"github.com/shlapabank/dashboard-go/pkg/otp"
	"github.com/shlapabank/dashboard-go/pkg/validation"
)

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  interface{}     `json:"error"`
}

type client struct {
	t      *testing.T
	server *rpc.Server
}

func (c *client) call(method string, params interface{}, reply interface{}) error {
	if params == nil {
		params = struct{}{}
	}
	payload, err := json.Marshal(map[string]interface{}{
		"method": "dashboard." + method,
		"params": []interface{}{params},
		"id":     1,
	})
	require.NoError(c.t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	c.server.ServeHTTP(rr, req)

	var resp rpcResponse
	require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	if resp.Error != nil {
		msg, _ := resp.Error.(string)
		return &rpcError{msg}
	}
	if reply != nil {
		require.NoError(c.t, json.Unmarshal(resp.Result, reply))
	}
	return nil
}

type rpcError struct {
	msg string
}

func (e *rpcError) Error() string {
	return e.msg
}

func newClient(t *testing.T) (*client, *backendtest.Server) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	cfg.Session.TokenFile = filepath.Join(t.TempDir(), "session.json")

	svc := NewDashboardService(cfg, WithClock(clock.NewFake(time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC))))
	server, err := CreateRPCServer(svc)
	require.NoError(t, err)

	c := &client{t: t, server: server}
	t.Cleanup(func() {
		_ = c.call("Stop", nil, nil)
	})
	return c, backendtest.NewServer(t)
}

func start(t *testing.T) (*client, *backendtest.Server) {
	c, srv := newClient(t)
	require.NoError(t, c.call("Start", StartRequest{BaseURL: srv.BaseURL(), Locale: "en"}, nil))
	require.NoError(t, c.call("SetToken", SetTokenRequest{Token: backendtest.Token}, nil))
	return c, srv
}

func TestNotStarted(t *testing.T) {
	c, _ := newClient(t)

	err := c.call("GetStatus", nil, &StatusResponse{})
	require.ErrorContains(t, err, errServiceNotStarted.Error())
	err = c.call("Stop", nil, nil)
	require.ErrorContains(t, err, errServiceNotStarted.Error())
}

func TestStartValidatesAndGuards(t *testing.T) {
	c, srv := newClient(t)

	err := c.call("Start", StartRequest{Locale: "de"}, nil)
	require.ErrorContains(t, err, "Locale")

	require.NoError(t, c.call("Start", StartRequest{BaseURL: srv.BaseURL(), Locale: "en"}, nil))
	err = c.call("Start", StartRequest{}, nil)
	require.ErrorContains(t, err, errServiceAlreadyStarted.Error())

	var status StatusResponse
	require.NoError(t, c.call("GetStatus", nil, &status))
	require.False(t, status.Authenticated)
	require.Equal(t, "en", status.Locale)
	require.Equal(t, otp.Idle, status.Confirmation.State)
}

func TestSubmitAndConfirm(t *testing.T) {
	c, srv := start(t)

	var rejected SubmitResponse
	require.NoError(t, c.call("Submit", SubmitRequest{
		Kind:   "topup",
		Values: intent.Form{intent.FieldAccount: "1", intent.FieldAmount: ""},
	}, &rejected))
	require.False(t, rejected.Accepted)
	require.Equal(t, "Enter the amount", rejected.Fields[intent.FieldAmount])
	require.Empty(t, srv.CurrentCode())

	var accepted SubmitResponse
	require.NoError(t, c.call("Submit", SubmitRequest{
		Kind:   "topup",
		Values: intent.Form{intent.FieldAccount: "1", intent.FieldAmount: "500"},
	}, &accepted))
	require.True(t, accepted.Accepted)
	require.NotEmpty(t, accepted.OperationID)

	var status StatusResponse
	require.NoError(t, c.call("GetStatus", nil, &status))
	require.True(t, status.Authenticated)
	require.Equal(t, otp.AwaitingCode, status.Confirmation.State)
	require.Equal(t, accepted.OperationID, status.Confirmation.OperationID)

	err := c.call("EnterDigit", EnterDigitRequest{Index: 0, Digit: "x"}, &otp.Outcome{})
	require.ErrorContains(t, err, "Digit")
	err = c.call("EnterCode", EnterCodeRequest{Code: "12"}, &otp.Outcome{})
	require.ErrorContains(t, err, "Code")

	var out otp.Outcome
	require.NoError(t, c.call("EnterCode", EnterCodeRequest{Code: srv.CurrentCode()}, &out))
	require.Equal(t, otp.ResultConfirmed, out.Result)
	require.Equal(t, "Account topped up", out.Message)
	require.Equal(t, 1, srv.MutatingCalls())
}

func TestDigitEntryAndCancel(t *testing.T) {
	c, srv := start(t)

	require.NoError(t, c.call("Submit", SubmitRequest{
		Kind:   "topup",
		Values: intent.Form{intent.FieldAccount: "1", intent.FieldAmount: "10"},
	}, &SubmitResponse{}))

	var out otp.Outcome
	require.NoError(t, c.call("EnterDigit", EnterDigitRequest{Index: 0, Digit: "9"}, &out))
	require.Equal(t, otp.ResultIncomplete, out.Result)
	require.Equal(t, 1, out.Focus)

	var back BackspaceResponse
	require.NoError(t, c.call("Backspace", BackspaceRequest{Index: 1}, &back))
	require.Equal(t, 0, back.Focus)

	require.NoError(t, c.call("Cancel", nil, nil))
	err := c.call("Cancel", nil, nil)
	require.ErrorContains(t, err, otp.ErrNoConfirmation.Error())
	require.Zero(t, srv.MutatingCalls())
}

func TestFieldChecksAndPreviews(t *testing.T) {
	c, _ := start(t)

	var res validation.Result
	require.NoError(t, c.call("ValidateField", ValidateFieldRequest{
		Kind:           "transfer-own",
		Field:          intent.FieldAmount,
		Values:         intent.Form{intent.FieldAmount: "5"},
		ShowEmptyError: true,
	}, &res))
	require.False(t, res.Valid)
	require.Equal(t, "Minimum amount 10 ₽", res.Message)

	err := c.call("ValidateField", ValidateFieldRequest{Kind: "loan", Field: intent.FieldAmount}, &res)
	require.ErrorContains(t, err, "Kind")

	require.NoError(t, c.call("LookupAccount", LookupRequest{Value: "123"}, &res))
	require.False(t, res.Valid)

	var fee PreviewFeeResponse
	require.NoError(t, c.call("PreviewFee", PreviewFeeRequest{
		Kind:   "transfer-external-by-account",
		Values: intent.Form{intent.FieldAmount: "1000"},
	}, &fee))
	require.True(t, fee.Applies)
	require.Equal(t, "50", fee.Fee.Fee.String())
	require.Equal(t, "1050", fee.Fee.Total.String())

	var quote intent.ExchangeQuote
	require.NoError(t, c.call("PreviewExchange", PreviewExchangeRequest{From: "USD", To: "RUB", Amount: "10"}, &quote))
	require.Equal(t, "900", quote.Converted.String())
	err = c.call("PreviewExchange", PreviewExchangeRequest{From: "USD", To: "USD", Amount: "10"}, &quote)
	require.ErrorContains(t, err, "To")

	var usage LimitUsageResponse
	require.NoError(t, c.call("LimitUsage", nil, &usage))
	require.Len(t, usage.Limits, 2)
	require.Equal(t, intent.UsageWarn, usage.Limits[0].Level)
}

func TestMapError(t *testing.T) {
	c, _ := start(t)

	var out apierrors.Outcome
	require.NoError(t, c.call("MapError", MapErrorRequest{Code: "invalid_token"}, &out))
	require.Equal(t, apierrors.SessionFatal, out.Severity)

	require.NoError(t, c.call("MapError", MapErrorRequest{Status: 401, UnauthorizedIsPassword: true}, &out))
	require.Equal(t, apierrors.CodeInvalidCurrentPassword, out.Code)
	require.Equal(t, apierrors.Recoverable, out.Severity)

	err := c.call("MapError", MapErrorRequest{Status: 42}, &out)
	require.ErrorContains(t, err, "Status")
}

func TestLogoutForgetsToken(t *testing.T) {
	c, _ := start(t)

	require.NoError(t, c.call("Logout", nil, nil))
	var status StatusResponse
	require.NoError(t, c.call("GetStatus", nil, &status))
	require.False(t, status.Authenticated)
}

func TestDashboardViews(t *testing.T) {
	c, _ := start(t)

	var accounts AccountsResponse
	require.NoError(t, c.call("Accounts", nil, &accounts))
	require.Len(t, accounts.Accounts, 2)
	require.Equal(t, "USD", accounts.Accounts[1].Currency)

	var ops backend.MobileOperators
	require.NoError(t, c.call("MobileOperators", nil, &ops))
	require.Contains(t, ops.Operators, "MTSha")

	var profile backend.Profile
	require.NoError(t, c.call("GetProfile", nil, &profile))
	require.Equal(t, "Anna", profile.FirstName)

	err := c.call("CloseAccount", CloseAccountRequest{}, nil)
	require.ErrorContains(t, err, "AccountID")
}

func TestUpdateProfileWrongPasswordKeepsSession(t *testing.T) {
	c, _ := start(t)

	wrong, next := "nope", "better"
	err := c.call("UpdateProfile", UpdateProfileRequest{CurrentPassword: &wrong}, &backend.Profile{})
	require.ErrorContains(t, err, "NewPassword")

	err = c.call("UpdateProfile", UpdateProfileRequest{CurrentPassword: &wrong, NewPassword: &next}, &backend.Profile{})
	require.EqualError(t, err, "Invalid current password.")

	var status StatusResponse
	require.NoError(t, c.call("GetStatus", nil, &status))
	require.True(t, status.Authenticated)
}
