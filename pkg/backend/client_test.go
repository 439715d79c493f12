package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shlapabank/dashboard-go/internal/i18n"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/pkg/backend/backendtest"
	"github.com/shlapabank/dashboard-go/pkg/operation"
	"github.com/shlapabank/dashboard-go/pkg/token"
	"github.com/shlapabank/dashboard-go/pkg/utils"
	"github.com/shlapabank/dashboard-go/signal"
)

type signalRecorder struct {
	mu   sync.Mutex
	envs []signal.Envelope
}

func (r *signalRecorder) handle(data []byte) {
	var env signal.Envelope
	_ = json.Unmarshal(data, &env)
	r.mu.Lock()
	r.envs = append(r.envs, env)
	r.mu.Unlock()
}

func (r *signalRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.envs {
		out = append(out, e.Type)
	}
	return out
}

func setup(t *testing.T) (*backendtest.Server, *Client, *token.Store, *signalRecorder) {
	srv := backendtest.NewServer(t)
	tokens, err := token.NewStore("")
	require.NoError(t, err)
	require.NoError(t, tokens.Set(backendtest.Token))

	rec := &signalRecorder{}
	signal.SetSignalHandler(rec.handle)
	t.Cleanup(func() { signal.SetSignalHandler(nil) })

	client := NewClient(srv.BaseURL(), tokens, apierrors.NewMapper(i18n.New("en")), WithRedirect("/login", 1200*time.Millisecond))
	return srv, client, tokens, rec
}

func TestOtpPreviewAndTopup(t *testing.T) {
	srv, client, _, _ := setup(t)
	ctx := context.Background()

	preview, err := client.OtpPreview(ctx)
	require.NoError(t, err)
	require.Equal(t, "1234", preview.Code)
	require.Equal(t, 300, preview.TTLSeconds)

	op := &operation.Topup{AccountID: 1, Amount: utils.NewAmount(decimal.NewFromInt(500))}
	tx, err := client.Topup(ctx, op, preview.Code)
	require.NoError(t, err)
	require.Equal(t, "TOPUP", tx.Type)

	calls := srv.Calls()
	last := calls[len(calls)-1]
	require.Equal(t, "/api/v1/accounts/1/topup", last.Path)
	require.Equal(t, map[string]interface{}{"amount": "500", "otp_code": "1234"}, last.Body)
}

func TestPayloadIsFlattenedWithCode(t *testing.T) {
	srv, client, _, _ := setup(t)
	ctx := context.Background()

	preview, err := client.OtpPreview(ctx)
	require.NoError(t, err)

	op := &operation.TransferOwn{FromAccountID: 1, ToAccountID: 2, Amount: utils.NewAmount(decimal.RequireFromString("1500.50"))}
	_, err = client.Transfer(ctx, op, preview.Code)
	require.NoError(t, err)

	calls := srv.Calls()
	body := calls[len(calls)-1].Body
	require.Equal(t, float64(1), body["from_account_id"])
	require.Equal(t, float64(2), body["to_account_id"])
	require.Equal(t, "1500.5", body["amount"])
	require.Equal(t, preview.Code, body["otp_code"])
}

func TestWrongCodeIsRecoverable(t *testing.T) {
	_, client, tokens, rec := setup(t)
	ctx := context.Background()

	_, err := client.OtpPreview(ctx)
	require.NoError(t, err)

	_, err = client.Exchange(ctx, &operation.Exchange{FromAccountID: 1, ToAccountID: 2}, "0000")
	require.True(t, apierrors.HasCode(err, apierrors.CodeInvalidOtp))
	require.False(t, apierrors.IsSessionFatal(err))
	require.Equal(t, backendtest.Token, tokens.Token())
	require.Empty(t, rec.types())
}

func TestSessionFatalClearsTokenAndBlocksFurtherCalls(t *testing.T) {
	srv, client, tokens, rec := setup(t)
	ctx := context.Background()

	srv.FailOnce(http.MethodGet, "/accounts", http.StatusUnauthorized, "invalid_token")

	_, err := client.Accounts(ctx)
	require.True(t, apierrors.IsSessionFatal(err))
	require.Equal(t, "Session expired. Please sign in again.", err.Error())
	require.Empty(t, tokens.Token())
	require.Equal(t, []string{SessionExpiredSignal}, rec.types())

	before := len(srv.Calls())
	_, err = client.Profile(ctx)
	require.True(t, apierrors.IsSessionFatal(err))
	require.Len(t, srv.Calls(), before)
}

func TestInvalidTokenCodeWithoutStatus401IsFatal(t *testing.T) {
	srv, client, tokens, _ := setup(t)
	srv.FailOnce(http.MethodGet, "/transfers/rates", http.StatusBadRequest, "invalid_token")

	_, err := client.Rates(context.Background())
	require.True(t, apierrors.IsSessionFatal(err))
	require.Empty(t, tokens.Token())
}

func TestProfileUpdate401IsWrongPassword(t *testing.T) {
	_, client, tokens, rec := setup(t)
	wrong := "nope"

	_, err := client.UpdateProfile(context.Background(), ProfileUpdate{CurrentPassword: &wrong})
	require.True(t, apierrors.HasCode(err, apierrors.CodeInvalidCurrentPassword))
	require.False(t, apierrors.IsSessionFatal(err))
	require.Equal(t, backendtest.Token, tokens.Token())
	require.Empty(t, rec.types())
}

func TestProfileUpdateWithExpiredTokenEndsSession(t *testing.T) {
	_, client, tokens, rec := setup(t)
	require.NoError(t, tokens.Set("expired"))
	current, next := "secret", "better"

	_, err := client.UpdateProfile(context.Background(), ProfileUpdate{CurrentPassword: &current, NewPassword: &next})
	require.True(t, apierrors.HasCode(err, apierrors.CodeInvalidToken))
	require.True(t, apierrors.IsSessionFatal(err))
	require.Empty(t, tokens.Token())
	require.Equal(t, []string{SessionExpiredSignal}, rec.types())
}

func TestValidationListDetail(t *testing.T) {
	srv, client, _, _ := setup(t)
	srv.FailOnce(http.MethodGet, "/profile", http.StatusUnprocessableEntity, []map[string]string{
		{"type": "value_error", "msg": "Value error, phone_not_unique"},
	})

	_, err := client.Profile(context.Background())
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	require.Equal(t, "validation_error: phone_not_unique", apiErr.Code)
	require.Equal(t, "This phone number is already in use.", apiErr.Message)
}

func TestDecodeDetail(t *testing.T) {
	require.Equal(t, "insufficient_funds", decodeDetail([]byte(`{"detail":"insufficient_funds"}`)))
	require.Equal(t, "amount_must_be_positive", decodeDetail([]byte(`{"detail":[{"type":"greater_than","msg":"x"}]}`)))
	require.Equal(t, apierrors.CodeValidationPrefix, decodeDetail([]byte(`{"detail":[{"type":"missing","msg":"x"}]}`)))
	require.Equal(t, apierrors.CodeRequestFailed, decodeDetail([]byte(`<html>`)))
	require.Equal(t, apierrors.CodeRequestFailed, decodeDetail([]byte(`{}`)))
}

func TestLookups(t *testing.T) {
	srv, client, _, _ := setup(t)
	ctx := context.Background()
	srv.AddAccount("4081781000000099")
	srv.AddPhone("+79161234567")

	check, err := client.CheckAccount(ctx, "4081781000000099")
	require.NoError(t, err)
	require.True(t, check.Found)
	require.Equal(t, "••••0099", check.Masked)

	_, err = client.CheckAccount(ctx, "123")
	require.True(t, apierrors.HasCode(err, "invalid_account_number"))

	phone, err := client.CheckPhone(ctx, "+79161234567")
	require.NoError(t, err)
	require.True(t, phone.InOurBank)
	require.Equal(t, backendtest.OurBank, phone.AvailableBanks[0].ID)

	usage, err := client.DailyUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage.Limits.PerCurrency, 2)

	rates, err := client.Rates(ctx)
	require.NoError(t, err)
	require.Equal(t, "90", rates.ToRub["USD"].String())

	ops, err := client.MobileOperators(ctx)
	require.NoError(t, err)
	require.Contains(t, ops.Operators, "MegaFun")
	require.Equal(t, "12000", ops.AmountRange.Max.String())
}

func TestUnreachableBackendIsRequestFailed(t *testing.T) {
	tokens, _ := token.NewStore("")
	require.NoError(t, tokens.Set("x"))
	client := NewClient("http://127.0.0.1:1", tokens, apierrors.NewMapper(i18n.New("en")))

	_, err := client.Accounts(context.Background())
	require.True(t, apierrors.HasCode(err, apierrors.CodeRequestFailed))
	require.Equal(t, "x", tokens.Token())
}
