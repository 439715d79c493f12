package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/internal"
	"github.com/shlapabank/dashboard-go/pkg/apierrors"
	"github.com/shlapabank/dashboard-go/signal"
)

const SessionExpiredSignal = "session.expired"

// TokenStore holds the bearer token used for every request.
type TokenStore interface {
	Token() string
	Clear() error
}

// Client is the transport wrapper around the banking REST API. It is the
// only place where session-fatal outcomes have side effects.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenStore
	mapper        *apierrors.Mapper
	logger        *zap.Logger
	loginPath     string
	redirectDelay time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger.Named("backend")
	}
}

func WithRedirect(loginPath string, delay time.Duration) Option {
	return func(c *Client) {
		c.loginPath = loginPath
		c.redirectDelay = delay
	}
}

func NewClient(baseURL string, tokens TokenStore, mapper *apierrors.Mapper, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 10 * time.Second},
		tokens:        tokens,
		mapper:        mapper,
		logger:        zap.L().Named("backend"),
		loginPath:     "/login",
		redirectDelay: internal.DefaultRedirectDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	out    interface{}
	// 401 means "wrong current password" on this request
	unauthorizedIsPassword bool
}

func (c *Client) do(ctx context.Context, r request) error {
	logger := c.logger.With(zap.String("method", r.method), zap.String("path", r.path))

	token := c.tokens.Token()
	if token == "" {
		return c.mapper.Error(apierrors.CodeInvalidToken, http.StatusUnauthorized, false)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "request aborted")
		}
		logger.Warn("request failed", zap.Error(err))
		return c.mapper.Error(apierrors.CodeRequestFailed, 0, false)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.mapper.Error(decodeDetail(data), resp.StatusCode, r.unauthorizedIsPassword)
		logger.Debug("backend rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("severity", string(apiErr.Severity)))
		if apiErr.Severity == apierrors.SessionFatal {
			c.expireSession(apiErr)
		}
		return apiErr
	}

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, r.out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func (c *Client) expireSession(apiErr *apierrors.Error) {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Error("failed to clear session token", zap.Error(err))
	}
	signal.Send(SessionExpiredSignal, SessionExpired{
		Message:         apiErr.Message,
		Redirect:        c.loginPath,
		RedirectAfterMs: c.redirectDelay.Milliseconds(),
	})
}

type validationItem struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// decodeDetail extracts the error code from {"detail": "..."} or from the
// first item of a validation list {"detail": [{"type", "msg"}]}.
func decodeDetail(data []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apierrors.CodeRequestFailed
	}

	var code string
	if err := json.Unmarshal(envelope.Detail, &code); err == nil {
		return code
	}

	var items []validationItem
	if err := json.Unmarshal(envelope.Detail, &items); err != nil || len(items) == 0 {
		return apierrors.CodeRequestFailed
	}

	first := items[0]
	switch first.Type {
	case "value_error":
		msg := strings.TrimSpace(strings.TrimPrefix(first.Msg, "Value error,"))
		return apierrors.CodeValidationPrefix + ": " + msg
	case "greater_than":
		return "amount_must_be_positive"
	}
	return apierrors.CodeValidationPrefix
}
