package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shlapabank/dashboard-go/pkg/operation"
)

func (c *Client) OtpPreview(ctx context.Context) (*OtpPreview, error) {
	var out OtpPreview
	err := c.do(ctx, request{method: http.MethodGet, path: "/helper/otp/preview", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckAccount(ctx context.Context, accountNumber string) (*AccountCheck, error) {
	var out AccountCheck
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/transfers/by-account/check",
		query:  url.Values{"target_account_number": {accountNumber}},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckPhone(ctx context.Context, phone string) (*PhoneCheck, error) {
	var out PhoneCheck
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/transfers/by-phone/check",
		query:  url.Values{"phone": {phone}},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var out []Account
	err := c.do(ctx, request{method: http.MethodGet, path: "/accounts", out: &out})
	return out, err
}

func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	var out Account
	err := c.do(ctx, request{method: http.MethodPost, path: "/accounts", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CloseAccount(ctx context.Context, accountID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/accounts/" + strconv.FormatInt(accountID, 10)})
}

func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	err := c.do(ctx, request{method: http.MethodGet, path: "/transactions", out: &out})
	return out, err
}

func (c *Client) DailyUsage(ctx context.Context) (*DailyUsage, error) {
	var out DailyUsage
	err := c.do(ctx, request{method: http.MethodGet, path: "/transfers/daily-usage", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Rates(ctx context.Context) (*Rates, error) {
	var out Rates
	err := c.do(ctx, request{method: http.MethodGet, path: "/transfers/rates", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MobileOperators(ctx context.Context) (*MobileOperators, error) {
	var out MobileOperators
	err := c.do(ctx, request{method: http.MethodGet, path: "/payments/mobile/operators", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VendorProviders(ctx context.Context) (*VendorProviders, error) {
	var out VendorProviders
	err := c.do(ctx, request{method: http.MethodGet, path: "/payments/vendor/providers", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	err := c.do(ctx, request{method: http.MethodGet, path: "/profile", out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile is the one request where 401 reports a wrong current password.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	var out Profile
	err := c.do(ctx, request{
		method:                 http.MethodPatch,
		path:                   "/profile",
		body:                   update,
		out:                    &out,
		unauthorizedIsPassword: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Transfer(ctx context.Context, op *operation.TransferOwn, code string) (*Transaction, error) {
	return c.post(ctx, "/transfers", struct {
		*operation.TransferOwn
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) TransferByAccount(ctx context.Context, op *operation.TransferByAccount, code string) (*Transaction, error) {
	return c.post(ctx, "/transfers/by-account", struct {
		*operation.TransferByAccount
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) TransferExternalByAccount(ctx context.Context, op *operation.TransferExternalByAccount, code string) (*Transaction, error) {
	return c.post(ctx, "/transfers/external-by-account", struct {
		*operation.TransferExternalByAccount
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) TransferByPhone(ctx context.Context, op *operation.TransferByPhone, code string) (*Transaction, error) {
	return c.post(ctx, "/transfers/by-phone", struct {
		*operation.TransferByPhone
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) Exchange(ctx context.Context, op *operation.Exchange, code string) (*Transaction, error) {
	return c.post(ctx, "/transfers/exchange", struct {
		*operation.Exchange
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) PayMobile(ctx context.Context, op *operation.MobilePayment, code string) (*Transaction, error) {
	return c.post(ctx, "/payments/mobile", struct {
		*operation.MobilePayment
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) PayVendor(ctx context.Context, op *operation.VendorPayment, code string) (*Transaction, error) {
	return c.post(ctx, "/payments/vendor", struct {
		*operation.VendorPayment
		OtpCode string `json:"otp_code"`
	}{op, code})
}

func (c *Client) Topup(ctx context.Context, op *operation.Topup, code string) (*Transaction, error) {
	path := "/accounts/" + strconv.FormatInt(op.AccountID, 10) + "/topup"
	return c.post(ctx, path, struct {
		*operation.Topup
		OtpCode string `json:"otp_code"`
	}{op, code})
}
