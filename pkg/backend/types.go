package backend

import (
	"github.com/shlapabank/dashboard-go/pkg/utils"
)

type OtpPreview struct {
	UserID     int64  `json:"userId"`
	Code       string `json:"otp"`
	TTLSeconds int    `json:"ttlSeconds"`
	Message    string `json:"message"`
}

type AccountCheck struct {
	Found  bool   `json:"found"`
	Masked string `json:"masked"`
}

type Bank struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type PhoneCheck struct {
	InOurBank      bool   `json:"inOurBank"`
	AvailableBanks []Bank `json:"availableBanks"`
}

type Account struct {
	ID            int64        `json:"id"`
	AccountNumber string       `json:"account_number"`
	AccountType   string       `json:"account_type"`
	Currency      string       `json:"currency"`
	Balance       utils.Amount `json:"balance"`
	IsPrimary     bool         `json:"is_primary,omitempty"`
}

type CreateAccountRequest struct {
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

type Transaction struct {
	ID            int64        `json:"id"`
	FromAccountID *int64       `json:"from_account_id"`
	ToAccountID   *int64       `json:"to_account_id"`
	Type          string       `json:"type"`
	Amount        utils.Amount `json:"amount"`
	Currency      string       `json:"currency"`
	Status        string       `json:"status"`
	InitiatedBy   int64        `json:"initiated_by"`
	Description   string       `json:"description,omitempty"`
	CreatedAt     string       `json:"created_at"`
}

type CurrencyUsage struct {
	Currency   string       `json:"currency"`
	DailyLimit utils.Amount `json:"dailyLimit"`
	UsedToday  utils.Amount `json:"usedToday"`
	Remaining  utils.Amount `json:"remaining"`
}

type DailyUsage struct {
	Limits struct {
		PerCurrency []CurrencyUsage `json:"perCurrency"`
	} `json:"limits"`
}

type Rates struct {
	Base  string                  `json:"base"`
	ToRub map[string]utils.Amount `json:"toRub"`
}

type AmountRange struct {
	Min utils.Amount `json:"min"`
	Max utils.Amount `json:"max"`
}

type MobileOperators struct {
	Operators   []string    `json:"operators"`
	AmountRange AmountRange `json:"amountRangeRub"`
}

type ProviderInfo struct {
	Name          string `json:"name"`
	AccountLength int    `json:"accountLength"`
}

type VendorProviders struct {
	Providers   []ProviderInfo `json:"providers"`
	AmountRange AmountRange    `json:"amountRangeRub"`
}

type Profile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status"`
}

type ProfileUpdate struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

// SessionExpired is published when the backend rejects the session.
type SessionExpired struct {
	Message         string `json:"message"`
	Redirect        string `json:"redirect"`
	RedirectAfterMs int64  `json:"redirectAfterMs"`
}
