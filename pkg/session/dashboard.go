package session

import (
	"context"

	"github.com/shlapabank/dashboard-go/pkg/backend"
)

// Read-only views and account management. None of these need an OTP code.

type AccountsResponse struct {
	Accounts []backend.Account `json:"accounts"`
}

func (s *DashboardService) Accounts(args *struct{}, reply *AccountsResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	reply.Accounts, err = e.client.Accounts(context.Background())
	return err
}

type TransactionsResponse struct {
	Transactions []backend.Transaction `json:"transactions"`
}

func (s *DashboardService) Transactions(args *struct{}, reply *TransactionsResponse) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	reply.Transactions, err = e.client.Transactions(context.Background())
	return err
}

type CreateAccountRequest struct {
	AccountType string `json:"accountType" validate:"required"`
	Currency    string `json:"currency" validate:"required,iso4217"`
}

func (s *DashboardService) CreateAccount(args *CreateAccountRequest, reply *backend.Account) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	account, err := e.client.CreateAccount(context.Background(), backend.CreateAccountRequest{
		AccountType: args.AccountType,
		Currency:    args.Currency,
	})
	if err != nil {
		return err
	}
	*reply = *account
	return nil
}

type CloseAccountRequest struct {
	AccountID int64 `json:"accountId" validate:"required,gt=0"`
}

func (s *DashboardService) CloseAccount(args *CloseAccountRequest, reply *struct{}) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	return e.client.CloseAccount(context.Background(), args.AccountID)
}

func (s *DashboardService) MobileOperators(args *struct{}, reply *backend.MobileOperators) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	ops, err := e.client.MobileOperators(context.Background())
	if err != nil {
		return err
	}
	*reply = *ops
	return nil
}

func (s *DashboardService) VendorProviders(args *struct{}, reply *backend.VendorProviders) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	providers, err := e.client.VendorProviders(context.Background())
	if err != nil {
		return err
	}
	*reply = *providers
	return nil
}

func (s *DashboardService) GetProfile(args *struct{}, reply *backend.Profile) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	profile, err := e.client.Profile(context.Background())
	if err != nil {
		return err
	}
	*reply = *profile
	return nil
}

type UpdateProfileRequest struct {
	FirstName       *string `json:"firstName" validate:"omitempty,min=1"`
	LastName        *string `json:"lastName" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone"`
	CurrentPassword *string `json:"currentPassword" validate:"required_with=NewPassword"`
	NewPassword     *string `json:"newPassword" validate:"required_with=CurrentPassword"`
}

// UpdateProfile reports a wrong current password as a recoverable error
// rather than ending the session.
func (s *DashboardService) UpdateProfile(args *UpdateProfileRequest, reply *backend.Profile) error {
	e, err := s.current()
	if err != nil {
		return err
	}
	if err = validateRequest(args); err != nil {
		return err
	}
	profile, err := e.client.UpdateProfile(context.Background(), backend.ProfileUpdate{
		FirstName:       args.FirstName,
		LastName:        args.LastName,
		Email:           args.Email,
		Phone:           args.Phone,
		CurrentPassword: args.CurrentPassword,
		NewPassword:     args.NewPassword,
	})
	if err != nil {
		return err
	}
	*reply = *profile
	return nil
}
