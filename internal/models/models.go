// Path: internal/models/models.go
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"ledger-api/pkg/database"
)

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Owner    string `json:"owner"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthRequest carries the login form.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AmountRequest is the body of deposit and withdraw calls.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest moves money to another user, addressed by username.
type TransferRequest struct {
	ToUsername string          `json:"to_username"`
	Amount     decimal.Decimal `json:"amount"`
}

// LoanApplication is the body of a loan request.
type LoanApplication struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// LoanDecision is the admin's verdict on a pending loan.
type LoanDecision struct {
	Status string `json:"status"`
}

// PassbookRequest asks for the transactions of the last N days.
type PassbookRequest struct {
	Days int `json:"days"`
}

// DashboardData is everything the account overview page needs.
type DashboardData struct {
	User         database.Account       `json:"user"`
	Transactions []database.Transaction `json:"transactions"`
	LoanRequests []database.LoanRequest `json:"loan_requests"`
}

// UserSummary is the admin projection of an account; the password hash is
// deliberately not part of it.
type UserSummary struct {
	ID       uint   `json:"id"`
	Owner    string `json:"owner"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// AdminLoanView is a loan request joined with the requester's display name.
type AdminLoanView struct {
	ID            uint            `json:"id"`
	AccountID     uint            `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	Repaid        bool            `json:"repaid"`
	DateRequested time.Time       `json:"date_requested"`
	OwnerName     string          `json:"owner_name"`
}

// Claims is the JWT payload identifying the caller.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Owner    string `json:"owner"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
