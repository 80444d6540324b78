// Path: internal/services/loan_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ledger-api/pkg/database"
	"ledger-api/pkg/utils"
)

// LoanService runs the loan state machine: Pending -> Approved/Rejected,
// then Approved -> repaid. Approval books a ledger credit and repayment a
// ledger debit, each in the same transaction as the state change.
type LoanService interface {
	RequestLoan(accountID uint, amount decimal.Decimal, reason string) (*database.LoanRequest, error)
	DecideLoan(loanID uint, status string) error
	RepayLoan(accountID, loanID uint) error
}

type loanService struct {
	db *gorm.DB
}

// NewLoanService creates a new LoanService.
func NewLoanService(db *gorm.DB) LoanService {
	return &loanService{db: db}
}

// RequestLoan files a new loan application with status Pending.
func (s *loanService) RequestLoan(accountID uint, amount decimal.Decimal, reason string) (*database.LoanRequest, error) {
	if !amount.IsPositive() {
		return nil, &AppError{Code: 400, Message: "Invalid loan amount", Details: "Amount must be positive"}
	}

	loan := database.LoanRequest{
		AccountID:     accountID,
		Amount:        amount,
		Reason:        reason,
		Status:        database.LoanPending,
		DateRequested: time.Now(),
	}
	if err := s.db.Create(&loan).Error; err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to create loan request", Details: err.Error(), Err: err}
	}

	return &loan, nil
}

// DecideLoan approves or rejects a pending loan. Already-decided loans are
// immutable; re-deciding fails rather than overwrites. On approval the
// status flip and the ledger credit commit together.
func (s *loanService) DecideLoan(loanID uint, status string) error {
	if status != database.LoanApproved && status != database.LoanRejected {
		return &AppError{Code: 400, Message: "Invalid status", Details: fmt.Sprintf("status: %s", status)}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var loan database.LoanRequest
		err := tx.Where("id = ? AND status = ?", loanID, database.LoanPending).First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "Pending loan not found or already processed", Details: fmt.Sprintf("loan_id: %d", loanID)}
			}
			return &AppError{Code: 500, Message: "Failed to query loan", Details: err.Error(), Err: err}
		}

		if err := tx.Model(&loan).Update("status", status).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to update loan status", Details: err.Error(), Err: err}
		}

		if status == database.LoanApproved {
			credit := database.Transaction{
				AccountID:   loan.AccountID,
				Amount:      loan.Amount,
				Date:        time.Now(),
				Description: fmt.Sprintf("Loan #%d approved", loan.ID),
				Reference:   utils.NewReference(),
			}
			if err := tx.Create(&credit).Error; err != nil {
				return &AppError{Code: 500, Message: "Failed to credit loan amount", Details: err.Error(), Err: err}
			}
		}

		return nil
	})
}

// RepayLoan settles an approved, unrepaid loan owned by the account. The
// ledger debit and the repaid flag commit together; a second repayment
// finds no outstanding loan and fails.
func (s *loanService) RepayLoan(accountID, loanID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account database.Account
		if err := database.LockForUpdate(tx).First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "Account not found", Details: fmt.Sprintf("account_id: %d", accountID)}
			}
			return &AppError{Code: 500, Message: "Failed to query account", Details: err.Error(), Err: err}
		}

		var loan database.LoanRequest
		err := tx.Where("id = ? AND account_id = ? AND status = ? AND repaid = ?",
			loanID, accountID, database.LoanApproved, false).First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "Outstanding approved loan not found", Details: fmt.Sprintf("loan_id: %d, account_id: %d", loanID, accountID)}
			}
			return &AppError{Code: 500, Message: "Failed to query loan", Details: err.Error(), Err: err}
		}

		balance, err := balanceIn(tx, accountID)
		if err != nil {
			return &AppError{Code: 500, Message: "Failed to compute balance", Details: err.Error(), Err: err}
		}
		if balance.LessThan(loan.Amount) {
			return &AppError{Code: 400, Message: "Insufficient funds to repay loan", Details: fmt.Sprintf("account_id: %d, balance: %s, loan: %s", accountID, balance, loan.Amount)}
		}

		debit := database.Transaction{
			AccountID:   accountID,
			Amount:      loan.Amount.Neg(),
			Date:        time.Now(),
			Description: fmt.Sprintf("Repayment for Loan #%d", loan.ID),
			Reference:   utils.NewReference(),
		}
		if err := tx.Create(&debit).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to record repayment", Details: err.Error(), Err: err}
		}

		if err := tx.Model(&loan).Update("repaid", true).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to mark loan repaid", Details: err.Error(), Err: err}
		}

		return nil
	})
}
