// Path: internal/services/account_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ledger-api/internal/models"
	"ledger-api/pkg/database"
)

// AccountService serves the account read models and closure.
type AccountService interface {
	Dashboard(accountID uint) (*models.DashboardData, error)
	Passbook(accountID uint, days int) ([]database.Transaction, error)
	CloseAccount(accountID uint) error
}

type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *gorm.DB) AccountService {
	return &accountService{db: db}
}

// Dashboard returns the account, its transactions and its loan requests,
// both newest first.
func (s *accountService) Dashboard(accountID uint) (*models.DashboardData, error) {
	var account database.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AppError{Code: 404, Message: "User not found", Details: fmt.Sprintf("account_id: %d", accountID)}
		}
		return nil, &AppError{Code: 500, Message: "Failed to query account", Details: err.Error(), Err: err}
	}

	data := &models.DashboardData{
		User:         account,
		Transactions: []database.Transaction{},
		LoanRequests: []database.LoanRequest{},
	}

	err := s.db.Where("account_id = ?", accountID).Order("date DESC").Find(&data.Transactions).Error
	if err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to query transactions", Details: err.Error(), Err: err}
	}

	err = s.db.Where("account_id = ?", accountID).Order("date_requested DESC").Find(&data.LoanRequests).Error
	if err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to query loan requests", Details: err.Error(), Err: err}
	}

	return data, nil
}

// Passbook returns the account's transactions of the last N days, newest
// first.
func (s *accountService) Passbook(accountID uint, days int) ([]database.Transaction, error) {
	if days <= 0 {
		return nil, &AppError{Code: 400, Message: "Invalid number of days", Details: "Days must be positive"}
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	entries := []database.Transaction{}
	err := s.db.Where("account_id = ? AND date >= ?", accountID, cutoff).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to query passbook", Details: err.Error(), Err: err}
	}

	return entries, nil
}

// CloseAccount deletes the account with all of its transactions and loan
// requests in one transaction, so no orphaned rows survive a failure.
// Closure is allowed even while an approved loan is still unrepaid.
func (s *accountService) CloseAccount(accountID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account database.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "User not found", Details: fmt.Sprintf("account_id: %d", accountID)}
			}
			return &AppError{Code: 500, Message: "Failed to query account", Details: err.Error(), Err: err}
		}

		return cascadeDelete(tx, &account)
	})
}

// cascadeDelete removes an account's transactions, loan requests and then
// the account row itself. Must run inside a transaction.
func cascadeDelete(tx *gorm.DB, account *database.Account) error {
	if err := tx.Where("account_id = ?", account.ID).Delete(&database.Transaction{}).Error; err != nil {
		return &AppError{Code: 500, Message: "Failed to delete transactions", Details: err.Error(), Err: err}
	}
	if err := tx.Where("account_id = ?", account.ID).Delete(&database.LoanRequest{}).Error; err != nil {
		return &AppError{Code: 500, Message: "Failed to delete loan requests", Details: err.Error(), Err: err}
	}
	if err := tx.Delete(account).Error; err != nil {
		return &AppError{Code: 500, Message: "Failed to delete account", Details: err.Error(), Err: err}
	}
	return nil
}
