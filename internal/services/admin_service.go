// Path: internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ledger-api/internal/models"
	"ledger-api/pkg/database"
)

// AdminService is the read-only oversight surface plus user deletion.
type AdminService interface {
	ListUsers() ([]models.UserSummary, error)
	DeleteUser(accountID uint) error
	ListLoans() ([]models.AdminLoanView, error)
}

type adminService struct {
	db *gorm.DB
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *gorm.DB) AdminService {
	return &adminService{db: db}
}

// ListUsers returns every account without the password hash.
func (s *adminService) ListUsers() ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := s.db.Model(&database.Account{}).
		Select("id, owner, username, is_admin").
		Scan(&users).Error
	if err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to query users", Details: err.Error(), Err: err}
	}

	return users, nil
}

// DeleteUser removes a non-admin account with all of its transactions and
// loan requests in one transaction.
func (s *adminService) DeleteUser(accountID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account database.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "User not found", Details: fmt.Sprintf("account_id: %d", accountID)}
			}
			return &AppError{Code: 500, Message: "Failed to query account", Details: err.Error(), Err: err}
		}
		if account.IsAdmin {
			return &AppError{Code: 403, Message: "Cannot delete an admin account", Details: fmt.Sprintf("account_id: %d", accountID)}
		}

		return cascadeDelete(tx, &account)
	})
}

// ListLoans returns all loan requests joined with the requester's display
// name, most recent first.
func (s *adminService) ListLoans() ([]models.AdminLoanView, error) {
	loans := []models.AdminLoanView{}
	err := s.db.Model(&database.LoanRequest{}).
		Select("loan_requests.id, loan_requests.account_id, loan_requests.amount, loan_requests.reason, loan_requests.status, loan_requests.repaid, loan_requests.date_requested, accounts.owner AS owner_name").
		Joins("JOIN accounts ON accounts.id = loan_requests.account_id").
		Order("loan_requests.date_requested DESC").
		Scan(&loans).Error
	if err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to query loans", Details: err.Error(), Err: err}
	}

	return loans, nil
}
