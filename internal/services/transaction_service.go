// Path: internal/services/transaction_service.go
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

// TransactionService handles every balance-affecting operation. A balance
// is always the sum of the account's transaction rows; any operation that
// debits an account checks that sum and writes its rows in one database
// transaction.
type TransactionService interface {
	Balance(accountID uint) (decimal.Decimal, error)
	Deposit(accountID uint, amount decimal.Decimal) (*database.Transaction, error)
	Withdraw(accountID uint, amount decimal.Decimal) (*database.Transaction, error)
	Transfer(fromID uint, toUsername string, amount decimal.Decimal) error
}

type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(db *gorm.DB) TransactionService {
	return &transactionService{db: db}
}

// balanceIn computes the derived balance inside the given transaction, so
// a following debit decides against the same snapshot it writes into.
func balanceIn(tx *gorm.DB, accountID uint) (decimal.Decimal, error) {
	row := tx.Model(&database.Transaction{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(amount), 0)").
		Row()

	var balance decimal.Decimal
	if err := row.Scan(&balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Balance returns the current balance; zero when no rows exist.
func (s *transactionService) Balance(accountID uint) (decimal.Decimal, error) {
	balance, err := balanceIn(s.db, accountID)
	if err != nil {
		return decimal.Zero, &AppError{Code: 500, Message: "Failed to compute balance", Details: err.Error(), Err: err}
	}
	return balance, nil
}

// Deposit credits the account. A single insert is already atomic at the
// storage layer, so no explicit transaction is opened here.
func (s *transactionService) Deposit(accountID uint, amount decimal.Decimal) (*database.Transaction, error) {
	if !amount.IsPositive() {
		return nil, &AppError{Code: 400, Message: "Invalid deposit amount", Details: "Amount must be positive"}
	}

	entry := database.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Date:        time.Now(),
		Description: "User Deposit",
		Reference:   utils.NewReference(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, &AppError{Code: 500, Message: "Failed to record deposit", Details: err.Error(), Err: err}
	}

	return &entry, nil
}

// Withdraw debits the account after verifying sufficient funds. The
// balance read and the debit insert share one transaction, with the
// account row locked so concurrent debits serialize.
func (s *transactionService) Withdraw(accountID uint, amount decimal.Decimal) (*database.Transaction, error) {
	if !amount.IsPositive() {
		return nil, &AppError{Code: 400, Message: "Invalid withdrawal amount", Details: "Amount must be positive"}
	}

	var entry database.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account database.Account
		if err := database.LockForUpdate(tx).First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "Account not found", Details: fmt.Sprintf("account_id: %d", accountID)}
			}
			return &AppError{Code: 500, Message: "Failed to query account", Details: err.Error(), Err: err}
		}

		balance, err := balanceIn(tx, accountID)
		if err != nil {
			return &AppError{Code: 500, Message: "Failed to compute balance", Details: err.Error(), Err: err}
		}
		if balance.LessThan(amount) {
			return &AppError{Code: 400, Message: "Insufficient funds", Details: fmt.Sprintf("account_id: %d, balance: %s, requested: %s", accountID, balance, amount)}
		}

		entry = database.Transaction{
			AccountID:   accountID,
			Amount:      amount.Neg(),
			Date:        time.Now(),
			Description: "User Withdrawal",
			Reference:   utils.NewReference(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to record withdrawal", Details: err.Error(), Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Transfer moves money to another user, addressed by username. It writes
// exactly two rows, a debit on the sender and a credit on the recipient,
// which commit together or not at all.
func (s *transactionService) Transfer(fromID uint, toUsername string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &AppError{Code: 400, Message: "Invalid transfer amount", Details: "Amount must be positive"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var sender database.Account
		if err := database.LockForUpdate(tx).First(&sender, fromID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "Sender account not found", Details: fmt.Sprintf("account_id: %d", fromID)}
			}
			return &AppError{Code: 500, Message: "Failed to query sender account", Details: err.Error(), Err: err}
		}

		var recipient database.Account
		if err := tx.Where("username = ?", toUsername).First(&recipient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &AppError{Code: 404, Message: "Recipient not found", Details: fmt.Sprintf("username: %s", toUsername)}
			}
			return &AppError{Code: 500, Message: "Failed to query recipient account", Details: err.Error(), Err: err}
		}
		if recipient.ID == sender.ID {
			return &AppError{Code: 400, Message: "Cannot transfer to yourself", Details: fmt.Sprintf("username: %s", toUsername)}
		}

		balance, err := balanceIn(tx, sender.ID)
		if err != nil {
			return &AppError{Code: 500, Message: "Failed to compute balance", Details: err.Error(), Err: err}
		}
		if balance.LessThan(amount) {
			return &AppError{Code: 400, Message: "Insufficient funds", Details: fmt.Sprintf("account_id: %d, balance: %s, requested: %s", sender.ID, balance, amount)}
		}

		now := time.Now()
		debit := database.Transaction{
			AccountID:   sender.ID,
			Amount:      amount.Neg(),
			Date:        now,
			Description: fmt.Sprintf("Transfer to %s", recipient.Username),
			Reference:   utils.NewReference(),
		}
		if err := tx.Create(&debit).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to record transfer debit", Details: err.Error(), Err: err}
		}

		credit := database.Transaction{
			AccountID:   recipient.ID,
			Amount:      amount,
			Date:        now,
			Description: fmt.Sprintf("Transfer from %s", sender.Username),
			Reference:   utils.NewReference(),
		}
		if err := tx.Create(&credit).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to record transfer credit", Details: err.Error(), Err: err}
		}

		return nil
	})
}
