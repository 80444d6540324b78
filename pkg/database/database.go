// Path: pkg/database/database.go
package database

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Account represents a customer account in the database. The balance is
// never stored here; it is always derived from the transactions table.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Owner     string    `gorm:"not null" json:"owner"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one signed ledger row: positive amounts credit the
// account, negative amounts debit it. Rows are immutable after insert and
// only removed by the cascading account delete.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"not null" json:"description"`
	Reference   string          `gorm:"not null" json:"reference"`
}

// Loan request statuses. A loan moves Pending -> Approved or
// Pending -> Rejected exactly once; there is no way back.
const (
	LoanPending  = "Pending"
	LoanApproved = "Approved"
	LoanRejected = "Rejected"
)

// LoanRequest represents a loan application. Repaid is only meaningful
// once the status is Approved.
type LoanRequest struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AccountID     uint            `gorm:"not null;index" json:"account_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Reason        string          `json:"reason"`
	Status        string          `gorm:"not null" json:"status"`
	Repaid        bool            `gorm:"not null;default:false" json:"repaid"`
	DateRequested time.Time       `gorm:"not null" json:"date_requested"`
}

// InitDB opens the database and creates tables if they don't exist.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the necessary tables in the database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&Account{}, &Transaction{}, &LoanRequest{})
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	return nil
}

// LockForUpdate takes a row-level lock so that concurrent debits against
// the same account serialize at the store. SQLite allows a single writer
// and rejects the FOR UPDATE syntax, so the clause is skipped there.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
