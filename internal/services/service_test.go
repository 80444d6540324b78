// Path: internal/services/service_test.go
//
// Shared helpers for the service tests. Everything runs against a private
// in-memory SQLite database per test; the concurrency test is the one
// exception and needs a real postgres (see transaction_service_test.go).
package services

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"ledger-api/pkg/database"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory database. Shared cache keeps the
// schema visible to every pooled connection; the unique name keeps tests
// isolated from each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: glogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func register(t *testing.T, db *gorm.DB, owner, username string) uint {
	t.Helper()
	id, err := NewAuthService(db, "test-secret").Register(owner, username, "pw")
	if err != nil {
		t.Fatalf("Register(%s) err=%v", username, err)
	}
	return id
}

func mustBalance(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	balance, err := NewTransactionService(db).Balance(accountID)
	if err != nil {
		t.Fatalf("Balance(%d) err=%v", accountID, err)
	}
	return balance
}

// wantCode asserts that err is an AppError carrying the given status code.
func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("want *AppError with code %d, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("code=%d want=%d (%v)", appErr.Code, code, err)
	}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
