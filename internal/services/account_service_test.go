// Path: internal/services/account_service_test.go
package services

import (
	"testing"
	"time"

	"ledger-api/pkg/database"
	"ledger-api/pkg/utils"
)

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")

	if _, err := NewTransactionService(db).Deposit(alice, dec(50)); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoanService(db).RequestLoan(alice, dec(200), "rent"); err != nil {
		t.Fatal(err)
	}

	data, err := NewAccountService(db).Dashboard(alice)
	if err != nil {
		t.Fatalf("Dashboard err=%v", err)
	}
	if data.User.Username != "alice" || data.User.Owner != "Alice" {
		t.Fatalf("user=%+v", data.User)
	}
	if len(data.Transactions) != 2 {
		t.Fatalf("transactions=%d want=2", len(data.Transactions))
	}
	// Newest first: the deposit was written after the seed.
	if data.Transactions[0].Description != "User Deposit" {
		t.Fatalf("first transaction=%q", data.Transactions[0].Description)
	}
	if len(data.LoanRequests) != 1 || data.LoanRequests[0].Reason != "rent" {
		t.Fatalf("loans=%+v", data.LoanRequests)
	}
}

func TestDashboardUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	_, err := NewAccountService(db).Dashboard(99)
	wantCode(t, err, 404)
}

func TestPassbookFiltersByWindow(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	as := NewAccountService(db)

	// The seed row is fresh; add one outside the window.
	old := database.Transaction{
		AccountID:   alice,
		Amount:      dec(5),
		Date:        time.Now().AddDate(0, 0, -10),
		Description: "Old deposit",
		Reference:   utils.NewReference(),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatal(err)
	}

	recent, err := as.Passbook(alice, 7)
	if err != nil {
		t.Fatalf("Passbook err=%v", err)
	}
	if len(recent) != 1 || recent[0].Description != "Initial deposit" {
		t.Fatalf("recent=%+v", recent)
	}

	all, err := as.Passbook(alice, 30)
	if err != nil {
		t.Fatalf("Passbook err=%v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all=%d want=2", len(all))
	}
	if all[0].Description != "Initial deposit" || all[1].Description != "Old deposit" {
		t.Fatalf("order=%q,%q", all[0].Description, all[1].Description)
	}

	_, err = as.Passbook(alice, 0)
	wantCode(t, err, 400)
}

func TestCloseAccountCascades(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	if _, err := NewLoanService(db).RequestLoan(alice, dec(200), "rent"); err != nil {
		t.Fatal(err)
	}
	as := NewAccountService(db)

	if err := as.CloseAccount(alice); err != nil {
		t.Fatalf("CloseAccount err=%v", err)
	}

	var accounts, transactions, loans int64
	db.Model(&database.Account{}).Where("id = ?", alice).Count(&accounts)
	db.Model(&database.Transaction{}).Where("account_id = ?", alice).Count(&transactions)
	db.Model(&database.LoanRequest{}).Where("account_id = ?", alice).Count(&loans)
	if accounts != 0 || transactions != 0 || loans != 0 {
		t.Fatalf("accounts=%d transactions=%d loans=%d want all 0", accounts, transactions, loans)
	}

	wantCode(t, as.CloseAccount(alice), 404)
}
