// Path: internal/services/loan_service_test.go
package services

import (
	"fmt"
	"testing"

	"ledger-api/pkg/database"
)

func TestLoanLifecycle(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	ls := NewLoanService(db)

	loan, err := ls.RequestLoan(alice, dec(200), "rent")
	if err != nil {
		t.Fatalf("RequestLoan err=%v", err)
	}
	if loan.Status != database.LoanPending || loan.Repaid {
		t.Fatalf("loan=%+v", loan)
	}

	if err := ls.DecideLoan(loan.ID, database.LoanApproved); err != nil {
		t.Fatalf("DecideLoan err=%v", err)
	}

	var approved database.LoanRequest
	if err := db.First(&approved, loan.ID).Error; err != nil {
		t.Fatal(err)
	}
	if approved.Status != database.LoanApproved {
		t.Fatalf("status=%q want=Approved", approved.Status)
	}
	if got := mustBalance(t, db, alice); !got.Equal(dec(1200)) {
		t.Fatalf("balance=%s want=1200", got)
	}
	var credit database.Transaction
	wantDesc := fmt.Sprintf("Loan #%d approved", loan.ID)
	if err := db.Where("account_id = ? AND description = ?", alice, wantDesc).First(&credit).Error; err != nil {
		t.Fatalf("credit row: %v", err)
	}

	if err := ls.RepayLoan(alice, loan.ID); err != nil {
		t.Fatalf("RepayLoan err=%v", err)
	}
	var repaid database.LoanRequest
	if err := db.First(&repaid, loan.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !repaid.Repaid {
		t.Fatal("loan not marked repaid")
	}
	if got := mustBalance(t, db, alice); !got.Equal(dec(1000)) {
		t.Fatalf("balance=%s want=1000", got)
	}

	// A second repayment finds no outstanding loan and changes nothing.
	err = ls.RepayLoan(alice, loan.ID)
	wantCode(t, err, 404)
	if got := mustBalance(t, db, alice); !got.Equal(dec(1000)) {
		t.Fatalf("balance=%s want=1000", got)
	}
}

func TestRequestLoanInvalidAmount(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")

	_, err := NewLoanService(db).RequestLoan(alice, dec(0), "rent")
	wantCode(t, err, 400)
}

func TestDecideLoanInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	ls := NewLoanService(db)

	loan, err := ls.RequestLoan(alice, dec(100), "rent")
	if err != nil {
		t.Fatal(err)
	}
	wantCode(t, ls.DecideLoan(loan.ID, "Paid"), 400)
}

func TestDecideLoanIsFinal(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	ls := NewLoanService(db)

	loan, err := ls.RequestLoan(alice, dec(100), "rent")
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.DecideLoan(loan.ID, database.LoanApproved); err != nil {
		t.Fatal(err)
	}

	// Decided loans are immutable: re-deciding either way is rejected.
	wantCode(t, ls.DecideLoan(loan.ID, database.LoanApproved), 404)
	wantCode(t, ls.DecideLoan(loan.ID, database.LoanRejected), 404)

	if got := mustBalance(t, db, alice); !got.Equal(dec(1100)) {
		t.Fatalf("balance=%s want=1100", got)
	}
}

func TestRejectedLoanBooksNoCredit(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	ls := NewLoanService(db)

	loan, err := ls.RequestLoan(alice, dec(100), "rent")
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.DecideLoan(loan.ID, database.LoanRejected); err != nil {
		t.Fatal(err)
	}

	if got := mustBalance(t, db, alice); !got.Equal(dec(1000)) {
		t.Fatalf("balance=%s want=1000", got)
	}
	wantCode(t, ls.RepayLoan(alice, loan.ID), 404)
}

func TestRepayLoanInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	ls := NewLoanService(db)

	loan, err := ls.RequestLoan(alice, dec(500), "car")
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.DecideLoan(loan.ID, database.LoanApproved); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTransactionService(db).Withdraw(alice, dec(1200)); err != nil {
		t.Fatal(err)
	}

	// Balance is 300, loan is 500.
	wantCode(t, ls.RepayLoan(alice, loan.ID), 400)

	var current database.LoanRequest
	if err := db.First(&current, loan.ID).Error; err != nil {
		t.Fatal(err)
	}
	if current.Repaid {
		t.Fatal("loan must not be marked repaid")
	}
	if got := mustBalance(t, db, alice); !got.Equal(dec(300)) {
		t.Fatalf("balance=%s want=300", got)
	}
}

func TestRepayLoanWrongAccount(t *testing.T) {
	db := newTestDB(t)
	alice := register(t, db, "Alice", "alice")
	bob := register(t, db, "Bob", "bob")
	ls := NewLoanService(db)

	loan, err := ls.RequestLoan(alice, dec(100), "rent")
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.DecideLoan(loan.ID, database.LoanApproved); err != nil {
		t.Fatal(err)
	}

	wantCode(t, ls.RepayLoan(bob, loan.ID), 404)
}
