// Path: internal/handlers/user_handlers.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ledger-api/internal/models"
	"ledger-api/internal/services"
)

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	data, err := h.accountService.Dashboard(claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(data)
}

func (h *Handler) Deposit(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	var req models.AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}

	entry, err := h.transactionService.Deposit(claims.UserID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Successfully deposited " + req.Amount.StringFixed(2),
		"reference": entry.Reference,
	})
}

func (h *Handler) Withdraw(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	var req models.AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}

	entry, err := h.transactionService.Withdraw(claims.UserID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Successfully withdrew " + req.Amount.StringFixed(2),
		"reference": entry.Reference,
	})
}

func (h *Handler) Transfer(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	var req models.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}
	if req.ToUsername == "" {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Recipient username is required", Details: ""}
	}

	if err := h.transactionService.Transfer(claims.UserID, req.ToUsername, req.Amount); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Transfer successful"})
}

func (h *Handler) RequestLoan(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	var req models.LoanApplication
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}

	loan, err := h.loanService.RequestLoan(claims.UserID, req.Amount, req.Reason)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Loan request submitted successfully",
		"loan":    loan,
	})
}

func (h *Handler) RepayLoan(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	loanID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid loan ID", Details: err.Error(), Err: err}
	}

	if err := h.loanService.RepayLoan(claims.UserID, uint(loanID)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Loan repaid successfully"})
}

func (h *Handler) CloseAccount(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	if err := h.accountService.CloseAccount(claims.UserID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Account closed successfully"})
}

func (h *Handler) Passbook(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}

	var req models.PassbookRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}

	entries, err := h.accountService.Passbook(claims.UserID, req.Days)
	if err != nil {
		return err
	}

	return c.JSON(entries)
}
