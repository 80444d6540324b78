// Path: internal/handlers/admin_handlers.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ledger-api/internal/models"
	"ledger-api/internal/services"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return err
	}

	return c.JSON(users)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	accountID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid account ID", Details: err.Error(), Err: err}
	}

	if err := h.adminService.DeleteUser(uint(accountID)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User and all associated data deleted successfully"})
}

func (h *Handler) ListLoans(c *fiber.Ctx) error {
	loans, err := h.adminService.ListLoans()
	if err != nil {
		return err
	}

	return c.JSON(loans)
}

func (h *Handler) DecideLoan(c *fiber.Ctx) error {
	loanID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid loan ID", Details: err.Error(), Err: err}
	}

	var req models.LoanDecision
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}

	if err := h.loanService.DecideLoan(uint(loanID), req.Status); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Loan decision recorded"})
}
