// Path: internal/handlers/handlers.go
package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"ledger-api/internal/models"
	"ledger-api/internal/services"
)

type Handler struct {
	authService        services.AuthService
	accountService     services.AccountService
	transactionService services.TransactionService
	loanService        services.LoanService
	adminService       services.AdminService
}

func NewHandler(as services.AuthService, acs services.AccountService, ts services.TransactionService, ls services.LoanService, ads services.AdminService) *Handler {
	return &Handler{
		authService:        as,
		accountService:     acs,
		transactionService: ts,
		loanService:        ls,
		adminService:       ads,
	}
}

// RegisterRoutes mounts the whole API surface on the app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	user := api.Group("/user", h.AuthMiddleware)
	user.Get("/dashboard-data", h.Dashboard)
	user.Post("/deposit", h.Deposit)
	user.Post("/withdraw", h.Withdraw)
	user.Post("/transfer", h.Transfer)
	user.Post("/loan/request", h.RequestLoan)
	user.Post("/loan/repay/:id", h.RepayLoan)
	user.Post("/close", h.CloseAccount)
	user.Post("/passbook", h.Passbook)

	admin := api.Group("/admin", h.AuthMiddleware, h.AdminMiddleware)
	admin.Get("/users", h.ListUsers)
	admin.Delete("/delete-user/:id", h.DeleteUser)
	admin.Get("/loans", h.ListLoans)
	admin.Patch("/loan/:id", h.DecideLoan)
}

// ErrorHandler translates service errors into JSON responses. Storage
// failures are logged in full but answered without internals.
func (h *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	log.Printf("request error: %v", err)

	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := ""

	var appErr *services.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		details = appErr.Details
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		details = ""
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   message,
		"details": details,
	})
}

// Register creates the account and logs the user straight in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}
	if req.Owner == "" || req.Username == "" || req.Password == "" {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "All fields are required", Details: "owner, username and password must be set"}
	}

	if _, err := h.authService.Register(req.Owner, req.Username, req.Password); err != nil {
		return err
	}

	token, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully with an initial balance of 1000",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Invalid request format", Details: err.Error(), Err: err}
	}
	if req.Username == "" || req.Password == "" {
		return &services.AppError{Code: fiber.StatusBadRequest, Message: "Username and password are required", Details: ""}
	}

	token, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// AuthMiddleware extracts and validates the bearer token, stashing the
// claims for the handlers downstream.
func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	if c.Method() == "OPTIONS" {
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return &services.AppError{Code: fiber.StatusUnauthorized, Message: "Missing token", Details: "Authorization header is empty"}
	}

	var token string
	if _, err := fmt.Sscanf(authHeader, "Bearer %s", &token); err != nil {
		return &services.AppError{Code: fiber.StatusUnauthorized, Message: "Invalid token format", Details: err.Error()}
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		return err
	}

	c.Locals("user", claims)
	return c.Next()
}

// AdminMiddleware rejects callers whose token lacks the admin flag.
func (h *Handler) AdminMiddleware(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return err
	}
	if !claims.IsAdmin {
		return &services.AppError{Code: fiber.StatusForbidden, Message: "Admin access required", Details: fmt.Sprintf("user_id: %d", claims.UserID)}
	}
	return c.Next()
}

func claimsFromCtx(c *fiber.Ctx) (*models.Claims, error) {
	claims, ok := c.Locals("user").(*models.Claims)
	if !ok {
		return nil, &services.AppError{Code: fiber.StatusInternalServerError, Message: "Failed to retrieve user claims", Details: "User claims were not of the expected type"}
	}
	return claims, nil
}
