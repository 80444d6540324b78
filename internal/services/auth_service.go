// Path: internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ledger-api/internal/models"
	"ledger-api/pkg/database"
	"ledger-api/pkg/utils"
)

// Every new account starts with this seed credit in its ledger.
var openingBalance = decimal.NewFromInt(1000)

// AuthService handles user authentication and registration.
type AuthService interface {
	Register(owner, username, password string) (uint, error)
	Login(username, password string) (string, *database.Account, error)
	ValidateToken(token string) (*models.Claims, error)
}

type authService struct {
	db     *gorm.DB
	jwtKey string
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, jwtSecret string) AuthService {
	return &authService{
		db:     db,
		jwtKey: jwtSecret,
	}
}

// Register creates a new account together with its seed transaction. The
// account row and the opening credit commit together or not at all.
func (s *authService) Register(owner, username, password string) (uint, error) {
	var accountID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Check if the username is already taken.
		var count int64
		err := tx.Model(&database.Account{}).Where("username = ?", username).Count(&count).Error
		if err != nil {
			return &AppError{Code: 500, Message: "Failed to check username", Details: err.Error(), Err: err}
		}
		if count > 0 {
			return &AppError{Code: 409, Message: "Username already exists", Details: fmt.Sprintf("username: %s", username)}
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return &AppError{Code: 500, Message: "Failed to hash password", Details: err.Error(), Err: err}
		}

		account := database.Account{
			Owner:    owner,
			Username: username,
			Password: string(hashedPassword),
		}
		if err := tx.Create(&account).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to insert account", Details: err.Error(), Err: err}
		}

		seed := database.Transaction{
			AccountID:   account.ID,
			Amount:      openingBalance,
			Date:        time.Now(),
			Description: "Initial deposit",
			Reference:   utils.NewReference(),
		}
		if err := tx.Create(&seed).Error; err != nil {
			return &AppError{Code: 500, Message: "Failed to seed opening balance", Details: err.Error(), Err: err}
		}

		accountID = account.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	return accountID, nil
}

// Login authenticates a user and returns a signed JWT plus the account.
func (s *authService) Login(username, password string) (string, *database.Account, error) {
	var account database.Account
	err := s.db.Where("username = ?", username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, &AppError{Code: 401, Message: "Invalid credentials", Details: "User not found"}
		}
		return "", nil, &AppError{Code: 500, Message: "Failed to query account", Details: err.Error(), Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", nil, &AppError{Code: 401, Message: "Invalid credentials", Details: "Incorrect password"}
	}

	claims := &models.Claims{
		UserID:   account.ID,
		Username: account.Username,
		Owner:    account.Owner,
		IsAdmin:  account.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "ledger-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtKey))
	if err != nil {
		return "", nil, &AppError{Code: 500, Message: "Failed to sign token", Details: err.Error(), Err: err}
	}

	return tokenString, &account, nil
}

// ValidateToken validates a JWT and returns the claims.
func (s *authService) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtKey), nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, &AppError{Code: 401, Message: "Invalid token", Details: "Malformed token"}
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, &AppError{Code: 401, Message: "Invalid token", Details: "Token expired or not yet valid"}
			}
		}
		return nil, &AppError{Code: 401, Message: "Invalid token", Details: err.Error(), Err: err}
	}

	if !token.Valid {
		return nil, &AppError{Code: 401, Message: "Invalid token", Details: "Token is not valid"}
	}

	return claims, nil
}
