package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrDuplicateUser      = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidOrExpiredCode   = errors.New("verification code is invalid or expired")
	ErrPasswordContextExpired = errors.New("pending password expired, restart registration")
	ErrNotificationFailed     = errors.New("failed to deliver verification code")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")

	ErrSecretNotFound = errors.New("secret not found")
)

type User struct {
	ID             int64
	Email          string
	HashedPassword string
	IsActive       bool
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session is the authenticated result of a completed verification:
// a freshly issued bearer token bound to the user it belongs to.
type Session struct {
	UserID      int64
	Email       string
	AccessToken string
	TokenType   string
}
