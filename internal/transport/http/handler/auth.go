package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	StartRegistration(ctx context.Context, email, password string) error
	CompleteRegistration(ctx context.Context, email, code string) (*domain.Session, error)
	StartLogin(ctx context.Context, email, password string) error
	CompleteLogin(ctx context.Context, email, code string) (*domain.Session, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required,len=4,numeric"`
}

type sessionResponse struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.StartRegistration(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"error": errAlreadyRegistered})
		case errors.Is(err, domain.ErrNotificationFailed):
			h.logger.ErrorContext(c.Request.Context(), "send registration code", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errNotification})
		default:
			h.logger.ErrorContext(c.Request.Context(), "start registration", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Verification code sent to your email",
		"email":   req.Email,
	})
}

// POST /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authUsecase.CompleteRegistration(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOrExpiredCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCode})
		case errors.Is(err, domain.ErrPasswordContextExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": errContextExpired})
		case errors.Is(err, domain.ErrDuplicateUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": errDuplicateUser})
		default:
			h.logger.ErrorContext(c.Request.Context(), "complete registration", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{
		UserID:      session.UserID,
		Email:       session.Email,
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
	})
}

// POST /auth/login/send_code
func (h *AuthHandler) SendLoginCode(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.StartLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCredentials})
		case errors.Is(err, domain.ErrNotificationFailed):
			h.logger.ErrorContext(c.Request.Context(), "send login code", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errNotification})
		default:
			h.logger.ErrorContext(c.Request.Context(), "start login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to your email"})
}

// POST /auth/login/verify_code
func (h *AuthHandler) VerifyLoginCode(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authUsecase.CompleteLogin(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCredentials})
		case errors.Is(err, domain.ErrInvalidOrExpiredCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCode})
		default:
			h.logger.ErrorContext(c.Request.Context(), "complete login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		UserID:      session.UserID,
		Email:       session.Email,
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
	})
}
