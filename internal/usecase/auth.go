package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/gefest173/meteora/internal/email"
	"github.com/gefest173/meteora/internal/metrics"
	"github.com/gefest173/meteora/internal/password"
	"github.com/gefest173/meteora/internal/repository"
	"github.com/gefest173/meteora/internal/token"
)

// Ephemeral key prefixes. A pending registration is two parallel entries
// (code + password hash) sharing one TTL window; a login challenge is one.
const (
	regConfirmPrefix = "reg_confirm:"
	pwdHashPrefix    = "pwd_hash:"
	loginCodePrefix  = "login_code:"
)

const defaultNotifyTimeout = 10 * time.Second

type AuthUsecase struct {
	users         repository.UserRepository
	secrets       repository.SecretStore
	notifier      email.Sender
	tokens        *token.Issuer
	codeTTL       time.Duration
	notifyTimeout time.Duration
}

func NewAuthUsecase(
	users repository.UserRepository,
	secrets repository.SecretStore,
	notifier email.Sender,
	tokens *token.Issuer,
	codeTTL time.Duration,
	notifyTimeout time.Duration,
) *AuthUsecase {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &AuthUsecase{
		users:         users,
		secrets:       secrets,
		notifier:      notifier,
		tokens:        tokens,
		codeTTL:       codeTTL,
		notifyTimeout: notifyTimeout,
	}
}

// StartRegistration generates a verification code for a new email, stores
// the code and the password hash with one shared TTL, and delivers the
// code out of band. On notifier failure the ephemeral entries are left to
// expire; a retry simply overwrites them.
func (u *AuthUsecase) StartRegistration(ctx context.Context, emailAddr, plainPassword string) error {
	_, err := u.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("find user: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}

	if err := u.secrets.SetWithTTL(ctx, regConfirmPrefix+emailAddr, code, u.codeTTL); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	if err := u.secrets.SetWithTTL(ctx, pwdHashPrefix+emailAddr, hash, u.codeTTL); err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}

	metrics.VerificationCodesIssued.WithLabelValues("registration").Inc()

	if err := u.deliver(ctx, emailAddr, code); err != nil {
		return err
	}
	return nil
}

// CompleteRegistration checks the submitted code byte-for-byte against the
// stored one, creates the user with the pending password hash, consumes
// both ephemeral entries and issues a bearer token. Concurrent completions
// for the same email are arbitrated by the store's uniqueness constraint:
// exactly one succeeds, the rest get domain.ErrDuplicateUser.
func (u *AuthUsecase) CompleteRegistration(ctx context.Context, emailAddr, submittedCode string) (*domain.Session, error) {
	stored, err := u.secrets.Get(ctx, regConfirmPrefix+emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			metrics.VerificationsTotal.WithLabelValues("registration", "invalid_code").Inc()
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("read verification code: %w", err)
	}
	if stored != submittedCode {
		metrics.VerificationsTotal.WithLabelValues("registration", "invalid_code").Inc()
		return nil, domain.ErrInvalidOrExpiredCode
	}

	hash, err := u.secrets.Get(ctx, pwdHashPrefix+emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			metrics.VerificationsTotal.WithLabelValues("registration", "context_expired").Inc()
			return nil, domain.ErrPasswordContextExpired
		}
		return nil, fmt.Errorf("read password hash: %w", err)
	}

	user, err := u.users.Create(ctx, repository.CreateUserInput{
		Email:          emailAddr,
		HashedPassword: hash,
		IsVerified:     true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			metrics.VerificationsTotal.WithLabelValues("registration", "duplicate").Inc()
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := u.secrets.Delete(ctx, regConfirmPrefix+emailAddr); err != nil {
		return nil, fmt.Errorf("consume verification code: %w", err)
	}
	if err := u.secrets.Delete(ctx, pwdHashPrefix+emailAddr); err != nil {
		return nil, fmt.Errorf("consume password hash: %w", err)
	}

	session, err := u.newSession(user)
	if err != nil {
		return nil, err
	}
	metrics.VerificationsTotal.WithLabelValues("registration", "success").Inc()
	return session, nil
}

// StartLogin verifies the password and sends a fresh login code. Unknown
// email and wrong password return the identical error to avoid user
// enumeration.
func (u *AuthUsecase) StartLogin(ctx context.Context, emailAddr, plainPassword string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !password.Verify(plainPassword, user.HashedPassword) {
		return domain.ErrInvalidCredentials
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if err := u.secrets.SetWithTTL(ctx, loginCodePrefix+emailAddr, code, u.codeTTL); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}

	metrics.VerificationCodesIssued.WithLabelValues("login").Inc()

	if err := u.deliver(ctx, emailAddr, code); err != nil {
		return err
	}
	return nil
}

// CompleteLogin consumes the login code and issues a bearer token.
func (u *AuthUsecase) CompleteLogin(ctx context.Context, emailAddr, submittedCode string) (*domain.Session, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	stored, err := u.secrets.Get(ctx, loginCodePrefix+emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			metrics.VerificationsTotal.WithLabelValues("login", "invalid_code").Inc()
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("read login code: %w", err)
	}
	if stored != submittedCode {
		metrics.VerificationsTotal.WithLabelValues("login", "invalid_code").Inc()
		return nil, domain.ErrInvalidOrExpiredCode
	}

	if err := u.secrets.Delete(ctx, loginCodePrefix+emailAddr); err != nil {
		return nil, fmt.Errorf("consume login code: %w", err)
	}

	session, err := u.newSession(user)
	if err != nil {
		return nil, err
	}
	metrics.VerificationsTotal.WithLabelValues("login", "success").Inc()
	return session, nil
}

// deliver sends the code under an explicit timeout; the notifier call wraps
// a remote handshake and must not be allowed to hang.
func (u *AuthUsecase) deliver(ctx context.Context, emailAddr, code string) error {
	sendCtx, cancel := context.WithTimeout(ctx, u.notifyTimeout)
	defer cancel()

	subject, body := email.VerificationMessage(code)
	if err := u.notifier.Send(sendCtx, emailAddr, subject, body); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}
	return nil
}

func (u *AuthUsecase) newSession(user *domain.User) (*domain.Session, error) {
	accessToken, err := u.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// generateCode returns a 4-digit code uniformly random in [1000,9999],
// kept as a string so comparison stays byte-exact.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}
