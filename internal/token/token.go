// Package token issues and validates the stateless bearer tokens returned
// by the auth flows. There is no revocation; the embedded expiry is the
// only termination mechanism.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs an HS256 token with sub, iat and exp claims.
func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a raw token and returns its subject.
// Failures map onto domain.ErrTokenExpired, domain.ErrBadSignature and
// domain.ErrTokenMalformed.
func (i *Issuer) Validate(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrBadSignature
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, domain.ErrBadSignature):
			return "", domain.ErrBadSignature
		default:
			return "", domain.ErrTokenMalformed
		}
	}
	if !t.Valid {
		return "", domain.ErrTokenMalformed
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenMalformed
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", domain.ErrTokenMalformed
	}
	return subject, nil
}
