package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// PurposePasswordReset scopes tokens minted for the reset-link flow.
// Tokens issued for one purpose never verify under another.
const PurposePasswordReset = "password-reset"

var (
	// ErrTokenExpired means the token verified but is older than the
	// caller's max age.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and
	// purpose mismatches.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenSigner issues and verifies purpose-scoped, time-limited tokens.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner builds a signer around the process-wide secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

type tokenClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the email, purpose and issue time. The
// validity window is enforced at verification time, not baked into the
// token, so the same token can be checked against different max ages.
func (s *TokenSigner) Issue(email, purpose string) (string, error) {
	claims := &tokenClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and purpose, then rejects tokens issued more
// than maxAge ago. Expired and invalid are distinct failures so callers
// can show different messages.
func (s *TokenSigner) Verify(tokenStr, purpose string, maxAge time.Duration) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return "", ErrTokenInvalid
	}
	if claims.IssuedAt == nil {
		return "", ErrTokenInvalid
	}
	if time.Since(claims.IssuedAt.Time) > maxAge {
		return "", ErrTokenExpired
	}
	return claims.Email, nil
}
