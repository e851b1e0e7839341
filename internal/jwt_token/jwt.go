package jwttoken

import (
	"errors"
	"time"

	dErrors "dynaform/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims for our identity tokens. The subject is
// the user's email; the role claim is advisory only and is re-checked
// against the user store during principal resolution.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec issues and verifies signed identity tokens. The signing key and
// validity window are fixed at construction and shared read-only across
// requests.
type JWTCodec struct {
	signingKey []byte
	validity   time.Duration
	issuer     string
}

func NewJWTCodec(signingKey string, validity time.Duration, issuer string) *JWTCodec {
	return &JWTCodec{
		signingKey: []byte(signingKey),
		validity:   validity,
		issuer:     issuer,
	}
}

// IssueToken mints a token for the given subject and role, valid from now
// until now plus the configured window.
func (c *JWTCodec) IssueToken(email string, role string) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(c.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// VerifyToken checks the signature and expiry and returns the claims.
// Malformed input yields a typed error, never a panic.
func (c *JWTCodec) VerifyToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
