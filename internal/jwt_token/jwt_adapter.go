package jwttoken

import (
	"dynaform/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *middleware.TokenClaims {
	return &middleware.TokenClaims{
		Subject: claims.Email,
		Role:    claims.Role,
	}
}

// JWTCodecAdapter bridges the codec to the middleware's TokenVerifier
// interface so the gate does not depend on this package's claim type.
type JWTCodecAdapter struct {
	codec *JWTCodec
}

func NewJWTCodecAdapter(codec *JWTCodec) *JWTCodecAdapter {
	return &JWTCodecAdapter{codec: codec}
}

func (a *JWTCodecAdapter) VerifyToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.codec.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
