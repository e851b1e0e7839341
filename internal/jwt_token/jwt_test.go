package jwttoken

import (
	"testing"
	"time"

	dErrors "dynaform/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codec = NewJWTCodec("test-signing-key", time.Hour, "dynaform-test")

func Test_IssueToken(t *testing.T) {
	token, err := codec.IssueToken("user@example.com", "USER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.VerifyToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_VerifyToken_InvalidToken(t *testing.T) {
	_, err := codec.VerifyToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_VerifyToken_ExpiredToken(t *testing.T) {
	expired := NewJWTCodec("test-signing-key", -time.Hour, "dynaform-test")

	token, err := expired.IssueToken("user@example.com", "USER")
	require.NoError(t, err)

	_, err = codec.VerifyToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_VerifyToken_WrongKey(t *testing.T) {
	other := NewJWTCodec("another-signing-key", time.Hour, "dynaform-test")

	token, err := other.IssueToken("user@example.com", "ADMIN")
	require.NoError(t, err)

	_, err = codec.VerifyToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_VerifyToken_GarbageInputDoesNotPanic(t *testing.T) {
	for _, tok := range []string{"", "a.b", "a.b.c.d", "....", "ey.ey.ey"} {
		_, err := codec.VerifyToken(tok)
		require.Error(t, err)
	}
}
