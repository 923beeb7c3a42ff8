package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestCreateAndVerify(t *testing.T) {
	maker, err := NewJWTMaker(testKey, "storefront")
	require.NoError(t, err)

	tok, payload, err := maker.CreateToken("user-1", "jean@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := maker.VerifyToken(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.UserID)
	require.Equal(t, "jean@example.com", got.Email)
	require.Equal(t, payload.ID, got.ID)
	require.WithinDuration(t, payload.ExpiredAt, got.ExpiredAt, time.Second)
}

func TestExpiredToken(t *testing.T) {
	maker, err := NewJWTMaker(testKey, "storefront")
	require.NoError(t, err)
	maker.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, _, err := maker.CreateToken("user-1", "jean@example.com", time.Hour)
	require.NoError(t, err)

	maker.now = time.Now
	_, err = maker.VerifyToken(tok)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestRejectsForeignTokens(t *testing.T) {
	maker, err := NewJWTMaker(testKey, "storefront")
	require.NoError(t, err)

	other, err := NewJWTMaker("fedcba9876543210fedcba9876543210", "storefront")
	require.NoError(t, err)
	tok, _, err := other.CreateToken("user-1", "jean@example.com", time.Hour)
	require.NoError(t, err)
	_, err = maker.VerifyToken(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": "user-1", "iss": "storefront"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = maker.VerifyToken(none)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = maker.VerifyToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestShortKey(t *testing.T) {
	_, err := NewJWTMaker("short", "storefront")
	require.Error(t, err)
}
