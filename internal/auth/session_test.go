package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionCodec_RequiresSecret(t *testing.T) {
	_, err := NewSessionCodec("")
	assert.Error(t, err)

	codec, err := NewSessionCodec("test_secret")
	assert.NoError(t, err)
	assert.NotNil(t, codec)
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	codec, err := NewSessionCodec("test_secret")
	require.NoError(t, err)

	token, err := codec.Issue(SessionClaims{UserID: 42, Email: "a@b.com", UserName: "ab1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "ab1", claims.UserName)
}

func TestSessionCodec_RejectsGarbage(t *testing.T) {
	codec, err := NewSessionCodec("test_secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "definitely-not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiIs"},
		{"wrong segments", "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSessionCodec_RejectsWrongSecret(t *testing.T) {
	codec, err := NewSessionCodec("test_secret")
	require.NoError(t, err)
	other, err := NewSessionCodec("other_secret")
	require.NoError(t, err)

	token, err := codec.Issue(SessionClaims{UserID: 1})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_RejectsExpired(t *testing.T) {
	codec, err := NewSessionCodec("test_secret")
	require.NoError(t, err)

	// Hand-craft a token whose expiry already elapsed, signed with the
	// codec's own secret.
	past := time.Now().Add(-time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(7, 10),
		"iss": issuer,
		"aud": audience,
		"exp": past.Unix(),
		"iat": past.Add(-SessionTTL).Unix(),
	})
	signed, err := expired.SignedString([]byte("test_secret"))
	require.NoError(t, err)

	claims, err := codec.Verify(signed)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_RejectsUnsignedAlg(t *testing.T) {
	codec, err := NewSessionCodec("test_secret")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "7",
		"iss": issuer,
		"aud": audience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
