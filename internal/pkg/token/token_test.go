package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return raw
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "abc", FromHeader("Bearer abc"))
	assert.Equal(t, "abc", FromHeader("bearer   abc "))
	assert.Equal(t, "abc", FromHeader("abc"))
	assert.Equal(t, "", FromHeader(""))
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("token-a")
	assert.Len(t, a, 16)
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
	assert.NotContains(t, a, "token")
	assert.Equal(t, "", Fingerprint(""))
}

func TestParse(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signed(t, jwt.MapClaims{"sub": "user-1", "role": "USER", "exp": exp.Unix()})

	claims, ok := Parse(raw)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "USER", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestParse_FallbackSubjectKeys(t *testing.T) {
	claims, ok := Parse(signed(t, jwt.MapClaims{"id": "user-2"}))
	require.True(t, ok)
	assert.Equal(t, "user-2", claims.Subject)
	assert.False(t, claims.Expired(time.Now()))
}

func TestParse_Opaque(t *testing.T) {
	_, ok := Parse("not-a-jwt")
	assert.False(t, ok)
}
