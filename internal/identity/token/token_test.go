package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer("test-secret", "fakturering", time.Hour)
	require.NoError(t, err)
	return i
}

func TestIssuer_RoundTrip(t *testing.T) {
	i := newTestIssuer(t)

	signed, err := i.Issue("alice", 0)
	require.NoError(t, err)

	claims, err := i.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Identity())
	assert.Equal(t, "fakturering", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuer_CustomTTL(t *testing.T) {
	i := newTestIssuer(t)

	signed, err := i.Issue("alice", 5*time.Minute)
	require.NoError(t, err)

	claims, err := i.Verify(signed)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuer_Expired(t *testing.T) {
	i := newTestIssuer(t)
	i.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err := i.Issue("alice", 0)
	require.NoError(t, err)

	i.now = time.Now
	_, err = i.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestIssuer_WrongSecret(t *testing.T) {
	other, err := NewIssuer("another-secret", "fakturering", time.Hour)
	require.NoError(t, err)
	signed, err := other.Issue("mallory", 0)
	require.NoError(t, err)

	_, err = newTestIssuer(t).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_WrongIssuer(t *testing.T) {
	other, err := NewIssuer("test-secret", "someone-else", time.Hour)
	require.NoError(t, err)
	signed, err := other.Issue("alice", 0)
	require.NoError(t, err)

	_, err = newTestIssuer(t).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "fakturering",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIssuer(t).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Garbage(t *testing.T) {
	_, err := newTestIssuer(t).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestIssuer(t).Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Validation(t *testing.T) {
	_, err := NewIssuer("", "fakturering", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = newTestIssuer(t).Issue("", 0)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
