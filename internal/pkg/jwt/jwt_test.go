package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("test-secret-123")

	token, err := svc.GenerateToken(42, "5d1c7f0e-0000-4000-8000-000000000001", time.Now())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "5d1c7f0e-0000-4000-8000-000000000001", claims.TokenID())
	assert.Equal(t, "42", claims.Subject)
}

func TestService_RejectsForeignSignature(t *testing.T) {
	token, err := New("other-secret").GenerateToken(42, "jti", time.Now())
	require.NoError(t, err)

	_, err = New("test-secret-123").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsGarbageAndMissingID(t *testing.T) {
	svc := New("test-secret-123")

	_, err := svc.ValidateToken("invalid-jwt-here")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noID, err := svc.GenerateToken(42, "", time.Now())
	require.NoError(t, err)
	_, err = svc.ValidateToken(noID)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
