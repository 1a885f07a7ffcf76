package services

import (
	"testing"
	"time"

	"github.com/pilab-dev/osm-auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewSessionTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(&domain.User{ID: 1234, Username: "test_user"})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "test_user", claims.Username)
	assert.NotEmpty(t, claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), userID)
}

func TestSessionTokenIssuer_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewSessionTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewSessionTokenIssuer("other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue(&domain.User{ID: 1, Username: "x"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionTokenIssuer_RejectsExpired(t *testing.T) {
	issuer, err := NewSessionTokenIssuer("test-secret", time.Minute)
	require.NoError(t, err)

	issued := time.Date(2025, 1, 3, 3, 8, 6, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue(&domain.User{ID: 1, Username: "x"})
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestNewSessionTokenIssuer_EmptySecret(t *testing.T) {
	_, err := NewSessionTokenIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}
