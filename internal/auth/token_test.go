package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", 30)

	token, exp, err := tm.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "u1@example.com", claims.Email)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", 30)
	verifier := auth.NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := auth.NewTokenManager("secret", 30)
	_, err := tm.ParseToken("not-a-jwt")
	require.Error(t, err)
}
