package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "identity-test-secret"

func TestJWTVerifier_Verify(t *testing.T) {
	verifier := NewJWTVerifier(testSecret, "", "authenticated")

	token, err := IssueToken(testSecret, "ext-1", " Mixed@Case.COM ", "authenticated", time.Hour)
	require.NoError(t, err)

	principal, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ext-1", principal.ExternalID)
	assert.Equal(t, "mixed@case.com", principal.Email)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	verifier := NewJWTVerifier(testSecret, "", "authenticated")

	wrongSecret, err := IssueToken("other-secret", "ext-1", "a@test.com", "authenticated", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "ext-1", "a@test.com", "authenticated", -time.Minute)
	require.NoError(t, err)
	wrongAudience, err := IssueToken(testSecret, "ext-1", "a@test.com", "anon", time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not.a.token",
		"wrong secret":   wrongSecret,
		"expired":        expired,
		"wrong audience": wrongAudience,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestIssueToken_RequiresSubject(t *testing.T) {
	_, err := IssueToken(testSecret, "", "a@test.com", "", time.Hour)
	assert.Error(t, err)
}
