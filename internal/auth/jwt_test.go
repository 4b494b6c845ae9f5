package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret-key-for-testing-purposes", 72*time.Hour)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenService_Validate_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", -1*time.Minute)

	token, err := svc.Generate(7)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Validate_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-one", time.Hour).Generate(7)
	require.NoError(t, err)

	_, err = NewTokenService("secret-two", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Validate_Garbage(t *testing.T) {
	svc := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "definitely-not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}
