package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password must not match
	match, err = ComparePassword("wrong password", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	req := require.New(t)
	_, err := ComparePassword("whatever", "not-a-hash")
	req.Error(err)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"alice", "alice@example.com", "secret1"}, false},
		{"Username too short", RegisterRequest{"al", "alice@example.com", "secret1"}, true},
		{"Username too long", RegisterRequest{strings.Repeat("a", 31), "alice@example.com", "secret1"}, true},
		{"Invalid email", RegisterRequest{"alice", "notanemail", "secret1"}, true},
		{"Password too short", RegisterRequest{"alice", "alice@example.com", "short"}, true},
		{"Password too long", RegisterRequest{"alice", "alice@example.com", strings.Repeat("a", 73)}, true},
		{"Missing username", RegisterRequest{"", "alice@example.com", "secret1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("a-test-only-signing-secret", time.Hour)

	token, err := manager.Generate("user-123")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := manager.Validate(token)
	req.NoError(err)
	req.Equal("user-123", claims.UserID)
	req.Equal("chat-wire", claims.Issuer)
}

func TestTokenManager_RejectsForeignAndExpired(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("a-test-only-signing-secret", time.Hour)

	// Token signed with another key
	other := NewTokenManager("a-different-secret", time.Hour)
	foreign, err := other.Generate("user-123")
	req.NoError(err)
	_, err = manager.Validate(foreign)
	req.Error(err)

	// Expired token
	expiring := NewTokenManager("a-test-only-signing-secret", -time.Minute)
	expired, err := expiring.Generate("user-123")
	req.NoError(err)
	_, err = manager.Validate(expired)
	req.Error(err)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("a-long-enough-password-for-bench")
	}
}
