package services

import (
	"testing"
	"time"

	"chat-wire/auth"
	"chat-wire/errors"
	"chat-wire/repositories"

	"github.com/stretchr/testify/require"
)

func TestIdentityService_Authenticate(t *testing.T) {
	req := require.New(t)
	users := repositories.NewUserRepository(openTestDB(t))
	tokens := testTokenManager()
	svc := NewIdentityService(tokens, users)

	alice, err := users.Create("alice", "alice@example.com", "hash")
	req.NoError(err)
	token, err := tokens.Generate(alice.ID)
	req.NoError(err)

	identity, err := svc.Authenticate(token)
	req.NoError(err)
	req.Equal(alice.ID, identity.ID)
	req.Equal("alice", identity.Username)
}

func TestIdentityService_RejectsBadCredentials(t *testing.T) {
	req := require.New(t)
	users := repositories.NewUserRepository(openTestDB(t))
	tokens := testTokenManager()
	svc := NewIdentityService(tokens, users)

	// Malformed token
	_, err := svc.Authenticate("not-a-jwt")
	req.ErrorIs(err, errors.ErrInvalidToken)

	// Expired token
	expired, err := auth.NewTokenManager("a-test-only-signing-secret", -time.Minute).Generate("whoever")
	req.NoError(err)
	_, err = svc.Authenticate(expired)
	req.ErrorIs(err, errors.ErrInvalidToken)

	// Valid signature but the user no longer exists
	orphan, err := tokens.Generate("deleted-user")
	req.NoError(err)
	_, err = svc.Authenticate(orphan)
	req.ErrorIs(err, errors.ErrInvalidToken)
}
