package services

import (
	"chat-wire/auth"
	"chat-wire/domain"
	"chat-wire/errors"
	"chat-wire/repositories"
)

type IIdentityService interface {
	Authenticate(token string) (domain.UserIdentity, error)
}

// IdentityService resolves a connection-time bearer credential to a
// stable user identity. The identity stays attached to the connection
// for its whole lifetime; there is no mid-connection re-authentication.
type IdentityService struct {
	tokens *auth.TokenManager
	users  repositories.IUserRepository
}

func NewIdentityService(tokens *auth.TokenManager, users repositories.IUserRepository) *IdentityService {
	return &IdentityService{tokens: tokens, users: users}
}

// Authenticate validates the token and resolves the user behind it.
// Every failure collapses to ErrInvalidToken: a malformed, expired or
// orphaned credential all look the same to the caller.
func (s *IdentityService) Authenticate(token string) (domain.UserIdentity, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return domain.UserIdentity{}, errors.ErrInvalidToken
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return domain.UserIdentity{}, errors.ErrInvalidToken
	}

	return domain.UserIdentity{ID: user.ID, Username: user.Username}, nil
}
