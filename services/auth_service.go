package services

import (
	"fmt"
	"strings"

	"chat-wire/auth"
	"chat-wire/domain"
	"chat-wire/errors"
	"chat-wire/repositories"
)

type IAuthService interface {
	Register(username, email, password string) (Token, repositories.User, error)
	Login(identifier, password string) (Token, repositories.User, error)
	Logout(userID string) error
}

type Token string

type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates an account and opens a session: the new user is
// marked online immediately, matching the client flow where
// registration lands you in the chat.
func (s *AuthService) Register(username, email, password string) (Token, repositories.User, error) {
	valReq := auth.RegisterRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}

	// Business rules first, before any expensive cryptographic work.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", repositories.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens in the service layer to keep the repository
	// unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", repositories.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.Create(valReq.Username, valReq.Email, hashedPassword)
	if err != nil {
		return "", repositories.User{}, err // propagates ErrUserAlreadyExists
	}

	if err := s.users.SetStatus(user.ID, domain.StatusOnline); err == nil {
		user.Status = domain.StatusOnline
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", repositories.User{}, errors.ErrTokenGeneration
	}

	return Token(token), user, nil
}

// Login accepts either a username or an email as identifier, the way
// the login form does.
func (s *AuthService) Login(identifier, password string) (Token, repositories.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user repositories.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(identifier)
	} else {
		user, err = s.users.GetByUsername(identifier)
	}
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", repositories.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", repositories.User{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", repositories.User{}, errors.ErrTokenGeneration
	}

	if err := s.users.SetStatus(user.ID, domain.StatusOnline); err == nil {
		user.Status = domain.StatusOnline
	}

	return Token(token), user, nil
}

// Logout flips the persisted presence to offline. The websocket, if
// still open, is torn down by the client; the presence tracker handles
// the disconnect race via the registry epoch.
func (s *AuthService) Logout(userID string) error {
	return s.users.SetStatus(userID, domain.StatusOffline)
}
