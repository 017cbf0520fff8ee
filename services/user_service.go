package services

import (
	"encoding/base64"
	"sort"
	"strings"

	"chat-wire/auth"
	"chat-wire/errors"
	"chat-wire/repositories"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

// Decoded avatar payloads larger than this are rejected outright.
const maxAvatarBytes = 10 << 20

type IUserService interface {
	Me(userID string) (repositories.User, error)
	UpdateProfile(userID string, update repositories.ProfileUpdate) (repositories.User, error)
	List(requesterID string) ([]repositories.User, error)
}

type UserService struct {
	users repositories.IUserRepository
}

func NewUserService(users repositories.IUserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Me(userID string) (repositories.User, error) {
	return s.users.GetByID(userID)
}

// UpdateProfile applies a partial profile edit. Presence is not
// editable here; it belongs to the presence tracker.
func (s *UserService) UpdateProfile(userID string, update repositories.ProfileUpdate) (repositories.User, error) {
	upd := auth.ProfileUpdate{}
	if update.Username != nil {
		upd.Username = strings.TrimSpace(*update.Username)
	}
	if update.Email != nil {
		upd.Email = strings.TrimSpace(*update.Email)
	}
	if err := auth.ValidateProfileUpdate(upd); err != nil {
		return repositories.User{}, err
	}

	if update.Avatar != nil {
		if err := validateAvatar(*update.Avatar); err != nil {
			return repositories.User{}, err
		}
	}

	return s.users.UpdateProfile(userID, update)
}

// List returns every profile except the requester's, sorted by
// username — the contact list the client renders.
func (s *UserService) List(requesterID string) ([]repositories.User, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, err
	}
	contacts := lo.Filter(users, func(u repositories.User, _ int) bool {
		return u.ID != requesterID
	})
	sort.Slice(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Username) < strings.ToLower(contacts[j].Username)
	})
	return contacts, nil
}

// validateAvatar accepts an empty value (clears the picture), a plain
// URL, or an inline base64 image, optionally wrapped in a data URI.
// Inline payloads must detect as an image content type.
func validateAvatar(avatar string) error {
	if avatar == "" ||
		strings.HasPrefix(avatar, "http://") ||
		strings.HasPrefix(avatar, "https://") {
		return nil
	}

	payload := avatar
	if strings.HasPrefix(avatar, "data:") {
		_, after, found := strings.Cut(avatar, ",")
		if !found {
			return errors.ErrInvalidAvatar
		}
		payload = after
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return errors.ErrInvalidAvatar
	}
	if len(data) > maxAvatarBytes {
		return errors.ErrInvalidAvatar
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return errors.ErrInvalidAvatar
	}
	return nil
}
