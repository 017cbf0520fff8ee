package repositories

import (
	"testing"

	"chat-wire/domain"
	"chat-wire/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Create_And_Lookup_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.Create("Alice", "Alice@Example.com", "hash")
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal("Alice", created.Username)
	req.Equal("alice@example.com", created.Email)
	req.Equal(domain.StatusOffline, created.Status)

	byID, err := repository.GetByID(created.ID)
	req.NoError(err)
	req.Equal(created, byID)

	byName, err := repository.GetByUsername("alice")
	req.NoError(err)
	req.Equal(created.ID, byName.ID)

	byEmail, err := repository.GetByEmail("ALICE@example.com")
	req.NoError(err)
	req.Equal(created.ID, byEmail.ID)
}

func Test_Create_Rejects_Duplicates(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.Create("alice", "alice@example.com", "hash")
	req.NoError(err)

	_, err = repository.Create("alice", "other@example.com", "hash")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	_, err = repository.Create("other", "alice@example.com", "hash")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Lookup_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetByID("missing")
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repository.GetByUsername("missing")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func Test_List_Sorted_By_Username(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	for _, name := range []string{"clara", "Alice", "bob"} {
		_, err := repository.Create(name, name+"@example.com", "hash")
		req.NoError(err)
	}

	users, err := repository.List()
	req.NoError(err)
	usernames := lo.Map(users, func(u User, _ int) string { return u.Username })
	req.Equal([]string{"Alice", "bob", "clara"}, usernames)
}

func Test_UpdateProfile_Moves_Indexes(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.Create("alice", "alice@example.com", "hash")
	req.NoError(err)

	updated, err := repository.UpdateProfile(created.ID, ProfileUpdate{
		Username: lo.ToPtr("alicia"),
		Avatar:   lo.ToPtr("data:image/png;base64,xyz"),
	})
	req.NoError(err)
	req.Equal("alicia", updated.Username)
	req.Equal("data:image/png;base64,xyz", updated.Avatar)

	// The old username is free again, the new one resolves
	_, err = repository.GetByUsername("alice")
	req.ErrorIs(err, errors.ErrUserNotFound)
	byName, err := repository.GetByUsername("alicia")
	req.NoError(err)
	req.Equal(created.ID, byName.ID)
}

func Test_UpdateProfile_Rejects_Taken_Username(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.Create("alice", "alice@example.com", "hash")
	req.NoError(err)
	bob, err := repository.Create("bob", "bob@example.com", "hash")
	req.NoError(err)

	_, err = repository.UpdateProfile(bob.ID, ProfileUpdate{Username: lo.ToPtr("alice")})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_SetStatus_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.Create("alice", "alice@example.com", "hash")
	req.NoError(err)

	req.NoError(repository.SetStatus(created.ID, domain.StatusOnline))
	req.NoError(repository.SetStatus(created.ID, domain.StatusOnline))

	user, err := repository.GetByID(created.ID)
	req.NoError(err)
	req.Equal(domain.StatusOnline, user.Status)
}
