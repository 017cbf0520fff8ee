//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-wire/domain"
	"chat-wire/errors"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	Create(username, email, passwordHash string) (User, error)
	GetByID(id string) (User, error)
	GetByUsername(username string) (User, error)
	GetByEmail(email string) (User, error)
	List() ([]User, error)
	UpdateProfile(id string, update ProfileUpdate) (User, error)
	SetStatus(id string, status domain.PresenceStatus) error
}

// User is the stored profile record. PasswordHash never leaves the
// repository/service boundary.
type User struct {
	ID           string                `json:"id"`
	Username     string                `json:"username"`
	Email        string                `json:"email"`
	PasswordHash string                `json:"passwordHash"`
	Avatar       string                `json:"avatar"`
	Status       domain.PresenceStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// ProfileUpdate carries the mutable fields of a profile. Nil pointers
// mean "leave unchanged". Status is deliberately absent: presence is
// managed by the tracker, never by profile edits.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Avatar   *string
}

// UserRepository persists profiles in Badger. The primary record lives
// under "user:id:{id}"; "user:name:{username}" and "user:email:{email}"
// act as uniqueness indexes resolving to the ID. All three keys are
// written in a single transaction.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

func idKey(id string) []byte         { return []byte("user:id:" + id) }
func nameKey(username string) []byte { return []byte("user:name:" + strings.ToLower(username)) }
func emailKey(email string) []byte   { return []byte("user:email:" + strings.ToLower(email)) }

func (u *UserRepository) Create(username, email, passwordHash string) (User, error) {
	now := time.Now().UTC()
	user := User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Status:       domain.StatusOffline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	data, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey(user.Username)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if _, err := txn.Get(emailKey(user.Email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(nameKey(user.Username), []byte(user.ID)); err != nil {
			return err
		}
		if err := txn.Set(emailKey(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(idKey(user.ID), data)
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetByID(id string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		return loadUser(txn, id, &user)
	})
	return user, err
}

func (u *UserRepository) GetByUsername(username string) (User, error) {
	return u.getByIndex(nameKey(username))
}

func (u *UserRepository) GetByEmail(email string) (User, error) {
	return u.getByIndex(emailKey(email))
}

func (u *UserRepository) getByIndex(key []byte) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return errors.ErrUserNotFound
			}
			return err
		}
		return item.Value(func(id []byte) error {
			return loadUser(txn, string(id), &user)
		})
	})
	return user, err
}

// List returns every stored profile sorted by username.
func (u *UserRepository) List() ([]User, error) {
	var users []User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:id:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var user User
				if err := json.Unmarshal(value, &user); err != nil {
					return err
				}
				users = append(users, user)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return strings.ToLower(users[i].Username) < strings.ToLower(users[j].Username)
	})
	return users, nil
}

// UpdateProfile mutates username/email/avatar, keeping the uniqueness
// indexes consistent within the same transaction.
func (u *UserRepository) UpdateProfile(id string, update ProfileUpdate) (User, error) {
	var user User
	err := u.db.Update(func(txn *badger.Txn) error {
		if err := loadUser(txn, id, &user); err != nil {
			return err
		}

		if update.Username != nil && !strings.EqualFold(*update.Username, user.Username) {
			next := strings.TrimSpace(*update.Username)
			if taken(txn, nameKey(next)) {
				return errors.ErrUserAlreadyExists
			}
			if err := txn.Delete(nameKey(user.Username)); err != nil {
				return err
			}
			if err := txn.Set(nameKey(next), []byte(user.ID)); err != nil {
				return err
			}
			user.Username = next
		}

		if update.Email != nil && !strings.EqualFold(*update.Email, user.Email) {
			next := strings.ToLower(strings.TrimSpace(*update.Email))
			if taken(txn, emailKey(next)) {
				return errors.ErrUserAlreadyExists
			}
			if err := txn.Delete(emailKey(user.Email)); err != nil {
				return err
			}
			if err := txn.Set(emailKey(next), []byte(user.ID)); err != nil {
				return err
			}
			user.Email = next
		}

		if update.Avatar != nil {
			user.Avatar = *update.Avatar
		}

		user.UpdatedAt = time.Now().UTC()
		return saveUser(txn, user)
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// SetStatus persists a presence transition. Writing the same status
// twice is harmless, which keeps the tracker idempotent.
func (u *UserRepository) SetStatus(id string, status domain.PresenceStatus) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var user User
		if err := loadUser(txn, id, &user); err != nil {
			return err
		}
		user.Status = status
		user.UpdatedAt = time.Now().UTC()
		return saveUser(txn, user)
	})
}

func loadUser(txn *badger.Txn, id string, user *User) error {
	item, err := txn.Get(idKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}
	return item.Value(func(value []byte) error {
		return json.Unmarshal(value, user)
	})
}

func saveUser(txn *badger.Txn, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(idKey(user.ID), data)
}

func taken(txn *badger.Txn, key []byte) bool {
	_, err := txn.Get(key)
	return err == nil
}
