package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/auth"
)

// fakeUserStore keeps users in a map so service logic is tested without a
// database.
type fakeUserStore struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]models.User{}}
}

func (s *fakeUserStore) FindByEmail(email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByID(id uint) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Create(user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) Update(user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	user, err := svc.Register("  Demo@Bookstore.COM ", "demo123", "Demo User", "123 Demo Street")
	require.NoError(t, err)

	assert.Equal(t, "demo@bookstore.com", user.Email)
	assert.NotEqual(t, "demo123", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "demo123"))
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	_, err := svc.Register("not-an-email", "demo123", "Demo", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	_, err := svc.Register("demo@bookstore.com", "demo123", "Demo", "")
	require.NoError(t, err)

	// Same address in a different case is still a duplicate.
	_, err = svc.Register("DEMO@bookstore.com", "other", "Other", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuthenticate(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	_, err := svc.Register("demo@bookstore.com", "demo123", "Demo User", "")
	require.NoError(t, err)

	user, token, err := svc.Authenticate("Demo@Bookstore.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", user.Name)
	assert.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	_, err := svc.Register("demo@bookstore.com", "demo123", "Demo User", "")
	require.NoError(t, err)

	_, _, badPass := svc.Authenticate("demo@bookstore.com", "wrong")
	_, _, noUser := svc.Authenticate("ghost@bookstore.com", "demo123")

	assert.ErrorIs(t, badPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
}

func TestUpdateProfileKeepsBlankFields(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store)
	created, err := svc.Register("demo@bookstore.com", "demo123", "Demo User", "123 Demo Street")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(created.ID, "New Name", "", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "123 Demo Street", updated.Address)
	assert.True(t, auth.CheckPassword(updated.PasswordHash, "demo123"))

	updated, err = svc.UpdateProfile(created.ID, "", "", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.True(t, auth.CheckPassword(updated.PasswordHash, "newpass1"))
}
