package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
)

func TestUserCreateAndFind(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	user := &models.User{Email: "demo@bookstore.com", PasswordHash: "hash", Name: "Demo User"}
	require.NoError(t, repo.Create(user))
	require.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail("demo@bookstore.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", byID.Name)
}

func TestUserFindMissing(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	_, err := repo.FindByEmail("ghost@bookstore.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByID(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserUpdate(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	user := &models.User{Email: "demo@bookstore.com", PasswordHash: "hash", Name: "Demo User"}
	require.NoError(t, repo.Create(user))

	user.Address = "456 New Street"
	require.NoError(t, repo.Update(user))

	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "456 New Street", got.Address)
}
