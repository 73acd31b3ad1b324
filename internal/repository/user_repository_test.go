package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"scribefinder/internal/db/dbtest"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
)

func newUser(username, email string, role model.Role) *model.User {
	return &model.User{Username: username, Email: email, PasswordHash: "hash", Role: role}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	ctx := context.Background()

	alice := newUser("alice", "alice@x.com", model.RoleBlind)
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotZero(t, alice.ID)
	assert.Equal(t, model.DefaultImageFile, alice.ImageFile)

	byEmail, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)
	assert.Equal(t, model.RoleBlind, byEmail.Role)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	all, err := repo.FindAllByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := repo.FindAllByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice", "alice@x.com", model.RoleBlind)))

	err := repo.Create(ctx, newUser("alice2", "alice@x.com", model.RoleScribe))
	assert.Error(t, err)
	err = repo.Create(ctx, newUser("alice", "other@x.com", model.RoleScribe))
	assert.Error(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.Open(t))
	ctx := context.Background()

	bob := newUser("bob", "bob@x.com", model.RoleScribe)
	require.NoError(t, repo.Create(ctx, bob))

	bob.Username = "bobby"
	bob.ImageFile = "abc.png"
	require.NoError(t, repo.Update(ctx, bob))

	got, err := repo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bobby", got.Username)
	assert.Equal(t, "abc.png", got.ImageFile)

	require.NoError(t, repo.Delete(ctx, bob.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, bob.ID), gorm.ErrRecordNotFound))
}
