package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"scribefinder/internal/db/dbtest"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
)

type fixture struct {
	users    repository.UserRepository
	requests repository.ScribeRequestRepository
	alice    *model.User
	bob      *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB := dbtest.Open(t)
	f := &fixture{
		users:    repository.NewUserRepository(gormDB),
		requests: repository.NewScribeRequestRepository(gormDB),
		alice:    newUser("alice", "alice@x.com", model.RoleBlind),
		bob:      newUser("bob", "bob@x.com", model.RoleScribe),
	}
	require.NoError(t, f.users.Create(context.Background(), f.alice))
	require.NoError(t, f.users.Create(context.Background(), f.bob))
	return f
}

func (f *fixture) post(t *testing.T, owner *model.User, createdAt time.Time) *model.ScribeRequest {
	t.Helper()
	req := &model.ScribeRequest{
		UserID:      owner.ID,
		ExamDate:    "2024-06-01",
		PhoneNumber: "555-1234",
		Address:     fmt.Sprintf("%d Main St", createdAt.Unix()%1000),
		CreatedAt:   createdAt,
	}
	require.NoError(t, f.requests.Create(context.Background(), req))
	return req
}

func TestScribeRequestRepository_CreateFindUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.post(t, f.alice, time.Now())
	assert.Equal(t, model.RequestStatusOpen, created.Status)

	got, err := f.requests.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)
	assert.Equal(t, "2024-06-01", got.ExamDate)

	got.ExamDate = "2024-07-01"
	got.Address = "9 Elm St"
	got.UserID = f.bob.ID // ignored: owner is immutable
	require.NoError(t, f.requests.Update(ctx, got))

	updated, err := f.requests.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", updated.ExamDate)
	assert.Equal(t, "9 Elm St", updated.Address)
	assert.Equal(t, f.alice.ID, updated.UserID)

	require.NoError(t, f.requests.Delete(ctx, created.ID))
	_, err = f.requests.FindByID(ctx, created.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.True(t, errors.Is(f.requests.Delete(ctx, created.ID), gorm.ErrRecordNotFound))
}

func TestScribeRequestRepository_ListNewestFirstWithoutOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		owner := f.alice
		if i%3 == 0 {
			owner = f.bob
		}
		f.post(t, owner, base.Add(time.Duration(i)*time.Minute))
	}

	seen := map[uint]bool{}
	var last time.Time
	for page := 0; page < 3; page++ {
		items, total, err := f.requests.List(ctx, page*model.DefaultPerPage, model.DefaultPerPage)
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		for _, item := range items {
			assert.False(t, seen[item.ID], "id %d repeated", item.ID)
			seen[item.ID] = true
			if !last.IsZero() {
				assert.True(t, item.CreatedAt.Before(last), "not strictly descending")
			}
			last = item.CreatedAt
			assert.NotNil(t, item.Author)
		}
	}
	assert.Len(t, seen, 12)

	bobs, total, err := f.requests.ListByUser(ctx, f.bob.ID, 0, model.DefaultPerPage)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, bobs, 4)
	for _, item := range bobs {
		assert.Equal(t, f.bob.ID, item.UserID)
	}
}

func TestScribeRequestRepository_MarkAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.post(t, f.alice, time.Now())

	ok, err := f.requests.MarkAccepted(ctx, req.ID, f.bob.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.requests.MarkAccepted(ctx, req.ID, f.bob.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := f.requests.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, got.Status)
	require.NotNil(t, got.AcceptedByID)
	assert.Equal(t, f.bob.ID, *got.AcceptedByID)
	assert.NotNil(t, got.AcceptedAt)
}

func TestScribeRequestRepository_TransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.post(t, f.alice, time.Now())

	boom := errors.New("boom")
	err := f.requests.WithTransaction(ctx, func(ctx context.Context, tx repository.ScribeRequestRepository) error {
		ok, err := tx.MarkAccepted(ctx, req.ID, f.bob.ID, time.Now())
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.requests.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusOpen, got.Status)
	assert.Nil(t, got.AcceptedByID)
}
