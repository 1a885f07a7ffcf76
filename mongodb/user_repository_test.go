//go:build mongodb

package mongodb_test

import (
	"context"
	"testing"

	"github.com/pilab-dev/osm-auth/domain"
	"github.com/pilab-dev/osm-auth/mongodb"
	"github.com/pilab-dev/osm-auth/mongodb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestMongoDB(t, "osm_auth_users")

	repo, err := mongodb.NewUserRepository(ctx, db)
	require.NoError(t, err)

	_, err = repo.FindByUsername(ctx, "test_user")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	email := "test_email"
	user := &domain.User{
		ID:             1234,
		Username:       "test_user",
		EmailAddress:   &email,
		ChangesetCount: 3,
		PictureURL:     "test_href",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, 1234)
	require.NoError(t, err)
	assert.Equal(t, "test_user", byID.Username)
	require.NotNil(t, byID.EmailAddress)
	assert.Equal(t, "test_email", *byID.EmailAddress)

	byName, err := repo.FindByUsername(ctx, "test_user")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), byName.ID)

	err = repo.Create(ctx, &domain.User{ID: 1234, Username: "other"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestMongoDB(t, "osm_auth_users_update")

	repo, err := mongodb.NewUserRepository(ctx, db)
	require.NoError(t, err)

	err = repo.Update(ctx, &domain.User{ID: 99, Username: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	user := &domain.User{ID: 7, Username: "before"}
	require.NoError(t, repo.Create(ctx, user))

	user.Username = "after"
	user.ChangesetCount = 10
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Username)
	assert.Equal(t, 10, stored.ChangesetCount)

	_, err = repo.FindByID(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMessageRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestMongoDB(t, "osm_auth_messages")

	repo, err := mongodb.NewMessageRepository(ctx, db)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, &domain.Message{ID: "m1", ToUserID: 5, Subject: "hi"}))
	require.NoError(t, repo.Create(ctx, &domain.Message{ID: "m2", ToUserID: 5, Subject: "again"}))

	count, err := repo.CountForUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountForUser(ctx, 6)
	require.NoError(t, err)
	assert.Zero(t, count)
}
