package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verzia/verzia/internal/models"
)

func TestToggleLikeFlipsState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	bob := env.register(t, "bob", "bob@x.com", "pw2")
	photo := env.addPhoto(t, &models.Photo{OwnerID: alice.ID, Filename: "cat.png"})

	result, count, err := env.likes.Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, Liked, result)
	assert.Equal(t, int64(1), count)

	liked, err := env.likes.HasLiked(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	result, count, err = env.likes.Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, Unliked, result)
	assert.Equal(t, int64(0), count)

	liked, err = env.likes.HasLiked(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLikeNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	bob := env.register(t, "bob", "bob@x.com", "pw2")
	photo := env.addPhoto(t, &models.Photo{OwnerID: alice.ID, Filename: "cat.png"})

	_, _, err := env.likes.Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)

	notifications, err := env.notification.ListRecent(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationLike, notifications[0].Kind)
	assert.Equal(t, "bob", notifications[0].SenderUsername)
	require.NotNil(t, notifications[0].PhotoID)
	assert.Equal(t, photo.ID, *notifications[0].PhotoID)

	unread, err := env.notification.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// Unliking does not retract the notification.
	_, _, err = env.likes.Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	notifications, err = env.notification.ListRecent(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestSelfLikeSkipsNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	photo := env.addPhoto(t, &models.Photo{OwnerID: alice.ID, Filename: "cat.png"})

	result, count, err := env.likes.Toggle(ctx, alice.ID, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, Liked, result)
	assert.Equal(t, int64(1), count)

	notifications, err := env.notification.ListRecent(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestToggleLikeMissingPhoto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")

	_, _, err := env.likes.Toggle(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
