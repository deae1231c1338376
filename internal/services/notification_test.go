package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verzia/verzia/internal/models"
)

func (e *testEnv) addNotification(t *testing.T, n *models.Notification) *models.Notification {
	t.Helper()

	require.NoError(t, e.notificationRepo.Create(context.Background(), n))
	return n
}

func TestListRecentNewestFirstWithLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		env.addNotification(t, &models.Notification{
			RecipientID:    alice.ID,
			SenderUsername: "bob",
			Kind:           models.NotificationFollow,
			Message:        fmt.Sprintf("event %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
	}

	rows, err := env.notification.ListRecent(ctx, alice.ID, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "event 4", rows[0].Message)
	assert.Equal(t, "event 3", rows[1].Message)
	assert.Equal(t, "event 2", rows[2].Message)

	// A non-positive limit falls back to the default page size.
	rows, err = env.notification.ListRecent(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	for i := 0; i < 3; i++ {
		env.addNotification(t, &models.Notification{
			RecipientID:    alice.ID,
			SenderUsername: "bob",
			Kind:           models.NotificationLike,
			Message:        "bob liked your photo",
			CreatedAt:      time.Now(),
		})
	}

	unread, err := env.notification.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	marked, err := env.notification.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)

	unread, err = env.notification.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// Second pass finds nothing left to flip.
	marked, err = env.notification.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked)
}

func TestDeleteNotificationRecipientOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	bob := env.register(t, "bob", "bob@x.com", "pw2")

	n := env.addNotification(t, &models.Notification{
		RecipientID:    alice.ID,
		SenderUsername: "bob",
		Kind:           models.NotificationFollow,
		Message:        "bob started following you",
		CreatedAt:      time.Now(),
	})

	assert.ErrorIs(t, env.notification.Delete(ctx, bob.ID, n.ID), ErrForbidden)
	require.NoError(t, env.notification.Delete(ctx, alice.ID, n.ID))
	assert.ErrorIs(t, env.notification.Delete(ctx, alice.ID, n.ID), ErrNotFound)
	assert.ErrorIs(t, env.notification.Delete(ctx, alice.ID, uuid.New()), ErrNotFound)
}
