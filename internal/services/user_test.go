package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verzia/verzia/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "alice", "alice@x.com", "pw1")
	env.register(t, "bob", "bob@x.com", "pw2")

	_, err := env.users.Register(ctx, &RegisterRequest{
		Username: "alice", Email: "other@x.com", Password: "pw3",
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = env.users.Register(ctx, &RegisterRequest{
		Username: "carol", Email: "alice@x.com", Password: "pw3",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "alice", "alice@x.com", "secret-pw")
	assert.NotEqual(t, "secret-pw", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pw")))
}

func TestAuthenticateByUsernameOrEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "alice", "alice@x.com", "pw1")

	byUsername, err := env.users.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byUsername.Username)

	byEmail, err := env.users.Authenticate(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, byUsername.ID, byEmail.ID)

	// The failure kind never reveals which check missed.
	_, err = env.users.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.users.Authenticate(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangeCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	env.register(t, "bob", "bob@x.com", "pw2")

	_, err := env.users.ChangeCredentials(ctx, alice.ID, &ChangeCredentialsRequest{
		CurrentPassword: "wrong", NewUsername: "alice2",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = env.users.ChangeCredentials(ctx, alice.ID, &ChangeCredentialsRequest{
		CurrentPassword: "pw1", NewUsername: "bob",
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	updated, err := env.users.ChangeCredentials(ctx, alice.ID, &ChangeCredentialsRequest{
		CurrentPassword: "pw1", NewUsername: "alice2", NewPassword: "pw-new",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	_, err = env.users.Authenticate(ctx, "alice2", "pw-new")
	assert.NoError(t, err)
	_, err = env.users.Authenticate(ctx, "alice2", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFollowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	bob := env.register(t, "bob", "bob@x.com", "pw2")

	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))

	following, err := env.users.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Following twice leaves exactly one edge.
	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))
	count, err := env.followRepo.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, env.users.Unfollow(ctx, alice.ID, bob.ID))
	following, err = env.users.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing a missing edge is not an error.
	require.NoError(t, env.users.Unfollow(ctx, alice.ID, bob.ID))
}

func TestFollowSelfFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")

	assert.ErrorIs(t, env.users.Follow(ctx, alice.ID, alice.ID), ErrSelfFollow)

	count, err := env.followRepo.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestFollowNotifiesTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	bob := env.register(t, "bob", "bob@x.com", "pw2")

	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))

	notifications, err := env.notification.ListRecent(ctx, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationFollow, notifications[0].Kind)
	assert.Equal(t, "alice", notifications[0].SenderUsername)
	assert.Equal(t, bob.ID, notifications[0].RecipientID)

	// The actor never notifies themselves.
	actorSide, err := env.notification.ListRecent(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, actorSide)
}

func TestProfileCountsAreDerived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	bob := env.register(t, "bob", "bob@x.com", "pw2")
	carol := env.register(t, "carol", "carol@x.com", "pw3")

	require.NoError(t, env.users.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, env.users.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, env.users.Follow(ctx, alice.ID, bob.ID))
	env.addPhoto(t, &models.Photo{OwnerID: alice.ID, Filename: "a.png"})

	profile, err := env.users.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.Followers)
	assert.Equal(t, int64(1), profile.Following)
	assert.Equal(t, int64(1), profile.Photos)
}
