package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verzia/verzia/internal/models"
)

func TestSiteInfoDefaultsToEmpty(t *testing.T) {
	env := newTestEnv(t)

	info, err := env.siteInfo.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, info.ContactEmail)
	assert.Empty(t, info.ContactPhone)
}

func TestSiteInfoUpdateIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "alice@x.com", "pw1")
	admin := env.register(t, "root", "root@x.com", "pw2")
	admin.IsAdmin = true
	require.NoError(t, env.userRepo.Update(ctx, admin))

	err := env.siteInfo.Update(ctx, alice.ID, &models.SiteInfo{ContactEmail: "nope@x.com"})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.siteInfo.Update(ctx, admin.ID, &models.SiteInfo{
		ContactEmail:   "hello@verzia.example",
		ContactPhone:   "555-0100",
		ContactAddress: "1 Gallery St",
	}))

	info, err := env.siteInfo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello@verzia.example", info.ContactEmail)
	assert.Equal(t, "555-0100", info.ContactPhone)

	// Upsert keeps a single row.
	require.NoError(t, env.siteInfo.Update(ctx, admin.ID, &models.SiteInfo{
		ContactEmail: "updated@verzia.example",
	}))
	info, err = env.siteInfo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "updated@verzia.example", info.ContactEmail)

	var count int64
	require.NoError(t, env.db.Model(&models.SiteInfo{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
