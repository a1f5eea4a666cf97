package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

func TestPublicProfile(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.user(t, "author", models.UserRoleUser)
	mods := env.section(t, "skyrim", "mods")
	env.item(t, mods, author, "a", itemOpts{})
	env.item(t, mods, author, "b", itemOpts{})
	env.item(t, mods, author, "c", itemOpts{status: models.ItemStatusDraft})

	profile, err := env.users.GetPublicProfile(env.ctx, "author")
	require.NoError(t, err)
	assert.Equal(t, "author", profile.Username)
	assert.Equal(t, int64(2), profile.ItemCount)

	items, total, err := env.users.ListPublishedItems(env.ctx, "author", utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	_, err = env.users.GetPublicProfile(env.ctx, "ghost")
	requireKind(t, err, utils.KindNotFound)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.user(t, "player", models.UserRoleUser)

	_, err := env.users.UpdateProfile(env.ctx, user.ID, &UpdateUserProfileRequest{})
	requireKind(t, err, utils.KindValidation)

	badURL := "not a url"
	_, err = env.users.UpdateProfile(env.ctx, user.ID, &UpdateUserProfileRequest{AvatarURL: &badURL})
	requireKind(t, err, utils.KindValidation)

	bio := "I make texture packs"
	links := []models.Link{{Label: "Nexus", URL: "https://nexusmods.com/u/player"}}
	updated, err := env.users.UpdateProfile(env.ctx, user.ID, &UpdateUserProfileRequest{Bio: &bio, Links: &links})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	require.Len(t, updated.Links, 1)
	assert.Equal(t, "Nexus", updated.Links[0].Label)
	assert.Equal(t, "player", updated.DisplayName)
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.user(t, "player", models.UserRoleUser)

	_, err := env.users.UploadAvatar(env.ctx, user.ID, "me.txt", "text/plain", strings.NewReader("x"))
	requireKind(t, err, utils.KindValidation)

	updated, err := env.users.UploadAvatar(env.ctx, user.ID, "me.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Contains(t, updated.AvatarURL, "avatars/"+user.ID.String()+"/")
	assert.Equal(t, 1, env.store.Len())
}

func TestDeleteExpiredUnverified(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.user(t, "author", models.UserRoleUser)
	item := env.item(t, env.section(t, "skyrim", "mods"), author, "mod", itemOpts{})

	expired := register(t, env, "expired")
	pending := register(t, env, "pending")
	require.NoError(t, env.db.Model(expired).UpdateColumn("verification_expires_at", time.Now().Add(-time.Hour)).Error)

	expiredActor := &Actor{ID: expired.ID, Role: models.UserRoleUser}
	_, err := env.likes.Like(env.ctx, expiredActor, item.ID)
	require.NoError(t, err)
	require.NoError(t, env.likes.AddFavorite(env.ctx, expiredActor, item.ID))
	own := env.item(t, env.section(t, "skyrim", "saves"), expired, "own", itemOpts{})
	assert.Equal(t, int64(1), env.reload(t, item).Stats.Likes)

	removed, err := env.users.DeleteExpiredUnverified(env.ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = env.users.GetUserByID(env.ctx, expired.ID)
	requireKind(t, err, utils.KindNotFound)
	_, err = env.users.GetUserByID(env.ctx, pending.ID)
	assert.NoError(t, err, "still inside the window")
	_, err = env.users.GetUserByID(env.ctx, author.ID)
	assert.NoError(t, err, "verified accounts are never touched")

	assert.Equal(t, int64(0), env.reload(t, item).Stats.Likes)
	assert.Nil(t, env.reload(t, own).AuthorID, "items survive without an author")

	var favorites int64
	require.NoError(t, env.db.Model(&models.Favorite{}).Where("user_id = ?", expired.ID).Count(&favorites).Error)
	assert.Zero(t, favorites)

	removed, err = env.users.DeleteExpiredUnverified(env.ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
