package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

func notificationsFor(t *testing.T, env *testEnv, user *models.User) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, env.db.Where("user_id = ?", user.ID).Find(&list).Error)
	return list
}

func TestLikeToggle(t *testing.T) {
	env := newTestEnv(t)
	author, authorActor := env.user(t, "author", models.UserRoleUser)
	_, fan := env.user(t, "fan", models.UserRoleUser)
	item := env.item(t, env.section(t, "skyrim", "mods"), author, "mod", itemOpts{})

	state, err := env.likes.Like(env.ctx, fan, item.ID)
	require.NoError(t, err)
	assert.True(t, state.IsLiked)
	assert.Equal(t, int64(1), state.Likes)

	state, err = env.likes.Like(env.ctx, fan, item.ID)
	require.NoError(t, err, "liking twice is a no-op")
	assert.Equal(t, int64(1), state.Likes)

	notes := notificationsFor(t, env, author)
	require.Len(t, notes, 1, "author notified once")
	assert.Equal(t, NotificationItemLiked, notes[0].Type)

	_, err = env.likes.Like(env.ctx, authorActor, item.ID)
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, env, author), 1, "self likes are silent")
	assert.Equal(t, int64(2), env.reload(t, item).Stats.Likes)

	state, err = env.likes.Unlike(env.ctx, fan, item.ID)
	require.NoError(t, err)
	assert.False(t, state.IsLiked)
	assert.Equal(t, int64(1), state.Likes)

	state, err = env.likes.Unlike(env.ctx, fan, item.ID)
	require.NoError(t, err, "unliking twice is a no-op")
	assert.Equal(t, int64(1), state.Likes)

	state, err = env.likes.State(env.ctx, authorActor, item.ID)
	require.NoError(t, err)
	assert.True(t, state.IsLiked)
}

func TestLikeHiddenItem(t *testing.T) {
	env := newTestEnv(t)
	author, authorActor := env.user(t, "author", models.UserRoleUser)
	_, fan := env.user(t, "fan", models.UserRoleUser)
	item := env.item(t, env.section(t, "skyrim", "mods"), author, "wip", itemOpts{status: models.ItemStatusDraft})

	_, err := env.likes.Like(env.ctx, fan, item.ID)
	requireKind(t, err, utils.KindNotFound)

	_, err = env.likes.Like(env.ctx, authorActor, item.ID)
	require.NoError(t, err)
}

func TestFavorites(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.user(t, "author", models.UserRoleUser)
	_, fan := env.user(t, "fan", models.UserRoleUser)
	mods := env.section(t, "skyrim", "mods")
	first := env.item(t, mods, author, "first", itemOpts{})
	second := env.item(t, mods, author, "second", itemOpts{})

	require.NoError(t, env.likes.AddFavorite(env.ctx, fan, first.ID))
	require.NoError(t, env.likes.AddFavorite(env.ctx, fan, first.ID), "idempotent")
	require.NoError(t, env.likes.AddFavorite(env.ctx, fan, second.ID))

	params := utils.PaginationParams{Page: 1, Limit: 10}
	items, total, err := env.likes.ListFavorites(env.ctx, fan, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	_, err = env.items.UpdateStatus(env.ctx, second.ID, models.ItemStatusHidden)
	require.NoError(t, err)
	items, total, err = env.likes.ListFavorites(env.ctx, fan, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "hidden items drop out")
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)

	require.NoError(t, env.likes.RemoveFavorite(env.ctx, fan, first.ID))
	_, total, err = env.likes.ListFavorites(env.ctx, fan, params)
	require.NoError(t, err)
	assert.Zero(t, total)
}
