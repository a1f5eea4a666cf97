package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	adminUser, _ := env.user(t, "root", models.UserRoleAdmin)
	player, _ := env.user(t, "player", models.UserRoleUser)
	register(t, env, "fresh")

	_, err := env.admin.UpdateUserStatus(env.ctx, adminUser.ID, adminUser.ID, &UpdateUserStatusRequest{Status: models.UserStatusBanned})
	requireKind(t, err, utils.KindForbidden)

	_, err = env.admin.UpdateUserStatus(env.ctx, adminUser.ID, player.ID, &UpdateUserStatusRequest{Status: "frozen"})
	requireKind(t, err, utils.KindValidation)

	updated, err := env.admin.UpdateUserStatus(env.ctx, adminUser.ID, player.ID, &UpdateUserStatusRequest{Status: models.UserStatusSuspended, Reason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, updated.Status)

	var audits int64
	require.NoError(t, env.db.Model(&models.AuditLog{}).Where("action = ? AND resource_id = ?", "UPDATE_USER_STATUS", player.ID).Count(&audits).Error)
	assert.Equal(t, int64(1), audits)

	suspended, total, err := env.admin.GetUsers(env.ctx, AdminUserFilter{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
		Status:           string(models.UserStatusSuspended),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, player.ID, suspended[0].ID)

	admins, total, err := env.admin.GetUsers(env.ctx, AdminUserFilter{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 10},
		Role:             string(models.UserRoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "root", admins[0].Username)

	stats, err := env.admin.GetDashboardStats(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.UnverifiedUsers)
}

func TestAdminTaxonomy(t *testing.T) {
	env := newTestEnv(t)

	game, err := env.admin.CreateGame(env.ctx, &CreateGameRequest{Slug: "stardew", Title: "Stardew Valley"})
	require.NoError(t, err)

	_, err = env.admin.CreateGame(env.ctx, &CreateGameRequest{Slug: "stardew", Title: "Again"})
	requireKind(t, err, utils.KindConflict)
	_, err = env.admin.CreateGame(env.ctx, &CreateGameRequest{Slug: "Bad Slug", Title: "Bad"})
	requireKind(t, err, utils.KindValidation)

	section, err := env.admin.CreateSection(env.ctx, "stardew", &CreateSectionRequest{
		Slug:         "mods",
		Name:         "Mods",
		FilterConfig: []models.FilterField{{Key: "framework", Label: "Framework", Options: []string{"smapi"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, game.ID, section.GameID)

	_, err = env.admin.CreateSection(env.ctx, "stardew", &CreateSectionRequest{Slug: "mods", Name: "Dup"})
	requireKind(t, err, utils.KindConflict)
	_, err = env.admin.CreateSection(env.ctx, "nope", &CreateSectionRequest{Slug: "mods", Name: "Mods"})
	requireKind(t, err, utils.KindNotFound)

	name := "Mods & Tools"
	updated, err := env.admin.UpdateSection(env.ctx, section.ID, &UpdateSectionRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.Len(t, updated.FilterConfig, 1, "untouched filter config survives")

	_, err = env.admin.UpdateSection(env.ctx, section.ID, &UpdateSectionRequest{})
	requireKind(t, err, utils.KindValidation)

	found, err := env.catalog.GetSection(env.ctx, "stardew", "mods")
	require.NoError(t, err)
	assert.Equal(t, section.ID, found.ID)
}
