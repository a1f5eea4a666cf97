package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/cache"
	"github.com/javajoker/modhub-backend/internal/config"
	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/storage"
	"github.com/javajoker/modhub-backend/internal/utils"
)

const testPassword = "Secret123!"

type testEnv struct {
	ctx   context.Context
	db    *gorm.DB
	cfg   *config.Config
	store *storage.MemoryStore

	notifications *NotificationService
	items         *ItemService
	catalog       *CatalogService
	files         *FileService
	likes         *LikeService
	auth          *AuthService
	users         *UserService
	support       *SupportService
	admin         *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { database.Close(db) })

	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1, RefreshTokenTTL: 24},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
		Jobs:     config.JobsConfig{UnverifiedUserTTL: 24 * time.Hour},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	env := &testEnv{ctx: context.Background(), db: db, cfg: cfg, store: storage.NewMemoryStore()}
	env.notifications = NewNotificationService(db, cfg)
	env.items = NewItemService(db, env.store)
	env.catalog = NewCatalogService(db, env.items, cache.NewMemoryDeduper(time.Minute))
	env.files = NewFileService(db, env.store, env.items, time.Minute)
	env.likes = NewLikeService(db, env.items, env.notifications)
	env.auth = NewAuthService(db, cfg, env.notifications)
	env.users = NewUserService(db, env.store, env.items)
	env.support = NewSupportService(db, env.notifications)
	env.admin = NewAdminService(db, env.notifications)
	return env
}

func (e *testEnv) user(t *testing.T, username string, role models.UserRole) (*models.User, *Actor) {
	t.Helper()
	now := time.Now()
	u := &models.User{
		Username:        username,
		Email:           username + "@example.com",
		Role:            role,
		Status:          models.UserStatusActive,
		DisplayName:     username,
		EmailVerifiedAt: &now,
	}
	require.NoError(t, u.SetPassword(testPassword))
	require.NoError(t, e.db.Create(u).Error)
	return u, &Actor{ID: u.ID, Role: role}
}

// section creates the game on first use.
func (e *testEnv) section(t *testing.T, gameSlug, sectionSlug string) *models.Section {
	t.Helper()
	game := models.Game{Slug: gameSlug, Title: gameSlug}
	require.NoError(t, e.db.Where(models.Game{Slug: gameSlug}).FirstOrCreate(&game).Error)

	section := &models.Section{GameID: game.ID, Slug: sectionSlug, Name: sectionSlug}
	require.NoError(t, e.db.Create(section).Error)
	return section
}

type itemOpts struct {
	status     models.ItemStatus
	attributes map[string]interface{}
	createdAt  time.Time
	title      string
}

func (e *testEnv) item(t *testing.T, section *models.Section, author *models.User, slug string, opts itemOpts) *models.Item {
	t.Helper()
	if opts.status == "" {
		opts.status = models.ItemStatusPublished
	}
	if opts.title == "" {
		opts.title = fmt.Sprintf("Item %s", slug)
	}
	item := &models.Item{
		SectionID:  section.ID,
		Title:      opts.title,
		Slug:       slug,
		Attributes: datatypes.JSONMap(opts.attributes),
		Status:     opts.status,
	}
	if author != nil {
		item.AuthorID = &author.ID
	}
	if !opts.createdAt.IsZero() {
		item.CreatedAt = opts.createdAt
	}
	require.NoError(t, e.db.Create(item).Error)
	return item
}

func (e *testEnv) reload(t *testing.T, item *models.Item) *models.Item {
	t.Helper()
	var fresh models.Item
	require.NoError(t, e.db.First(&fresh, "id = ?", item.ID).Error)
	return &fresh
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, utils.KindOf(err), "unexpected error: %v", err)
}
