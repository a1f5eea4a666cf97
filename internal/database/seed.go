// internal/database/seed.go
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/models"
)

// SeedInitialData creates the default admin and a demo game. It is
// idempotent: existing rows are left alone.
func SeedInitialData(db *gorm.DB, adminPassword string) error {
	logrus.Info("Seeding initial data...")

	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}

	if adminCount == 0 {
		now := time.Now()
		admin := &models.User{
			Username:        "admin",
			Email:           "admin@modhub.dev",
			Role:            models.UserRoleAdmin,
			Status:          models.UserStatusActive,
			DisplayName:     "Administrator",
			EmailVerifiedAt: &now,
		}

		if err := admin.SetPassword(adminPassword); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.Info("Default admin user created successfully")
	}

	var game models.Game
	err := db.Where("slug = ?", "demo-game").First(&game).Error
	if err == nil {
		logrus.Info("Initial data seeding completed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up demo game: %w", err)
	}

	game = models.Game{
		Slug:        "demo-game",
		Title:       "Demo Game",
		Description: "Sample game used for local development",
		Sections: []models.Section{
			{
				Slug:     "mods",
				Name:     "Mods",
				UIConfig: map[string]interface{}{"layout": "grid", "badge": "version"},
				FilterConfig: []models.FilterField{
					{Key: "loader", Label: "Loader", Options: []string{"forge", "fabric"}, IsPreview: true, PreviewLimit: 2},
					{Key: "game_version", Label: "Game version", Options: []string{"1.20", "1.21"}},
				},
			},
			{
				Slug:     "skins",
				Name:     "Skins",
				UIConfig: map[string]interface{}{"layout": "gallery"},
				FilterConfig: []models.FilterField{
					{Key: "style", Label: "Style", Options: []string{"pixel", "hd"}, IsPreview: true, PreviewLimit: 3},
				},
			},
		},
	}

	if err := db.Create(&game).Error; err != nil {
		return fmt.Errorf("failed to create demo game: %w", err)
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
