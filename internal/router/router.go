// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/cache"
	"github.com/javajoker/modhub-backend/internal/config"
	"github.com/javajoker/modhub-backend/internal/handlers"
	"github.com/javajoker/modhub-backend/internal/metrics"
	"github.com/javajoker/modhub-backend/internal/middleware"
	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/storage"
	"github.com/javajoker/modhub-backend/internal/utils"
)

// Deps are the infrastructure pieces built by main. Zero values fall back
// to in-process implementations.
type Deps struct {
	Store      storage.Store
	Views      cache.ViewDeduper
	RateLimits *middleware.RateLimits
}

// Services are exposed so main can hand them to background jobs.
type Services struct {
	Users *services.UserService
}

func Initialize(db *gorm.DB, cfg *config.Config, deps Deps) (*gin.Engine, *Services) {
	if deps.Store == nil {
		deps.Store = storage.NewMemoryStore()
	}
	if deps.Views == nil {
		deps.Views = cache.NewMemoryDeduper(cfg.Cache.ViewWindow)
	}

	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	itemService := services.NewItemService(db, deps.Store)
	catalogService := services.NewCatalogService(db, itemService, deps.Views)
	fileService := services.NewFileService(db, deps.Store, itemService, cfg.Storage.SignedURLTTL)
	likeService := services.NewLikeService(db, itemService, notificationService)
	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db, deps.Store, itemService)
	supportService := services.NewSupportService(db, notificationService)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, itemService)
	fileHandler := handlers.NewFileHandler(fileService, int64(cfg.Server.MaxUploadMB)<<20)
	likeHandler := handlers.NewLikeHandler(likeService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, itemService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	supportHandler := handlers.NewSupportHandler(supportService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	limits := deps.RateLimits

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(limits.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", metrics.Handler())

	// Blobs written by the local driver are served from disk.
	if local, ok := deps.Store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.BaseDir())
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify", authHandler.VerifyEmail)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Catalog routes
		games := v1.Group("/games")
		{
			games.GET("", catalogHandler.ListGames)
			games.GET("/:game_slug", catalogHandler.GetGame)
			games.GET("/:game_slug/:section_slug", catalogHandler.ListItems)
			games.GET("/:game_slug/:section_slug/:item_slug", middleware.OptionalAuth(), catalogHandler.GetItem)

			// Authenticated routes
			protected := games.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/:game_slug/:section_slug", catalogHandler.CreateItem)
				protected.PATCH("/:game_slug/:section_slug/:item_slug", catalogHandler.UpdateItem)
				protected.PATCH("/:game_slug/:section_slug/:item_slug/status", catalogHandler.UpdateItemStatus)
				protected.DELETE("/:game_slug/:section_slug/:item_slug", catalogHandler.DeleteItem)
			}
		}

		// Item files, gallery and likes
		items := v1.Group("/items/:item_id")
		{
			items.GET("/files", middleware.OptionalAuth(), fileHandler.ListVersions)
			items.GET("/gallery", middleware.OptionalAuth(), fileHandler.ListGallery)

			protected := items.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/files", limits.UploadRateLimit(), fileHandler.UploadVersion)
				protected.POST("/gallery", limits.UploadRateLimit(), fileHandler.UploadGalleryImage)
				protected.PUT("/gallery/:image_id/primary", fileHandler.SetPrimaryImage)
				protected.DELETE("/gallery/:image_id", fileHandler.DeleteGalleryImage)

				protected.GET("/like", likeHandler.State)
				protected.POST("/like", likeHandler.Like)
				protected.DELETE("/like", likeHandler.Unlike)
				protected.POST("/favorite", likeHandler.AddFavorite)
				protected.DELETE("/favorite", likeHandler.RemoveFavorite)
			}
		}

		files := v1.Group("/files")
		{
			files.GET("/:file_id/download", middleware.OptionalAuth(), fileHandler.Download)
			files.DELETE("/:file_id", middleware.AuthRequired(), fileHandler.DeleteVersion)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:username", userHandler.GetPublicProfile)
			users.GET("/:username/items", userHandler.ListUserItems)

			// Authenticated user routes
			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.POST("/avatar", limits.UploadRateLimit(), userHandler.UploadAvatar)
			}
		}

		me := v1.Group("/me")
		me.Use(middleware.AuthRequired())
		{
			me.GET("/items", userHandler.ListMyItems)
			me.GET("/favorites", likeHandler.ListFavorites)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Support routes
		tickets := v1.Group("/tickets")
		tickets.Use(middleware.AuthRequired())
		{
			tickets.POST("", supportHandler.CreateTicket)
			tickets.GET("", supportHandler.ListTickets)
			tickets.GET("/:id", supportHandler.GetTicket)
			tickets.POST("/:id/messages", supportHandler.AddMessage)
		}

		v1.POST("/reports", middleware.AuthRequired(), supportHandler.CreateReport)
		v1.POST("/suggestions", middleware.OptionalAuth(), supportHandler.CreateSuggestion)

		// Statistics routes (public)
		v1.GET("/stats", catalogHandler.Stats)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)

			// User management
			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

			// Moderation
			admin.GET("/reports", adminHandler.GetReports)
			admin.PUT("/reports/:id/resolve", adminHandler.ResolveReport)
			admin.GET("/tickets", adminHandler.GetTickets)
			admin.PUT("/tickets/:id/status", adminHandler.UpdateTicketStatus)
			admin.GET("/suggestions", adminHandler.GetSuggestions)

			// Catalog management
			admin.POST("/games", adminHandler.CreateGame)
			admin.POST("/games/:game_slug/sections", adminHandler.CreateSection)
			admin.PUT("/sections/:id", adminHandler.UpdateSection)
		}
	}

	return r, &Services{Users: userService}
}
