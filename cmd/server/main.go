package main

import (
	"log"

	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/config"
	"github.com/fellowshipfinder/backend/internal/database"
	"github.com/fellowshipfinder/backend/internal/handler"
	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	isProduction := cfg.Environment == "production"
	if err := logger.Init(!isProduction); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	redisBroker, err := broker.NewRedisEventBroker(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize Redis broker: %v", err)
	}
	defer redisBroker.Close()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	wordRepo := repository.NewForbiddenWordRepository(database.DB)
	pinRepo := repository.NewPinRepository(database.DB)
	blogRepo := repository.NewBlogRepository(database.DB)
	marketRepo := repository.NewMarketplaceRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)
	notifRepo := repository.NewNotificationRepository(database.DB)

	// Single permission engine shared by every service
	engine := authz.NewEngine(authz.NewRegistry())

	// Services
	accountService := service.NewAccountService(userRepo, wordRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	pinService := service.NewPinService(database.DB, pinRepo, engine, redisBroker)
	blogService := service.NewBlogService(database.DB, blogRepo, engine, redisBroker)
	marketService := service.NewMarketplaceService(marketRepo, engine)
	chatService := service.NewChatService(database.DB, chatRepo, engine, redisBroker)
	notifService := service.NewNotificationService(notifRepo, engine, redisBroker)

	// Handlers
	authHandler := handler.NewAuthHandler(accountService)
	adminHandler := handler.NewAdminHandler(accountService)
	pinHandler := handler.NewPinHandler(pinService)
	blogHandler := handler.NewBlogHandler(blogService)
	marketHandler := handler.NewMarketplaceHandler(marketService)
	chatHandler := handler.NewChatHandler(chatService)
	notifHandler := handler.NewNotificationHandler(notifService)
	wsHandler := handler.NewWebSocketHandler(chatService, redisBroker)

	rateLimiter := middleware.NewRateLimiter(redisBroker.Client(), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
	})

	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.GuestHeader},
		AllowCredentials: true,
	}))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(isProduction))
	router.Use(rateLimiter.Middleware())

	// Every request carries an identity: authenticated, guest, or anonymous.
	router.Use(middleware.IdentityMiddleware(cfg.JWTSecret))

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/users/:username", authHandler.GetProfile)
		api.GET("/users/:username/pins", pinHandler.ListByUser)
		api.GET("/users/:username/blog", blogHandler.ListByAuthor)
		api.GET("/users/:username/marketplace", marketHandler.ListBySeller)

		// Pins: reads are public, writes go through the permission engine
		api.POST("/pins", middleware.RequireResolved(), pinHandler.Create)
		api.GET("/pins", pinHandler.List)
		api.GET("/pins/:id", pinHandler.Get)
		api.PUT("/pins/:id", middleware.RequireResolved(), pinHandler.Update)
		api.DELETE("/pins/:id", middleware.RequireResolved(), pinHandler.Delete)
		api.POST("/pins/:id/comments", middleware.RequireResolved(), pinHandler.CreateComment)
		api.GET("/pins/:id/comments", pinHandler.ListComments)
		api.PUT("/comments/:id", middleware.RequireResolved(), pinHandler.UpdateComment)
		api.DELETE("/comments/:id", middleware.RequireResolved(), pinHandler.DeleteComment)
		api.POST("/pins/:id/like", middleware.RequireResolved(), pinHandler.Like)
		api.DELETE("/pins/:id/like", middleware.RequireResolved(), pinHandler.Unlike)
		api.POST("/comments/:id/like", middleware.RequireResolved(), pinHandler.LikeComment)
		api.DELETE("/comments/:id/like", middleware.RequireResolved(), pinHandler.UnlikeComment)

		// Blog
		api.POST("/blog", middleware.RequireResolved(), blogHandler.Create)
		api.GET("/blog", blogHandler.List)
		api.GET("/blog/:id", blogHandler.Get)
		api.PUT("/blog/:id", middleware.RequireResolved(), blogHandler.Update)
		api.DELETE("/blog/:id", middleware.RequireResolved(), blogHandler.Delete)
		api.POST("/blog/:id/comments", middleware.RequireResolved(), blogHandler.CreateComment)
		api.GET("/blog/:id/comments", blogHandler.ListComments)
		api.PUT("/blog/comments/:id", middleware.RequireResolved(), blogHandler.UpdateComment)
		api.DELETE("/blog/comments/:id", middleware.RequireResolved(), blogHandler.DeleteComment)
		api.POST("/blog/:id/like", middleware.RequireResolved(), blogHandler.Like)
		api.DELETE("/blog/:id/like", middleware.RequireResolved(), blogHandler.Unlike)
		api.POST("/blog/comments/:id/like", middleware.RequireResolved(), blogHandler.LikeComment)
		api.DELETE("/blog/comments/:id/like", middleware.RequireResolved(), blogHandler.UnlikeComment)

		// Marketplace
		api.POST("/marketplace", middleware.RequireResolved(), marketHandler.Create)
		api.GET("/marketplace", marketHandler.List)
		api.GET("/marketplace/:id", marketHandler.Get)
		api.PUT("/marketplace/:id", middleware.RequireResolved(), marketHandler.Update)
		api.DELETE("/marketplace/:id", middleware.RequireResolved(), marketHandler.Delete)

		// Direct messages
		api.GET("/chat", middleware.RequireResolved(), chatHandler.ListConversations)
		api.POST("/chat/:username", middleware.RequireResolved(), chatHandler.SendMessage)
		api.GET("/chat/:username", middleware.RequireResolved(), chatHandler.GetConversation)
		api.GET("/chat/:username/ws", middleware.RequireResolved(), wsHandler.HandleConversation)
		api.DELETE("/chat/messages/:id", middleware.RequireResolved(), chatHandler.DeleteMessage)

		// Notifications
		api.GET("/notifications", middleware.RequireResolved(), notifHandler.List)
		api.GET("/notifications/unread-count", middleware.RequireResolved(), notifHandler.UnreadCount)
		api.PUT("/notifications/:id/read", middleware.RequireResolved(), notifHandler.MarkRead)
		api.PUT("/notifications/read-all", middleware.RequireResolved(), notifHandler.MarkAllRead)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireAuthenticated(), middleware.AdminMiddleware())
	{
		admin.GET("/users", adminHandler.GetAllUsers)
		admin.POST("/ban", adminHandler.BanUser)
		admin.GET("/forbidden-words", adminHandler.ListForbiddenWords)
		admin.POST("/forbidden-words", adminHandler.AddForbiddenWord)
		admin.DELETE("/forbidden-words/:id", adminHandler.RemoveForbiddenWord)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
