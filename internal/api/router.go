package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"brz-forbes-portal/internal/api/handlers"
	"brz-forbes-portal/internal/api/middleware"
	"brz-forbes-portal/internal/service"
)

// SetupRouter настраивает и возвращает роутер с всеми эндпоинтами
func SetupRouter(
	portalService *service.PortalService,
	jwtMiddleware *middleware.JWTMiddleware,
	tokenTTL time.Duration,
	logger *logrus.Logger,
	ginMode string,
) *gin.Engine {
	// Установка режима Gin
	gin.SetMode(ginMode)

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Инициализация handlers
	authHandler := handlers.NewAuthHandler(portalService, jwtMiddleware, tokenTTL, logger)
	leaderboardHandler := handlers.NewLeaderboardHandler(portalService, logger)
	playerHandler := handlers.NewPlayerHandler(portalService, logger)
	adminHandler := handlers.NewAdminHandler(portalService, logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (без авторизации)
		v1.POST("/register", authHandler.Register)
		v1.POST("/login", authHandler.Login)
		v1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		v1.GET("/leaderboard/awards", leaderboardHandler.GetAwards)

		// Player routes (требуют авторизации)
		player := v1.Group("/player")
		player.Use(jwtMiddleware.Auth())
		{
			player.GET("/dashboard", playerHandler.GetDashboard)
			player.POST("/withdrawals", playerHandler.SubmitWithdrawal)
			player.GET("/shop", playerHandler.GetShop)
			player.POST("/purchases", playerHandler.SubmitPurchase)
		}

		// Admin routes (требуют роли admin)
		admin := v1.Group("/admin")
		admin.Use(jwtMiddleware.Auth(), jwtMiddleware.RequireRole(service.RoleAdmin))
		{
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.POST("/withdrawals/:id/resolve", adminHandler.ResolveWithdrawal)

			admin.GET("/purchases", adminHandler.ListPurchases)
			admin.POST("/purchases/:id/resolve", adminHandler.ResolvePurchase)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/coins", adminHandler.SetUserCoins)

			admin.GET("/members", adminHandler.ListMembers)
			admin.POST("/members/:id/resolve", adminHandler.ResolveMember)

			admin.GET("/shop", adminHandler.ListShopItems)
			admin.POST("/shop", adminHandler.CreateShopItem)
			admin.DELETE("/shop/:id", adminHandler.DeleteShopItem)
		}
	}

	return router
}
