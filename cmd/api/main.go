package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mining-miniapp-backend/internal/config"
	"mining-miniapp-backend/internal/handlers"
	"mining-miniapp-backend/internal/middleware"
	"mining-miniapp-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)

	inventory := services.NewStaticAdInventory(nil)
	engine := services.NewMiningEngine(redisService, redisService, inventory, services.SystemClock(), cfg.Mining)
	leaderboard := services.NewLeaderboardService(redisService, redisService, redisService, services.SystemClock())

	wsHandler := handlers.NewWebSocketHandler(engine)
	engine.SetNotifier(wsHandler)

	authHandler := handlers.NewAuthHandler(redisService, jwtService, engine, cfg.BotToken, cfg.Env)
	userHandler := handlers.NewUserHandler(redisService, engine)
	miningHandler := handlers.NewMiningHandler(engine)
	adHandler := handlers.NewAdHandler(engine)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboard)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/user/profile", userHandler.GetProfile)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		mining := protected.Group("/mining")
		{
			mining.POST("/start", miningHandler.Start)
			mining.POST("/stop", miningHandler.Stop)
			mining.GET("/status", miningHandler.Status)
			mining.POST("/collect", miningHandler.Collect)
			mining.POST("/upgrade", miningHandler.Upgrade)
			mining.GET("/rewards", miningHandler.GetRewards)
		}

		ads := protected.Group("/ads")
		{
			ads.GET("/eligible", adHandler.GetEligible)
			ads.POST("/watch", adHandler.Watch)
		}

		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		protected.GET("/leaderboard/rank", leaderboardHandler.GetUserRank)
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
