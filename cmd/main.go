package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arcbsr/studentadmission-backend/internal/config"
	handlers "github.com/arcbsr/studentadmission-backend/internal/handler"
	"github.com/arcbsr/studentadmission-backend/internal/metrics"
	repositories "github.com/arcbsr/studentadmission-backend/internal/repository"
	"github.com/arcbsr/studentadmission-backend/internal/services"
	"github.com/arcbsr/studentadmission-backend/internal/utils"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid Redis URL:", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return rdb.Close()
	})

	emailService := services.NewSMTPMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
	)

	var pushService *services.PushService
	if cfg.FCMCredentialsPath != "" {
		pushService, err = services.NewPushService(cfg.FCMCredentialsPath)
		if err != nil {
			log.Printf("[MAIN] FCM disabled: %v", err)
			pushService = nil
		}
	}

	userRepo := repositories.NewUserRepository(db)
	agentRepo := repositories.NewAgentRepository(db)
	inquiryRepo := repositories.NewInquiryRepository(db)
	universityRepo := repositories.NewUniversityRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		agentRepo.EnsureIndexes,
		inquiryRepo.EnsureIndexes,
		universityRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal("Failed to create indexes:", err)
		}
	}

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)
	redisClient := utils.WrapRedisClient(rdb)
	googleAuth := services.NewGoogleAuthService(cfg.GoogleClientID)
	registry := metrics.Registry("admission")
	ocrClient := utils.NewOCRClient(cfg.OCRAPIURL, cfg.OCRAPIKey)

	authService := services.NewAuthService(userRepo, agentRepo, jwtUtil, googleAuth, emailService, redisClient, registry)
	agentService := services.NewAgentService(agentRepo, inquiryRepo, settingsRepo, registry)
	inquiryService := services.NewInquiryService(inquiryRepo, agentRepo, userRepo, settingsRepo, emailService, pushService, registry, cfg.CompanyEmail)
	universityService := services.NewUniversityService(universityRepo, redisClient)
	settingsService := services.NewSettingsService(settingsRepo)

	authHandler := handlers.NewAuthHandler(authService)
	agentHandler := handlers.NewAgentHandler(agentService, authService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	universityHandler := handlers.NewUniversityHandler(universityService)
	adminHandler := handlers.NewAdminHandler(authService, agentService, inquiryService, settingsService, ocrClient)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Public surface used by the marketing site and inquiry form.
		api.POST("/inquiries", inquiryHandler.Submit)
		api.GET("/universities", universityHandler.GetActiveUniversities)
		api.GET("/referrals/:key", agentHandler.ValidateReferralKey)
		api.GET("/settings", adminHandler.GetPublicSettings)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.RegisterAgent)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google-login", authHandler.GoogleLogin)
			auth.POST("/resend-password", authHandler.ResendPassword)
			auth.GET("/validate", authHandler.Validate)
			auth.POST("/logout", authHandler.Logout)

			protected := auth.Group("/")
			protected.Use(utils.AuthMiddleware(jwtUtil, redisClient))
			{
				protected.GET("/profile", authHandler.GetProfile)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.PUT("/change-password", authHandler.ChangePassword)
				protected.PUT("/set-initial-password", authHandler.SetInitialPassword)
			}
		}

		agents := api.Group("/agents")
		agents.Use(utils.AuthMiddleware(jwtUtil, redisClient), utils.RequireRoles("agent"))
		{
			agents.GET("/dashboard", agentHandler.Dashboard)
		}

		admin := api.Group("/admin")
		admin.Use(utils.AuthMiddleware(jwtUtil, redisClient), utils.RequireRoles("admin", "super_admin"))
		{
			admin.GET("/inquiries", inquiryHandler.GetAllInquiries)
			admin.GET("/inquiries/:id", inquiryHandler.GetInquiry)
			admin.PUT("/inquiries/:id/status", inquiryHandler.UpdateStatus)
			admin.POST("/inquiries/:id/messages", inquiryHandler.AddReply)
			admin.DELETE("/inquiries/:id", inquiryHandler.DeleteInquiry)

			admin.GET("/agents", adminHandler.GetAllAgents)
			admin.POST("/agents", adminHandler.CreateAgent)
			admin.PUT("/agents/:id/commission", adminHandler.UpdateCommissionRate)
			admin.PUT("/agents/:id/status", adminHandler.SetAgentActive)
			admin.DELETE("/agents/:id", adminHandler.DeleteAgent)

			admin.GET("/universities", universityHandler.GetAllUniversities)
			admin.POST("/universities", universityHandler.CreateUniversity)
			admin.PUT("/universities", universityHandler.UpdateUniversity)
			admin.PUT("/universities/:id/status", universityHandler.UpdateUniversityStatus)
			admin.DELETE("/universities/:id", universityHandler.DeleteUniversity)

			admin.GET("/users", adminHandler.GetAllUsers)
			admin.POST("/users", authHandler.Register)
			admin.PUT("/users/:id/status", adminHandler.SetUserActive)
			admin.PUT("/users/:id/permissions", adminHandler.UpdatePermissions)
			admin.GET("/totals", adminHandler.GetTotals)

			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.SaveSettings)

			admin.POST("/ocr", adminHandler.ExtractText)
		}
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Println("Admission service running on", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
