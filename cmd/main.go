package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"complaint-portal/internal/auth"
	"complaint-portal/internal/config"
	"complaint-portal/internal/dashboard"
	"complaint-portal/internal/handler"
	"complaint-portal/internal/repository"
	"complaint-portal/internal/services"
	"complaint-portal/internal/utils"
	"complaint-portal/internal/utils/mongodb"
)

func main() {
	baseCtx := context.Background()
	_, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// MongoDB
	mongoClient, err := mongodb.NewMongoDBConnection(cfg.MongoDB)
	if err != nil {
		log.Fatal("Mongo connection failed:", err)
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})
	db := mongoClient.Database(cfg.MongoDB.DBName)

	// Redis, token revocation list
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(baseCtx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return rdb.Close()
	})

	// MinIO, attachment store
	minioClient, err := utils.NewMinioClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket)
	if err != nil {
		log.Fatal("MinIO connection failed:", err)
	}

	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLH)*time.Hour)
	verifier := buildVerifier(cfg.Auth)
	notifier := buildNotifier(cfg.Server.NotificationURL)

	repo := repository.NewComplaintRepository(db)
	complaintService := services.NewComplaintService(repo, notifier)
	dashboardService := services.NewDashboardService(complaintService, repo)
	attachmentStore := services.NewAttachmentStore(minioClient, cfg.Minio.Bucket)

	authHandler := handler.NewAuthHandler(verifier, codec, rdb)
	complaintHandler := handler.NewComplaintHandler(complaintService, attachmentStore)
	dashboardHandler := dashboard.NewHandler(dashboardService, codec)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api/admin")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)

		protected := api.Group("", handler.AdminAuth(codec, rdb))
		{
			protected.GET("/validate", authHandler.Validate)
			protected.GET("/complaints/:category", complaintHandler.GetComplaints)
			protected.GET("/stats/:category", complaintHandler.GetStats)
			protected.PUT("/status/:category", complaintHandler.UpdateStatus)
			protected.PUT("/remarks/:category", complaintHandler.UpdateRemarks)
		}
	}

	// The socket does its own cookie auth at the handshake.
	router.GET("/socket/admin", dashboardHandler.Serve)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[INFO] Complaint portal running on :%s", cfg.Server.Port)
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

// buildVerifier selects the credential strategy once at startup.
func buildVerifier(cfg config.AuthConfig) auth.CredentialVerifier {
	var fixed *auth.FixedCredentialStore
	if cfg.DemoPasswordHash != "" {
		fixed = auth.NewFixedCredentialStore([]auth.FixedCredential{{
			Username:     cfg.DemoUsername,
			PasswordHash: cfg.DemoPasswordHash,
			Role:         cfg.DemoRole,
		}})
	}

	switch cfg.Mode {
	case "directory":
		directory := auth.NewDirectoryClient(cfg.DirectoryURL)
		if fixed != nil {
			return auth.VerifierChain{fixed, directory}
		}
		return directory
	default:
		if fixed == nil {
			log.Fatal("AUTH_MODE=fixed requires DEMO_PASSWORD_HASH")
		}
		return fixed
	}
}

func buildNotifier(url string) services.ActivityNotifier {
	if url == "" {
		return services.NopNotifier{}
	}
	return services.NewNotifierService(url)
}
