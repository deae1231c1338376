package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/verzia/verzia/internal/config"
	"github.com/verzia/verzia/internal/handlers"
	"github.com/verzia/verzia/internal/middleware"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/internal/services"
	"github.com/verzia/verzia/pkg/cache"
	"github.com/verzia/verzia/pkg/logger"
	"github.com/verzia/verzia/pkg/queue"
	"github.com/verzia/verzia/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting Verzia API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	activityProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ActivityEvents)
	defer activityProducer.Close()

	mediaStore, err := storage.NewLocalStore(cfg.Media.UploadDir, cfg.Media.ThumbDir, cfg.Media.ThumbSize)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize media storage")
	}

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	photoRepo := repository.NewPhotoRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	siteInfoRepo := repository.NewSiteInfoRepository(db.DB)

	userService := services.NewUserService(db.DB, userRepo, followRepo, photoRepo, activityProducer, logger)
	photoService := services.NewPhotoService(photoRepo, userRepo, mediaStore, activityProducer, logger)
	likeService := services.NewLikeService(db.DB, likeRepo, photoRepo, userRepo, activityProducer, logger)
	commentService := services.NewCommentService(db.DB, commentRepo, photoRepo, userRepo, activityProducer, logger, cfg.Notification.PreviewLength)
	notificationService := services.NewNotificationService(notificationRepo, logger)
	siteInfoService := services.NewSiteInfoService(siteInfoRepo, userRepo)

	userHandler := handlers.NewUserHandler(userService, cfg.JWT.Secret, cfg.JWT.ExpireTime, redisClient)
	photoHandler := handlers.NewPhotoHandler(photoService, likeService, commentService, cfg.Media.MaxUploadSize)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	siteInfoHandler := handlers.NewSiteInfoHandler(siteInfoService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	// Thumbnails and originals are served straight off the media store.
	router.Static("/uploads", cfg.Media.UploadDir)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/:id", userHandler.GetProfile)
			users.GET("/:id/followers", userHandler.GetFollowers)
			users.GET("/:id/following", userHandler.GetFollowing)
			users.GET("/:id/photos", photoHandler.ListByOwner)
		}

		api.GET("/site-info", siteInfoHandler.Get)
		api.GET("/photos/:id", photoHandler.Get)
		api.GET("/photos/:id/comments", photoHandler.ListComments)

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(&middleware.JWTConfig{
			Secret:      cfg.JWT.Secret,
			Revocations: redisClient,
		}))
		{
			protected.POST("/users/logout", userHandler.Logout)
			protected.PUT("/users/profile", userHandler.UpdateProfile)
			protected.PUT("/users/credentials", userHandler.ChangeCredentials)
			protected.POST("/users/:id/follow", userHandler.Follow)
			protected.DELETE("/users/:id/follow", userHandler.Unfollow)

			protected.POST("/photos", photoHandler.Upload)
			protected.GET("/feed", photoHandler.Feed)
			protected.DELETE("/photos/:id", photoHandler.Delete)
			protected.POST("/photos/:id/like", photoHandler.ToggleLike)
			protected.POST("/photos/:id/comments", photoHandler.CreateComment)
			protected.DELETE("/comments/:id", photoHandler.DeleteComment)

			protected.GET("/notifications", notificationHandler.List)
			protected.GET("/notifications/unread", notificationHandler.UnreadCount)
			protected.POST("/notifications/read", notificationHandler.MarkAllRead)
			protected.DELETE("/notifications/:id", notificationHandler.Delete)

			protected.PUT("/site-info", siteInfoHandler.Update)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Printf("Failed to create configs directory: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "verzia"
  password: "verzia"
  dbname: "verzia"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10

kafka:
  brokers:
    - "localhost:9092"
  topics:
    activity_events: "activity-events"

jwt:
  secret: "your-secret-key-change-in-production"
  expire_time: 24h

media:
  upload_dir: "uploads"
  thumb_dir: "uploads/thumbs"
  thumb_size: 300
  max_upload_size: 10485760

notification:
  preview_length: 20
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
