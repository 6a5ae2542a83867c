package server

import (
	"log"
	"os"
	"strings"
	"time"

	"mentormatch/internal/config"
	"mentormatch/internal/handler"
	"mentormatch/internal/middleware"
	"mentormatch/internal/model"
	"mentormatch/internal/repository"
	"mentormatch/internal/service"
	"mentormatch/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	matchRepo := repository.NewMatchRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Optional collaborators: profile images fall back to database blobs,
	// mentor search falls back to SQL filtering.
	var imageStorage storage.ImageStorage
	if os.Getenv("CLOUDINARY_URL") != "" || os.Getenv("CLOUDINARY_CLOUD_NAME") != "" {
		s, err := storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
		imageStorage = s
	}

	var searchService service.MentorSearchService
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchService = service.NewMeiliSearchService(meiliClient)
	}

	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)

	authService := service.NewAuthService(userRepo, searchService, cfg.JWTSecret, cfg.TokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	profileService := service.NewProfileService(userRepo, imageStorage, searchService)
	profileHandler := handler.NewProfileHandler(profileService)

	mentorService := service.NewMentorService(userRepo, searchService)
	mentorHandler := handler.NewMentorHandler(mentorService)

	matchService := service.NewMatchService(matchRepo, userRepo, notificationService)
	matchHandler := handler.NewMatchHandler(matchService)

	router := gin.New()
	setupCORS(router, cfg)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	authRateLimit := middleware.RateLimit(redisClient, "auth", cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow)

	api := router.Group("/api")

	// Public routes
	api.POST("/signup", authRateLimit, authHandler.Signup)
	api.POST("/login", authRateLimit, authHandler.Login)
	api.GET("/images/:role/:id", profileHandler.GetImage)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/me", profileHandler.Me)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		protected.GET("/mentors", authMiddleware.RequireRole(model.RoleMentee), mentorHandler.ListMentors)

		// Match request lifecycle
		protected.POST("/match-requests", authMiddleware.RequireRole(model.RoleMentee), matchHandler.CreateRequest)
		protected.GET("/match-requests/incoming", authMiddleware.RequireRole(model.RoleMentor), matchHandler.ListIncoming)
		protected.GET("/match-requests/outgoing", authMiddleware.RequireRole(model.RoleMentee), matchHandler.ListOutgoing)
		protected.PUT("/match-requests/:id/accept", authMiddleware.RequireRole(model.RoleMentor), matchHandler.AcceptRequest)
		protected.PUT("/match-requests/:id/reject", authMiddleware.RequireRole(model.RoleMentor), matchHandler.RejectRequest)
		protected.DELETE("/match-requests/:id", authMiddleware.RequireRole(model.RoleMentee), matchHandler.CancelRequest)

		// Notifications
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
