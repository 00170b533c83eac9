package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/halcyonchat/halcyon-backend/internal/auth"
	"github.com/halcyonchat/halcyon-backend/internal/cache"
	"github.com/halcyonchat/halcyon-backend/internal/handlers"
	"github.com/halcyonchat/halcyon-backend/internal/middleware"
	"github.com/halcyonchat/halcyon-backend/internal/repository"
	"github.com/halcyonchat/halcyon-backend/internal/service"
	"github.com/halcyonchat/halcyon-backend/internal/storage"
	"github.com/halcyonchat/halcyon-backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	tokenValidity := 7 * 24 * time.Hour
	if hoursStr := os.Getenv("TOKEN_VALIDITY_HOURS"); hoursStr != "" {
		if hours, err := strconv.Atoi(hoursStr); err == nil && hours > 0 {
			tokenValidity = time.Duration(hours) * time.Hour
		}
	}
	authenticator := auth.NewAuthenticator(jwtSecret, tokenValidity)

	app := fiber.New(fiber.Config{
		AppName: "Halcyon Chat Backend",
		// Support avatar uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024, // 8MB
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Redis is optional; without it listings skip the cache.
	var redisCache *cache.RedisCache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisDB := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if parsedDB, err := strconv.Atoi(dbStr); err == nil {
				redisDB = parsedDB
			}
		}
		redisCache = cache.NewRedisCache(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err := redisCache.Ping(); err != nil {
			log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
			redisCache = nil
		} else {
			log.Println("Redis cache connected successfully")
		}
	}
	convCache := cache.NewConversationCache(redisCache)

	// Avatar storage is best-effort; endpoints answer 503 when missing.
	var avatarStore *storage.AvatarStorage
	if cfg, err := storage.LoadAvatarConfigFromEnv(); err != nil {
		log.Printf("WARNING: avatar storage not configured: %v", err)
	} else if st, err := storage.NewAvatarStorage(cfg); err != nil {
		log.Printf("WARNING: failed to initialize avatar storage: %v", err)
	} else {
		avatarStore = st
		log.Printf("Avatar storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// The hub is the process-wide presence registry; it starts empty and
	// every user is offline until they connect.
	hub := ws.NewHub()

	// Services
	authService := service.NewAuthService(userRepo, authenticator)
	userService := service.NewUserService(userRepo, hub)
	chatService := service.NewChatService(conversationRepo, messageRepo, userRepo, hub, convCache)

	// Handlers
	h := apiHandlers{
		auth:    handlers.NewAuthHandler(authService),
		user:    handlers.NewUserHandler(userService),
		avatar:  handlers.NewAvatarHandler(userService, avatarStore),
		message: handlers.NewMessageHandler(chatService),
		ws:      handlers.NewWebSocketHandler(chatService, hub),
	}
	registerRoutes(app, authenticator, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

type apiHandlers struct {
	auth    *handlers.AuthHandler
	user    *handlers.UserHandler
	avatar  *handlers.AvatarHandler
	message *handlers.MessageHandler
	ws      *handlers.WebSocketHandler
}

// registerRoutes wires the REST and websocket surface. Registration order
// matters: a group mounted at "/" guards every route registered after it, so
// the health check and the credential endpoints come first.
func registerRoutes(app *fiber.App, authenticator *auth.Authenticator, h apiHandlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Halcyon backend is running",
		})
	})

	// The limiter covers the credential endpoints only; authenticated
	// profile reads under /auth/me must not share its budget.
	authLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	})
	app.Post("/auth/register", authLimiter, h.auth.Register)
	app.Post("/auth/login", authLimiter, h.auth.Login)

	// WebSocket route (websocket upgrade needs special handling; the token
	// arrives as ?token= because the handshake carries no headers)
	app.Use(
		"/ws",
		middleware.AuthRequired(authenticator),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(h.ws.HandleWebSocket))

	// Everything from here on requires a verified token.
	protected := app.Group("/", middleware.AuthRequired(authenticator))
	protected.Get("/auth/me", h.auth.Me)
	protected.Get("/users", h.user.ListUsers)
	protected.Get("/users/search", h.user.SearchUsers)
	protected.Post("/users/me/avatar", h.avatar.UploadMyAvatar)
	protected.Get("/media/avatars/*", h.avatar.GetAvatar)
	protected.Get("/conversations", h.message.GetConversations)
	protected.Post("/conversations", h.message.CreateConversation)
	protected.Get("/messages/:conversationId", h.message.GetMessages)
	protected.Post("/messages", h.message.SendMessage)
	protected.Put("/messages/:conversationId/read", h.message.MarkRead)
}
