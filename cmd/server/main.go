package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/commercia/commercia-backend/internal/config"
	"github.com/commercia/commercia-backend/internal/database"
	"github.com/commercia/commercia-backend/internal/handlers"
	"github.com/commercia/commercia-backend/internal/middleware"
	"github.com/commercia/commercia-backend/internal/routes"
	"github.com/commercia/commercia-backend/internal/services"
	"github.com/commercia/commercia-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration. A missing JWT secret is fatal: we never fall
	// back to a default signing key.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to ensure MongoDB indexes: ", err)
	}
	log.Println("✅ MongoDB indexes ensured")

	// Connect to Redis (rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer database.DisconnectRedis()

	if cfg.SMTPHost == "" {
		log.Println("⚠️  WARNING: SMTP not configured. Verification emails will not be sent.")
	}

	// Wire stores and services
	users := store.NewMongoUserStore(database.DB)
	categories := store.NewMongoCategoryStore(database.DB)
	tokens := services.NewTokenService(cfg.JWTSecret)
	mailer := services.NewSMTPMailer(cfg)

	authService := services.NewAuthService(users, tokens, mailer)
	categoryService := services.NewCategoryService(categories, users)

	h := handlers.New(cfg, authService, categoryService)
	resolver := middleware.NewSessionResolver(tokens, users)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware)
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.LoginRateLimit)
		log.Println("✅ Production security enabled (security headers, login rate limiting)")
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h, resolver)

	log.Printf("🚀 Commercia backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
