package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/lifestory-backend/internal/config"
	"github.com/AnshRaj112/lifestory-backend/internal/database"
	"github.com/AnshRaj112/lifestory-backend/internal/handlers"
	"github.com/AnshRaj112/lifestory-backend/internal/middleware"
	"github.com/AnshRaj112/lifestory-backend/internal/routes"
	"github.com/AnshRaj112/lifestory-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	db, store, err := openEntryStore(cfg)
	if err != nil {
		log.Fatal("Failed to open entry store:", err)
	}
	defer db.Close()

	// Redis is optional: without it stats and stories are not cached and only the
	// in-memory rate limiters apply.
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		redisClient, err = database.ConnectRedis(cfg.RedisURI)
		if err != nil {
			log.Printf("⚠️  WARNING: Redis unavailable, caching disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	cache := services.NewCacheService(redisClient)
	store = services.NewCachedEntryStore(store, cache)

	var archive services.StoryArchive
	if cfg.MongoURI != "" {
		log.Printf("Connecting to MongoDB...")
		client, mdb, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Printf("⚠️  WARNING: MongoDB unavailable, stories will not be archived: %v", err)
		} else {
			defer database.DisconnectMongo(client)
			mongoArchive := services.NewMongoStoryArchive(mdb)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := mongoArchive.EnsureIndexes(ctx); err != nil {
				log.Printf("⚠️  WARNING: failed to ensure story indexes: %v", err)
			} else {
				log.Println("✅ MongoDB story indexes ensured")
			}
			cancel()
			archive = mongoArchive
		}
	}

	var mirror services.ImageMirror
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
		} else {
			mirror = cld
			log.Println("✅ Cloudinary image mirror initialized")
		}
	}

	uploads, err := services.NewUploadStorage(cfg.UploadDir)
	if err != nil {
		log.Fatal("Failed to prepare upload directory:", err)
	}
	// Audio in flight lives outside the served upload directory.
	scratch, err := services.NewUploadStorage(cfg.ScratchDir)
	if err != nil {
		log.Fatal("Failed to prepare scratch directory:", err)
	}

	// Model clients are created once and shared by every request.
	if cfg.OpenAIAPIKey == "" {
		log.Println("⚠️  WARNING: OPENAI_API_KEY not set. Transcription and story generation will fail unless OPENAI_BASE_URL points at a server that needs no key.")
	}
	ai := newOpenAIClient(cfg)
	pipeline := services.NewMediaPipeline(
		scratch,
		services.NewFFmpegConverter(cfg.FFmpegPath),
		services.NewWhisperRecognizer(ai, cfg.SpeechModel, scratch.Dir()),
	)
	synthesizer := services.NewSynthesizer(store, services.NewChatSummarizer(ai, cfg.SummaryModel), cache, archive)
	log.Printf("✅ Models configured (speech: %s, summary: %s)", cfg.SpeechModel, cfg.SummaryModel)

	h := &handlers.Handler{
		Store:         store,
		Pipeline:      pipeline,
		Synthesizer:   synthesizer,
		Uploads:       uploads,
		Archive:       archive,
		Mirror:        mirror,
		MaxUploadSize: cfg.MaxUploadSize,
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit. Redis-based limit whenever Redis is up.
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	}
	r.Use(middleware.NewRedisRateLimiter(redisClient).Middleware)

	routes.SetupRoutes(r, h, middleware.ModelRateLimiter().Middleware)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/entries")
	log.Println("  GET  /api/entries")
	log.Println("  GET  /api/entries/range")
	log.Println("  GET  /api/entries/{date}")
	log.Println("  GET  /api/stats")
	log.Println("  POST /api/upload/image")
	log.Println("  GET  /uploads/{filename}")
	log.Println("  POST /api/transcribe")
	log.Println("  POST /api/story")
	log.Println("  GET  /api/stories")

	log.Printf("🚀 LifeStory backend running on :%s (store: %s)", cfg.Port, cfg.StoreDriver)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func openEntryStore(cfg *config.Config) (*sql.DB, services.EntryStore, error) {
	switch cfg.StoreDriver {
	case "postgres":
		log.Printf("Connecting to PostgreSQL...")
		db, err := database.ConnectPostgres(cfg.PostgresURI)
		if err != nil {
			return nil, nil, err
		}
		return db, services.NewPostgresEntryStore(db), nil
	default:
		log.Printf("Opening SQLite database at %s...", cfg.SQLitePath)
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, services.NewSQLiteEntryStore(db), nil
	}
}

func newOpenAIClient(cfg *config.Config) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	return openai.NewClient(opts...)
}
