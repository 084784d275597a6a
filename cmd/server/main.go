package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/moodflix/backend/internal/analyzer"
	"github.com/moodflix/backend/internal/cache"
	"github.com/moodflix/backend/internal/config"
	"github.com/moodflix/backend/internal/llm"
	"github.com/moodflix/backend/internal/logger"
	"github.com/moodflix/backend/internal/ratelimit"
	"github.com/moodflix/backend/internal/recommend"
	"github.com/moodflix/backend/internal/server"
	"github.com/moodflix/backend/internal/tmdb"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	if missing := cfg.Validate(); len(missing) > 0 {
		logg.Fatal("missing required configuration", "keys", missing)
	}

	store := cache.NewStore(cfg.Redis.Addr, logg)
	movies := tmdb.NewClient(cfg.TMDB, store, logg)

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		logg.Fatal("failed to initialize llm client", "error", err)
	}
	emotions := analyzer.New(llmClient, logg)

	engine := recommend.NewEngine(movies, emotions, recommend.Options{
		Diversity: cfg.Recommend.Diversity,
	}, logg)

	limiter := ratelimit.NewLimiter(cfg.Redis.Addr, cfg.RateLimit.Enabled, logg)
	usage := ratelimit.NewUsageTracker(cfg.Redis.Addr, logg)

	srv := server.New(cfg, engine, movies, limiter, usage, logg)
	r := srv.SetupRouter()

	logg.Info("starting server", "port", cfg.Port, "mode", cfg.Mode)
	if err := r.Run(":" + cfg.Port); err != nil {
		logg.Fatal("server exited", "error", err)
	}
}
