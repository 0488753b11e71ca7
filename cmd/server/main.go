package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"advicehub/internal/auth"       // token issuance/validation
	"advicehub/internal/config"     // environment config loaders
	"advicehub/internal/database"   // MySQL connector
	"advicehub/internal/handler"    // HTTP handlers
	"advicehub/internal/middleware" // rate limit and cache middleware
	"advicehub/internal/queue"      // rating event consumer
	"advicehub/internal/repository" // data access layer
	"advicehub/internal/router"     // route registration
	"advicehub/internal/service"    // rating aggregation
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables response caching, cache
	// invalidation and rate limiting but the API stays fully functional.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTLMin)

	users := repository.NewUserRepo(db)
	refresh := repository.NewTokenRepo(db)
	advice := repository.NewAdviceRepo(db)
	ratings := repository.NewRatingRepo(db)

	ratingSvc := service.NewRatingService(advice, ratings, rdb, cacheCfg.Prefix)

	authHandler := handler.NewAuthHandler(cfg, users, refresh, tokens)
	adviceHandler := handler.NewAdviceHandler(advice)
	ratingHandler := handler.NewRatingHandler(ratingSvc, ratings)
	adminHandler := handler.NewAdminHandler(users, refresh)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, tokens, middleware.NewTokenBucket(rateCfg, rdb))
	router.RegisterAdvice(e, adviceHandler, ratingHandler, tokens, middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterAdmin(e, adminHandler, tokens)

	// Consume rating events in the background; the loop reconnects on broker
	// failures and never takes the API down with it.
	go func() {
		if err := queue.StartRatingConsumer(); err != nil {
			log.Printf("rating consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
