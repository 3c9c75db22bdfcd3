package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	engineOpts := []catalog.Option{
		catalog.WithLimits(cfg.DefaultPageLimit, cfg.MaxPageLimit),
		catalog.WithFeaturedLimit(cfg.FeaturedLimit),
		catalog.WithFeaturedLoadTimeout(cfg.RequestTimeout),
	}

	deps := handlers.Dependencies{
		Users:     database.NewUserStore(db),
		Orders:    database.NewOrderStore(db),
		Admin:     database.NewCatalogAdminStore(db),
		JWTSecret: cfg.JWTSecret,
		AccessTTL: cfg.AccessTokenTTL,
		Timeout:   cfg.RequestTimeout,
	}

	r := gin.Default()
	r.Use(middleware.RequestID())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Printf("redis disabled: %v", err)
		} else {
			featured := cache.NewRedisFeaturedCache(redisClient, cfg.FeaturedCacheTTL)
			engineOpts = append(engineOpts, catalog.WithFeaturedCache(featured))
			deps.Featured = featured
			r.Use(middleware.RateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
	}

	deps.Engine = catalog.NewEngine(database.NewProductStore(db), engineOpts...)

	if err := handlers.RegisterRoutes(r, deps); err != nil {
		log.Fatal(err)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
