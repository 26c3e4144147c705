package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/roamstay/property-rental/internal/config"
	"github.com/roamstay/property-rental/internal/database"
	"github.com/roamstay/property-rental/internal/geocode"
	"github.com/roamstay/property-rental/internal/handler"
	"github.com/roamstay/property-rental/internal/middleware"
	"github.com/roamstay/property-rental/internal/queue"
	"github.com/roamstay/property-rental/internal/repository"
	"github.com/roamstay/property-rental/internal/router"
	"github.com/roamstay/property-rental/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
		cancel()
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; features degrade

	properties := repository.NewPropertyRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent)
	propertySvc := service.NewPropertyService(properties, geocoder, cfg.GeocoderBypass)
	bookingSvc := service.NewBookingService(bookings, properties, users)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	propertyHandler := handler.NewPropertyHandler(propertySvc, properties, bookings, cfg.SearchRadiusMiles)
	bookingHandler := handler.NewBookingHandler(bookingSvc, bookings, properties)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterProperties(e, propertyHandler, bookingHandler, cfg.JWTSecret, cache)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
