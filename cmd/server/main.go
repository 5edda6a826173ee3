package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/config"
	"github.com/parkease/parking-slot-reservation/internal/database"
	"github.com/parkease/parking-slot-reservation/internal/handler"
	"github.com/parkease/parking-slot-reservation/internal/logging"
	"github.com/parkease/parking-slot-reservation/internal/metrics"
	"github.com/parkease/parking-slot-reservation/internal/middleware"
	"github.com/parkease/parking-slot-reservation/internal/queue"
	"github.com/parkease/parking-slot-reservation/internal/repository"
	"github.com/parkease/parking-slot-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Env)
	metrics.Register()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache disabled and rate limiting falls back to local buckets")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	cities := repository.NewCityRepo(db)
	facilities := repository.NewFacilityRepo(db)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	reports := repository.NewReportRepo(db)
	rewards := repository.NewRewardRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, profiles)
	publicH := handler.NewPublicHandler(cities, facilities, slots)
	availH := handler.NewAvailabilityHandler(facilities, slots)
	ownerH := handler.NewOwnerHandler(facilities, slots, cities, bookings)
	bookingH := handler.NewBookingHandler(slots, bookings, facilities, profiles, log)
	reportH := handler.NewReportHandler(reports)
	rewardH := handler.NewRewardHandler(bookings, rewards)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, availH, cache)
	router.RegisterOwner(e, ownerH, reportH, cfg.JWTSecret)
	router.RegisterRenter(e, bookingH, rewardH, cfg.JWTSecret)

	go func() {
		if err := queue.StartBookingConsumer(log); err != nil {
			log.Warn().Err(err).Msg("booking consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
