package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/auth"
	"github.com/iliyamo/appointment-scheduler/internal/config"
	"github.com/iliyamo/appointment-scheduler/internal/database"
	"github.com/iliyamo/appointment-scheduler/internal/handler"
	"github.com/iliyamo/appointment-scheduler/internal/middleware"
	"github.com/iliyamo/appointment-scheduler/internal/queue"
	"github.com/iliyamo/appointment-scheduler/internal/repository"
	"github.com/iliyamo/appointment-scheduler/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	hospitalRepo := repository.NewHospitalRepo(db)
	personRepo := repository.NewPersonRepo(db)
	appointmentRepo := repository.NewAppointmentRepo(db)

	mgr := auth.NewManager(auth.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		BcryptCost: cfg.BcryptCost,
	}, userRepo)

	authHandler := handler.NewAuthHandler(cfg, mgr)
	hospitalHandler := handler.NewHospitalHandler(hospitalRepo, personRepo)
	personHandler := handler.NewPersonHandler(personRepo)
	appointmentHandler := handler.NewAppointmentHandler(appointmentRepo, personRepo, hospitalRepo, userRepo)

	// Redis backs the login rate limiter and the browse-route response
	// cache. Both degrade to pass-through when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, mgr, limiter)
	router.RegisterAPI(e, hospitalHandler, personHandler, appointmentHandler, userRepo, mgr, cache)

	// Background consumer for appointment.booked events; runs its own
	// reconnect loop.
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
