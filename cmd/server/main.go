// Entry point for the PNRGOV generation service.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CkHanchey/pnrgov/internal/config"
	"github.com/CkHanchey/pnrgov/internal/database"
	"github.com/CkHanchey/pnrgov/internal/edifact"
	"github.com/CkHanchey/pnrgov/internal/handler"
	"github.com/CkHanchey/pnrgov/internal/middleware"
	"github.com/CkHanchey/pnrgov/internal/queue"
	"github.com/CkHanchey/pnrgov/internal/repository"
	"github.com/CkHanchey/pnrgov/internal/router"
	"github.com/CkHanchey/pnrgov/internal/sample"
	queue_publisher "github.com/CkHanchey/pnrgov/internal/service"
	"github.com/CkHanchey/pnrgov/pkg/logger"
	"github.com/CkHanchey/pnrgov/pkg/metrics"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logger.NewLogger()
	m := metrics.NewMetrics("pnrgov")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	reservations := repository.NewReservationRepo(db)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := sample.NewGenerator(rng)
	enc := edifact.NewEncoder(rng)
	man := edifact.NewManifestEncoder(enc, gen)
	pub := queue_publisher.New(cfg.RabbitURL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}
	e.Use(middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users),
		Reservation: handler.NewReservationHandler(reservations, log, m),
		Sample:      handler.NewSampleHandler(gen, reservations, log, m),
		Edifact: handler.NewEdifactHandler(enc, man, gen, reservations, pub,
			log, m, cfg.DefaultReceiver),
		JWTSecret: cfg.JWTSecret,
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// The consumer runs its own reconnect loop for the life of the process.
	go func() {
		if err := queue.StartEdifactConsumer(cfg.RabbitURL); err != nil {
			log.Error("edifact consumer stopped", "error", err)
		}
	}()

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
