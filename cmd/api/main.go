package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/domain/reservation"
	"roombooking/internal/events"
	"roombooking/internal/lock"
	"roombooking/internal/pkg/jwt"
	"roombooking/internal/pkg/logger"
	"roombooking/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, config.IsProdLike(cfg.AppEnv))
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	if err := server.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}

	var locker reservation.Locker = lock.NewKeyed()
	if client := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); client != nil {
		defer client.Close()
		locker = lock.NewRedis(client, cfg.LockTTL)
	}

	var publisher reservation.EventPublisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		rp := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
		defer rp.Close()
		publisher = rp
	}

	router := server.NewRouter(server.Deps{
		DB:                    db,
		JWT:                   jwt.New(cfg.JWTSecret, cfg.JWTTTL),
		BcryptCost:            cfg.BcryptCost,
		Locker:                locker,
		Publisher:             publisher,
		CORSOrigins:           cfg.CORSAllowedOrigins,
		ReservationsAdminOnly: cfg.ReservationsAdminOnly,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logrus.Info("shutting down")
	if err := server.Shutdown(srv, 10*time.Second); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
