package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roombooking/internal/database"
	"roombooking/internal/domain/auth"
	"roombooking/internal/domain/catalog"
	"roombooking/internal/domain/reservation"
	"roombooking/internal/middleware"
	"roombooking/internal/pkg/jwt"
)

type Deps struct {
	DB         *gorm.DB
	JWT        *jwt.Service
	BcryptCost int
	Locker     reservation.Locker
	Publisher  reservation.EventPublisher

	CORSOrigins           []string
	ReservationsAdminOnly bool
}

// Migrate creates every table the API needs.
func Migrate(db *gorm.DB) error {
	return database.Migrate(db, auth.AutoMigrate, catalog.AutoMigrate, reservation.AutoMigrate)
}

// NewRouter wires repositories, services and handlers under /api.
func NewRouter(d Deps) *gin.Engine {
	userRepo := auth.NewUserRepository(d.DB)
	roomRepo := catalog.NewRoomRepository(d.DB)

	authService := auth.NewService(userRepo, d.JWT, d.BcryptCost)
	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalog.NewService(roomRepo))
	reservationService := reservation.NewService(
		reservation.NewRepository(d.DB),
		reservation.NewDirectory(d.DB),
		d.Locker,
		d.Publisher,
	)
	reservationHandler := reservation.NewHandler(reservationService)

	r := gin.New()
	r.Use(middleware.ErrorLogger(), middleware.Logger(), middleware.CORS(d.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), d.DB, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)

		// protected
		protected := api.Group("")
		protected.Use(middleware.JWTAuth(d.JWT, authService))
		authHandler.RegisterProtectedRoutes(protected)
		authHandler.RegisterAdminRoutes(protected)
		reservationHandler.RegisterRoutes(protected, d.ReservationsAdminOnly)
	}

	return r
}

// Shutdown stops srv, waiting at most timeout for in-flight requests.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
