package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/domain/auth"
	"roombooking/internal/domain/catalog"
	"roombooking/internal/pkg/logger"
	"roombooking/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, false)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("DB connection failed")
	}

	logrus.Info("Running AutoMigrate...")
	if err := server.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("AutoMigrate failed")
	}

	// ================== ROOMS ==================
	n, err := catalog.NewService(catalog.NewRoomRepository(db)).Seed(ctx, catalog.DefaultRooms())
	if err != nil {
		logrus.WithError(err).Fatal("seeding rooms failed")
	}
	logrus.WithField("created", n).Info("rooms seeded")

	// ================== ADMIN ==================
	users := auth.NewUserRepository(db)
	exists, err := users.ExistsByEmail(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		logrus.WithError(err).Fatal("looking up admin failed")
	}
	if exists {
		logrus.WithField("email", cfg.Seed.AdminEmail).Info("admin already exists")
		return
	}

	hash, err := auth.NewService(users, nil, cfg.BcryptCost).HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		logrus.WithError(err).Fatal("hashing admin password failed")
	}
	err = users.Create(ctx, &auth.User{
		ID:           uuid.NewString(),
		Name:         cfg.Seed.AdminName,
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	})
	if err != nil && !errors.Is(err, auth.ErrEmailAlreadyExists) {
		logrus.WithError(err).Fatal("creating admin failed")
	}
	logrus.WithField("email", cfg.Seed.AdminEmail).Info("admin created")
}
