package main

import (
	"context"
	"errors"
	"fmt"

	"cardpay/internal/config"
	"cardpay/internal/logger"
	"cardpay/internal/models"
	"cardpay/internal/repositories"
	"cardpay/internal/utils"
	"cardpay/internal/validation"

	"github.com/sirupsen/logrus"
)

func runSeedAdmin(ctx context.Context, cfg config.Config, name, email, password string) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := repositories.InitDB(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	repo := repositories.NewUserRepository(db.WithContext(ctx), nil, logger.Component(log, "user_repository"))
	_, err = seedAdmin(repo, logger.Component(log, "seed"), name, email, password)
	return err
}

// seedAdmin creates an admin account unless the email is already registered.
// It reports whether a user was created.
func seedAdmin(repo repositories.UserRepository, log *logrus.Entry, name, email, password string) (bool, error) {
	req := validation.RegisterRequest{Name: name, Email: email, Password: password}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return false, fmt.Errorf("invalid admin account: %w", err)
	}

	existing, err := repo.GetByEmail(req.Email)
	switch {
	case err == nil:
		log.WithField("user_id", existing.ID).Info("admin user already exists")
		return false, nil
	case !errors.Is(err, repositories.ErrUserNotFound):
		return false, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Email:        req.Email,
		Password:     hash,
		Name:         req.Name,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}
	if err := repo.Create(admin); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	log.WithField("user_id", admin.ID).Info("admin account created")
	return true, nil
}
