// Command seed provisions the development accounts: one admin
// (register number 0) and four regular users. Passwords are hashed
// with the application's own argon2id parameters.
package main

import (
	"context"
	"flag"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/database"
	"roomtrack/api/internal/log"
	"roomtrack/api/internal/models"
	"roomtrack/api/internal/repository"
	"roomtrack/api/internal/security"
)

func main() {
	adminPassword := flag.String("admin-password", "admin123", "password for the admin account")
	userPassword := flag.String("user-password", "student123", "password for the seeded user accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := log.New(cfg.Environment)

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	seed := []struct {
		registerNumber int64
		name           string
		password       string
		role           models.Role
	}{
		{0, "admin", *adminPassword, models.RoleAdmin},
		{1, "student1", *userPassword, models.RoleUser},
		{2, "student2", *userPassword, models.RoleUser},
		{3, "student3", *userPassword, models.RoleUser},
		{4, "student4", *userPassword, models.RoleUser},
	}

	for _, entry := range seed {
		if _, err := users.FindByRegisterNumber(ctx, entry.registerNumber); err == nil {
			logger.Info().Int64("register_number", entry.registerNumber).Msg("account exists, skipping")
			continue
		}

		hash, err := security.HashPassword(entry.password)
		if err != nil {
			logger.Fatal().Err(err).Msg("hash password")
		}

		user := models.User{
			RegisterNumber: entry.registerNumber,
			Name:           entry.name,
			PasswordHash:   hash,
			Role:           entry.role,
		}
		if err := users.Create(ctx, user); err != nil {
			logger.Fatal().Err(err).Int64("register_number", entry.registerNumber).Msg("create account")
		}
		logger.Info().Int64("register_number", entry.registerNumber).Str("role", string(entry.role)).Msg("account seeded")
	}
}
