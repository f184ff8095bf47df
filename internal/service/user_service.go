package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"roomtrack/api/internal/models"
	"roomtrack/api/internal/security"
)

var (
	ErrCannotDeleteAdmin = errors.New("cannot delete admin user")
	ErrNameRequired      = errors.New("name is required")
	ErrPasswordRequired  = errors.New("password is required")
)

// UserService holds the admin-gated account operations. Authorization
// happens upstream in the middleware gate; the service only enforces
// account-level rules.
type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Create registers a new account. Accounts created through the API are
// always plain users; the seed data is the only source of admins.
func (s *UserService) Create(ctx context.Context, registerNumber int64, name, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, ErrNameRequired
	}
	if password == "" {
		return models.User{}, ErrPasswordRequired
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		RegisterNumber: registerNumber,
		Name:           name,
		PasswordHash:   hash,
		Role:           models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Int64("register_number", registerNumber).Msg("user created")
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Update changes the display name and/or password of an existing
// account; empty fields keep their current value.
func (s *UserService) Update(ctx context.Context, registerNumber int64, name, password string) (models.User, error) {
	user, err := s.users.FindByRegisterNumber(ctx, registerNumber)
	if err != nil {
		return models.User{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if password != "" {
		hash, err := security.HashPassword(password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Int64("register_number", registerNumber).Msg("user updated")
	return user, nil
}

// Delete removes an account. Admin accounts cannot be deleted; the
// check runs before any write so a refused delete leaves the record
// untouched.
func (s *UserService) Delete(ctx context.Context, registerNumber int64) error {
	user, err := s.users.FindByRegisterNumber(ctx, registerNumber)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrCannotDeleteAdmin
	}

	if err := s.users.Delete(ctx, registerNumber); err != nil {
		return err
	}

	s.log.Info().Int64("register_number", registerNumber).Msg("user deleted")
	return nil
}
