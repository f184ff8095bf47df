package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/models"
	"roomtrack/api/internal/repository"
	"roomtrack/api/internal/security"
)

// ErrInvalidCredentials covers both an unknown register number and a
// wrong password, so a login response never reveals which accounts
// exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByRegisterNumber(ctx context.Context, registerNumber int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, registerNumber int64) error
}

type AuthService struct {
	users UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, cfg: cfg, log: log}
}

type LoginResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Login(ctx context.Context, registerNumber int64, password string) (LoginResult, error) {
	user, err := s.users.FindByRegisterNumber(ctx, registerNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := security.GenerateToken(s.cfg.Security.JWTSecret, user, s.cfg.Security.JWTTTL)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Debug().Int64("register_number", user.RegisterNumber).Msg("user logged in")

	return LoginResult{Token: token, User: user}, nil
}
