package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"roomtrack/api/internal/ids"
	"roomtrack/api/internal/models"
)

var ErrRoomRequired = errors.New("room is required")

// CheckinStore is the Occupancy Ledger's storage contract. CheckIn and
// CheckOut must be atomic as a unit in the store (the Postgres
// implementation relies on a partial unique index and conditional
// UPDATE); the service adds no locking of its own.
type CheckinStore interface {
	CheckIn(ctx context.Context, id string, registerNumber int64, room string) (models.Checkin, error)
	CheckOut(ctx context.Context, registerNumber int64, room string) (models.Checkin, error)
	CountOpenByRoom(ctx context.Context, room string) (int, error)
	CountOpenAll(ctx context.Context) (map[string]int, error)
	ListOpenByRoom(ctx context.Context, room string) ([]models.Checkin, error)
	ListAll(ctx context.Context) ([]models.Checkin, error)
	FindOpenByUser(ctx context.Context, registerNumber int64) ([]models.Checkin, error)
	ListClosedBefore(ctx context.Context, cutoff time.Time) ([]models.Checkin, error)
	CloseOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type CheckinService struct {
	checkins CheckinStore
	log      zerolog.Logger
}

func NewCheckinService(checkins CheckinStore, log zerolog.Logger) *CheckinService {
	return &CheckinService{checkins: checkins, log: log}
}

// CheckIn opens a stay for the user. Fails ErrAlreadyCheckedIn when
// the user has an open record anywhere, whichever wins the race.
func (s *CheckinService) CheckIn(ctx context.Context, user models.User, room string) (models.Checkin, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return models.Checkin{}, ErrRoomRequired
	}

	checkin, err := s.checkins.CheckIn(ctx, ids.New(), user.RegisterNumber, room)
	if err != nil {
		return models.Checkin{}, err
	}

	s.log.Info().
		Int64("register_number", user.RegisterNumber).
		Str("room", room).
		Msg("checked in")

	return checkin, nil
}

// CheckOut closes the user's open stay in exactly the given room; an
// open stay in a different room fails ErrNotCheckedIn rather than
// being closed silently.
func (s *CheckinService) CheckOut(ctx context.Context, user models.User, room string) (models.Checkin, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return models.Checkin{}, ErrRoomRequired
	}

	checkin, err := s.checkins.CheckOut(ctx, user.RegisterNumber, room)
	if err != nil {
		return models.Checkin{}, err
	}

	s.log.Info().
		Int64("register_number", user.RegisterNumber).
		Str("room", room).
		Msg("checked out")

	return checkin, nil
}

// Current returns the user's open record, as a slice of zero or one.
func (s *CheckinService) Current(ctx context.Context, user models.User) ([]models.Checkin, error) {
	return s.checkins.FindOpenByUser(ctx, user.RegisterNumber)
}

func (s *CheckinService) ListAll(ctx context.Context) ([]models.Checkin, error) {
	return s.checkins.ListAll(ctx)
}
