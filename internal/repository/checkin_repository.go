package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomtrack/api/internal/models"
)

var (
	ErrAlreadyCheckedIn = errors.New("user already checked in")
	ErrNotCheckedIn     = errors.New("user not checked in to the room")
)

// uniqueViolation is the Postgres error code raised by the partial
// unique index on open check-ins.
const uniqueViolation = "23505"

// CheckinRepository owns every write to the checkins table. The table
// carries a unique index on user_register_number restricted to rows
// with checked_out_at IS NULL, so "at most one open record per user"
// holds in the store itself, across any number of server processes.
type CheckinRepository struct {
	pool *pgxpool.Pool
}

func NewCheckinRepository(pool *pgxpool.Pool) *CheckinRepository {
	return &CheckinRepository{pool: pool}
}

const checkinCols = `id, user_register_number, room, checked_in_at, checked_out_at`

func scanCheckin(row pgx.Row) (models.Checkin, error) {
	var c models.Checkin
	err := row.Scan(&c.ID, &c.UserRegisterNo, &c.Room, &c.CheckedInAt, &c.CheckedOutAt)
	return c, err
}

// CheckIn inserts a new open record. The insert itself is the
// concurrency arbiter: when the user already has an open record the
// partial unique index rejects the row and the caller gets
// ErrAlreadyCheckedIn, whichever room the open record is for. No
// check-then-act window exists.
func (r *CheckinRepository) CheckIn(ctx context.Context, id string, registerNumber int64, room string) (models.Checkin, error) {
	const query = `
		INSERT INTO checkins (id, user_register_number, room, checked_in_at, checked_out_at)
		VALUES ($1, $2, $3, NOW(), NULL)
		RETURNING ` + checkinCols

	checkin, err := scanCheckin(r.pool.QueryRow(ctx, query, id, registerNumber, room))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Checkin{}, ErrAlreadyCheckedIn
		}
		return models.Checkin{}, err
	}
	return checkin, nil
}

// CheckOut closes the user's open record for exactly the given room.
// The conditional UPDATE is atomic: zero rows affected means there was
// no open record for that user/room pair at commit time.
func (r *CheckinRepository) CheckOut(ctx context.Context, registerNumber int64, room string) (models.Checkin, error) {
	const query = `
		UPDATE checkins SET checked_out_at = NOW()
		WHERE user_register_number = $1 AND room = $2 AND checked_out_at IS NULL
		RETURNING ` + checkinCols

	checkin, err := scanCheckin(r.pool.QueryRow(ctx, query, registerNumber, room))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Checkin{}, ErrNotCheckedIn
		}
		return models.Checkin{}, err
	}
	return checkin, nil
}

func (r *CheckinRepository) CountOpenByRoom(ctx context.Context, room string) (int, error) {
	const query = `SELECT COUNT(*) FROM checkins WHERE room = $1 AND checked_out_at IS NULL`

	var count int
	if err := r.pool.QueryRow(ctx, query, room).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpenAll returns open-record counts for every room that has at
// least one, in a single statement so the snapshot is consistent.
func (r *CheckinRepository) CountOpenAll(ctx context.Context) (map[string]int, error) {
	const query = `
		SELECT room, COUNT(*) FROM checkins
		WHERE checked_out_at IS NULL
		GROUP BY room
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var room string
		var count int
		if err := rows.Scan(&room, &count); err != nil {
			return nil, err
		}
		counts[room] = count
	}
	return counts, rows.Err()
}

func (r *CheckinRepository) ListOpenByRoom(ctx context.Context, room string) ([]models.Checkin, error) {
	const query = `
		SELECT ` + checkinCols + ` FROM checkins
		WHERE room = $1 AND checked_out_at IS NULL
		ORDER BY checked_in_at
	`
	return r.queryCheckins(ctx, query, room)
}

func (r *CheckinRepository) ListAll(ctx context.Context) ([]models.Checkin, error) {
	const query = `SELECT ` + checkinCols + ` FROM checkins ORDER BY checked_in_at DESC`
	return r.queryCheckins(ctx, query)
}

// FindOpenByUser returns zero or one record; the partial unique index
// rules out more.
func (r *CheckinRepository) FindOpenByUser(ctx context.Context, registerNumber int64) ([]models.Checkin, error) {
	const query = `
		SELECT ` + checkinCols + ` FROM checkins
		WHERE user_register_number = $1 AND checked_out_at IS NULL
	`
	return r.queryCheckins(ctx, query, registerNumber)
}

// ListClosedBefore feeds the archive job: closed records whose stay
// ended before the cutoff.
func (r *CheckinRepository) ListClosedBefore(ctx context.Context, cutoff time.Time) ([]models.Checkin, error) {
	const query = `
		SELECT ` + checkinCols + ` FROM checkins
		WHERE checked_out_at IS NOT NULL AND checked_out_at < $1
		ORDER BY checked_out_at
	`
	return r.queryCheckins(ctx, query, cutoff)
}

// CloseOlderThan force-closes records that have been open since before
// the cutoff. Used by the janitor job only; normal checkout goes
// through CheckOut.
func (r *CheckinRepository) CloseOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE checkins SET checked_out_at = NOW()
		WHERE checked_out_at IS NULL AND checked_in_at < $1
	`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *CheckinRepository) queryCheckins(ctx context.Context, query string, args ...any) ([]models.Checkin, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkins []models.Checkin
	for rows.Next() {
		checkin, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, checkin)
	}
	return checkins, rows.Err()
}
