package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomtrack/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userCols = `register_number, name, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.RegisterNumber,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (register_number, name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		user.RegisterNumber,
		user.Name,
		user.PasswordHash,
		user.Role,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUserExists
	}
	return err
}

func (r *UserRepository) FindByRegisterNumber(ctx context.Context, registerNumber int64) (models.User, error) {
	const query = `SELECT ` + userCols + ` FROM users WHERE register_number = $1`
	return scanUser(r.pool.QueryRow(ctx, query, registerNumber))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userCols + ` FROM users ORDER BY register_number`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update rewrites name and password hash in place. Role is not
// updatable through the API; the seed admin keeps its role for the
// lifetime of the deployment.
func (r *UserRepository) Update(ctx context.Context, user models.User) error {
	const query = `
		UPDATE users SET name = $2, password_hash = $3, updated_at = NOW()
		WHERE register_number = $1
	`
	cmd, err := r.pool.Exec(ctx, query, user.RegisterNumber, user.Name, user.PasswordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, registerNumber int64) error {
	const query = `DELETE FROM users WHERE register_number = $1`
	cmd, err := r.pool.Exec(ctx, query, registerNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
