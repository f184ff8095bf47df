package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomtrack/api/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

func (r *RoomRepository) Get(ctx context.Context, name string) (models.Room, error) {
	const query = `SELECT name, capacity FROM rooms WHERE name = $1`

	var room models.Room
	if err := r.pool.QueryRow(ctx, query, name).Scan(&room.Name, &room.Capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, err
	}
	return room, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT name, capacity FROM rooms ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.Name, &room.Capacity); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
