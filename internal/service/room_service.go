package service

import (
	"context"

	"roomtrack/api/internal/models"
)

type RoomStore interface {
	Get(ctx context.Context, name string) (models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
}

// RoomService composes static room metadata with live occupancy from
// the check-in ledger. It never writes check-in records.
type RoomService struct {
	rooms    RoomStore
	checkins CheckinStore
}

func NewRoomService(rooms RoomStore, checkins CheckinStore) *RoomService {
	return &RoomService{rooms: rooms, checkins: checkins}
}

func (s *RoomService) Get(ctx context.Context, name string) (models.RoomView, error) {
	room, err := s.rooms.Get(ctx, name)
	if err != nil {
		return models.RoomView{}, err
	}

	open, err := s.checkins.CountOpenByRoom(ctx, room.Name)
	if err != nil {
		return models.RoomView{}, err
	}

	return viewOf(room, open), nil
}

func (s *RoomService) List(ctx context.Context) ([]models.RoomView, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.checkins.CountOpenAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, viewOf(room, counts[room.Name]))
	}
	return views, nil
}

func viewOf(room models.Room, open int) models.RoomView {
	return models.RoomView{
		Name:             room.Name,
		Capacity:         room.Capacity,
		CurrentOccupancy: room.Capacity - open,
	}
}
