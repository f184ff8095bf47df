package service

import (
	"context"
	"sync"
	"time"

	"roomtrack/api/internal/models"
	"roomtrack/api/internal/repository"
)

// fakeUserStore is a map-backed UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[int64]models.User)}
	for _, user := range users {
		store.users[user.RegisterNumber] = user
	}
	return store
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.RegisterNumber] = user
	return nil
}

func (f *fakeUserStore) FindByRegisterNumber(_ context.Context, registerNumber int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[registerNumber]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeUserStore) Update(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.RegisterNumber]; !ok {
		return repository.ErrUserNotFound
	}
	f.users[user.RegisterNumber] = user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, registerNumber int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[registerNumber]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, registerNumber)
	return nil
}

// fakeCheckinStore mirrors the Postgres ledger semantics: the
// one-open-record-per-user rule is enforced atomically under a mutex,
// the way the partial unique index enforces it in the real store.
type fakeCheckinStore struct {
	mu       sync.Mutex
	checkins []models.Checkin
}

func (f *fakeCheckinStore) CheckIn(_ context.Context, id string, registerNumber int64, room string) (models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.checkins {
		if c.UserRegisterNo == registerNumber && c.Open() {
			return models.Checkin{}, repository.ErrAlreadyCheckedIn
		}
	}

	checkin := models.Checkin{
		ID:             id,
		UserRegisterNo: registerNumber,
		Room:           room,
		CheckedInAt:    time.Now(),
	}
	f.checkins = append(f.checkins, checkin)
	return checkin, nil
}

func (f *fakeCheckinStore) CheckOut(_ context.Context, registerNumber int64, room string) (models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, c := range f.checkins {
		if c.UserRegisterNo == registerNumber && c.Room == room && c.Open() {
			now := time.Now()
			f.checkins[i].CheckedOutAt = &now
			return f.checkins[i], nil
		}
	}
	return models.Checkin{}, repository.ErrNotCheckedIn
}

func (f *fakeCheckinStore) CountOpenByRoom(_ context.Context, room string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, c := range f.checkins {
		if c.Room == room && c.Open() {
			count++
		}
	}
	return count, nil
}

func (f *fakeCheckinStore) CountOpenAll(_ context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[string]int)
	for _, c := range f.checkins {
		if c.Open() {
			counts[c.Room]++
		}
	}
	return counts, nil
}

func (f *fakeCheckinStore) ListOpenByRoom(_ context.Context, room string) ([]models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var open []models.Checkin
	for _, c := range f.checkins {
		if c.Room == room && c.Open() {
			open = append(open, c)
		}
	}
	return open, nil
}

func (f *fakeCheckinStore) ListAll(_ context.Context) ([]models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Checkin(nil), f.checkins...), nil
}

func (f *fakeCheckinStore) FindOpenByUser(_ context.Context, registerNumber int64) ([]models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var open []models.Checkin
	for _, c := range f.checkins {
		if c.UserRegisterNo == registerNumber && c.Open() {
			open = append(open, c)
		}
	}
	return open, nil
}

func (f *fakeCheckinStore) ListClosedBefore(_ context.Context, cutoff time.Time) ([]models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var closed []models.Checkin
	for _, c := range f.checkins {
		if !c.Open() && c.CheckedOutAt.Before(cutoff) {
			closed = append(closed, c)
		}
	}
	return closed, nil
}

func (f *fakeCheckinStore) CloseOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var closed int64
	now := time.Now()
	for i, c := range f.checkins {
		if c.Open() && c.CheckedInAt.Before(cutoff) {
			f.checkins[i].CheckedOutAt = &now
			closed++
		}
	}
	return closed, nil
}

// fakeRoomStore is a fixed room directory.
type fakeRoomStore struct {
	rooms map[string]models.Room
}

func newFakeRoomStore(rooms ...models.Room) *fakeRoomStore {
	store := &fakeRoomStore{rooms: make(map[string]models.Room)}
	for _, room := range rooms {
		store.rooms[room.Name] = room
	}
	return store
}

func (f *fakeRoomStore) Get(_ context.Context, name string) (models.Room, error) {
	room, ok := f.rooms[name]
	if !ok {
		return models.Room{}, repository.ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeRoomStore) List(_ context.Context) ([]models.Room, error) {
	rooms := make([]models.Room, 0, len(f.rooms))
	for _, room := range f.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}
