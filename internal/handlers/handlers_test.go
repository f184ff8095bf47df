package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/models"
	"roomtrack/api/internal/repository"
	"roomtrack/api/internal/security"
	"roomtrack/api/internal/service"
)

// In-memory stores mirroring the Postgres semantics, so the full
// route -> middleware -> service chain runs without a database.

type memUserStore struct {
	mu    sync.Mutex
	users map[int64]models.User
}

func (m *memUserStore) Create(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.RegisterNumber]; ok {
		return repository.ErrUserExists
	}
	m.users[user.RegisterNumber] = user
	return nil
}

func (m *memUserStore) FindByRegisterNumber(_ context.Context, registerNumber int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[registerNumber]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *memUserStore) Update(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.RegisterNumber]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[user.RegisterNumber] = user
	return nil
}

func (m *memUserStore) Delete(_ context.Context, registerNumber int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[registerNumber]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, registerNumber)
	return nil
}

type memCheckinStore struct {
	mu       sync.Mutex
	checkins []models.Checkin
}

func (m *memCheckinStore) CheckIn(_ context.Context, id string, registerNumber int64, room string) (models.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.checkins {
		if c.UserRegisterNo == registerNumber && c.Open() {
			return models.Checkin{}, repository.ErrAlreadyCheckedIn
		}
	}
	checkin := models.Checkin{ID: id, UserRegisterNo: registerNumber, Room: room, CheckedInAt: time.Now()}
	m.checkins = append(m.checkins, checkin)
	return checkin, nil
}

func (m *memCheckinStore) CheckOut(_ context.Context, registerNumber int64, room string) (models.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.checkins {
		if c.UserRegisterNo == registerNumber && c.Room == room && c.Open() {
			now := time.Now()
			m.checkins[i].CheckedOutAt = &now
			return m.checkins[i], nil
		}
	}
	return models.Checkin{}, repository.ErrNotCheckedIn
}

func (m *memCheckinStore) CountOpenByRoom(_ context.Context, room string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.checkins {
		if c.Room == room && c.Open() {
			count++
		}
	}
	return count, nil
}

func (m *memCheckinStore) CountOpenAll(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, c := range m.checkins {
		if c.Open() {
			counts[c.Room]++
		}
	}
	return counts, nil
}

func (m *memCheckinStore) ListOpenByRoom(_ context.Context, room string) ([]models.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open []models.Checkin
	for _, c := range m.checkins {
		if c.Room == room && c.Open() {
			open = append(open, c)
		}
	}
	return open, nil
}

func (m *memCheckinStore) ListAll(_ context.Context) ([]models.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Checkin(nil), m.checkins...), nil
}

func (m *memCheckinStore) FindOpenByUser(_ context.Context, registerNumber int64) ([]models.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open []models.Checkin
	for _, c := range m.checkins {
		if c.UserRegisterNo == registerNumber && c.Open() {
			open = append(open, c)
		}
	}
	return open, nil
}

func (m *memCheckinStore) ListClosedBefore(_ context.Context, cutoff time.Time) ([]models.Checkin, error) {
	return nil, nil
}

func (m *memCheckinStore) CloseOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type memRoomStore struct {
	rooms map[string]models.Room
}

func (m *memRoomStore) Get(_ context.Context, name string) (models.Room, error) {
	room, ok := m.rooms[name]
	if !ok {
		return models.Room{}, repository.ErrRoomNotFound
	}
	return room, nil
}

func (m *memRoomStore) List(_ context.Context) ([]models.Room, error) {
	rooms := make([]models.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func testRouter(t *testing.T) (*gin.Engine, *memUserStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security:    config.SecurityConfig{JWTSecret: "test-secret", JWTTTL: time.Hour},
	}
	logger := zerolog.Nop()

	adminHash, err := security.HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	studentHash, err := security.HashPassword("student123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	users := &memUserStore{users: map[int64]models.User{
		0: {RegisterNumber: 0, Name: "admin", PasswordHash: adminHash, Role: models.RoleAdmin},
		1: {RegisterNumber: 1, Name: "student1", PasswordHash: studentHash, Role: models.RoleUser},
	}}
	checkins := &memCheckinStore{}
	rooms := &memRoomStore{rooms: map[string]models.Room{
		"CLA001": {Name: "CLA001", Capacity: 100},
	}}

	handlerSet := HandlerSet{
		log:      logger,
		cfg:      cfg,
		users:    users,
		auth:     service.NewAuthService(users, cfg, logger),
		checkins: service.NewCheckinService(checkins, logger),
		rooms:    service.NewRoomService(rooms, checkins),
		accounts: service.NewUserService(users, logger),
	}

	router := gin.New()
	handlerSet.Register(router)
	return router, users
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router *gin.Engine, registerNumber int64, password string) string {
	t.Helper()

	rec := doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"registerNumber": registerNumber,
		"password":       password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			RegisterNumber int64  `json:"registerNumber"`
			Role           string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token in login response")
	}
	return resp.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"registerNumber": 1, "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "invalid_credentials")
}

func TestLoginResponseOmitsHash(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"registerNumber": 1, "password": "student123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("argon2")) {
		t.Fatalf("password hash leaked in login response")
	}
}

func TestCheckinFlow(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 1, "student123")

	// Check in.
	rec := doJSON(router, http.MethodPost, "/checkins/checkin", token, gin.H{"room": "CLA001"})
	if rec.Code != http.StatusOK {
		t.Fatalf("check in: %d %s", rec.Code, rec.Body.String())
	}

	// Occupancy dropped.
	rec = doJSON(router, http.MethodGet, "/rooms/CLA001", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get room: %d", rec.Code)
	}
	var view models.RoomView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode room view: %v", err)
	}
	if view.CurrentOccupancy != 99 {
		t.Fatalf("expected 99 free places, got %d", view.CurrentOccupancy)
	}

	// Second check-in conflicts.
	rec = doJSON(router, http.MethodPost, "/checkins/checkin", token, gin.H{"room": "CLA001"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 conflict, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "already_checked_in")

	// Current returns the single open record.
	rec = doJSON(router, http.MethodGet, "/checkins/current", token, nil)
	var current []models.Checkin
	if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode current: %v", err)
	}
	if len(current) != 1 || current[0].Room != "CLA001" {
		t.Fatalf("unexpected current checkins: %+v", current)
	}

	// Check out, then occupancy recovers.
	rec = doJSON(router, http.MethodPost, "/checkins/checkout", token, gin.H{"room": "CLA001"})
	if rec.Code != http.StatusOK {
		t.Fatalf("check out: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(router, http.MethodGet, "/rooms/CLA001", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode room view: %v", err)
	}
	if view.CurrentOccupancy != 100 {
		t.Fatalf("expected 100 after checkout, got %d", view.CurrentOccupancy)
	}
}

func TestCheckOutWithoutOpenRecord(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 1, "student123")

	rec := doJSON(router, http.MethodPost, "/checkins/checkout", token, gin.H{"room": "CLA001"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "not_checked_in")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := testRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/checkins/checkin"},
		{http.MethodGet, "/rooms/CLA001"},
		{http.MethodGet, "/users/"},
	} {
		rec := doJSON(router, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
		assertErrorCode(t, rec, "no_token")
	}
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 1, "student123")

	rec := doJSON(router, http.MethodGet, "/users/", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "forbidden")
}

// Admins manage accounts but cannot check in; check-in is a user-role
// action.
func TestCheckinForbiddenForAdmin(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 0, "admin123")

	rec := doJSON(router, http.MethodPost, "/checkins/checkin", token, gin.H{"room": "CLA001"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUserLifecycleByAdmin(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 0, "admin123")

	// Create.
	rec := doJSON(router, http.MethodPost, "/users/", token, gin.H{
		"registerNumber": 7, "name": "student7", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create user: %d %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("argon2")) {
		t.Fatalf("password hash leaked in create response")
	}

	// The new account can log in.
	studentToken := login(t, router, 7, "secret123")
	if studentToken == "" {
		t.Fatalf("expected new account to authenticate")
	}

	// Update the name.
	rec = doJSON(router, http.MethodPut, "/users/", token, gin.H{
		"registerNumber": 7, "name": "renamed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update user: %d %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Name != "renamed" {
		t.Fatalf("expected renamed, got %q", updated.Name)
	}

	// Delete.
	rec = doJSON(router, http.MethodDelete, "/users/", token, gin.H{"registerNumber": 7})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete user: %d %s", rec.Code, rec.Body.String())
	}

	// The deleted account's token stops working immediately.
	rec = doJSON(router, http.MethodGet, "/checkins/current", studentToken, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "user_not_found")
}

func TestCreateUserDuplicateRegisterNumber(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 0, "admin123")

	rec := doJSON(router, http.MethodPost, "/users/", token, gin.H{
		"registerNumber": 1, "name": "impostor", "password": "secret123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate register number, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "user_exists")
}

func TestDeleteAdminRefused(t *testing.T) {
	router, users := testRouter(t)
	token := login(t, router, 0, "admin123")

	rec := doJSON(router, http.MethodDelete, "/users/", token, gin.H{"registerNumber": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "cannot_delete_admin")

	if _, err := users.FindByRegisterNumber(context.Background(), 0); err != nil {
		t.Fatalf("expected admin account to survive: %v", err)
	}
}

func TestRoomNotFoundStatus(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 1, "student123")

	rec := doJSON(router, http.MethodGet, "/rooms/NOPE", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "room_not_found")
}

func TestValidationRejectedBeforeLedger(t *testing.T) {
	router, _ := testRouter(t)
	token := login(t, router, 1, "student123")

	rec := doJSON(router, http.MethodPost, "/checkins/checkin", token, gin.H{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, rec, "validation_error")
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, rec.Body.String())
	}
	if resp.Error != code {
		t.Fatalf("expected error code %q, got %q", code, resp.Error)
	}
}
