package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/middleware"
	"roomtrack/api/internal/models"
	"roomtrack/api/internal/repository"
	"roomtrack/api/internal/service"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	db       *pgxpool.Pool
	cache    *redis.Client
	users    middleware.UserFinder
	auth     *service.AuthService
	checkins *service.CheckinService
	rooms    *service.RoomService
	accounts *service.UserService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		db:       db,
		cache:    cache,
		users:    userRepo,
		auth:     service.NewAuthService(userRepo, cfg, log),
		checkins: service.NewCheckinService(checkinRepo, log),
		rooms:    service.NewRoomService(roomRepo, checkinRepo),
		accounts: service.NewUserService(userRepo, log),
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/login", middleware.RateLimit(h.cfg.RateLimit, h.cache, h.log), h.Login)

	checkins := router.Group("/checkins")
	checkins.Use(middleware.Auth(h.cfg, h.users))
	checkins.POST("/checkin", middleware.RequireRoles(models.RoleUser), h.CheckIn)
	checkins.POST("/checkout", middleware.RequireRoles(models.RoleUser), h.CheckOut)
	checkins.GET("/", middleware.RequireRoles(models.RoleAdmin, models.RoleUser), h.ListAllCheckins)
	checkins.GET("/current", middleware.RequireRoles(models.RoleUser), h.CurrentCheckin)

	rooms := router.Group("/rooms")
	rooms.Use(middleware.Auth(h.cfg, h.users))
	rooms.GET("/", h.ListRooms)
	rooms.GET("/:name", h.GetRoom)

	users := router.Group("/users")
	users.Use(middleware.Auth(h.cfg, h.users), middleware.RequireRoles(models.RoleAdmin))
	users.POST("/", h.CreateUser)
	users.GET("/", h.ListUsers)
	users.PUT("/", h.UpdateUser)
	users.DELETE("/", h.DeleteUser)
}
