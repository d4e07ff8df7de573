package app

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/room-booking-backend/internal/api"
	"github.com/nekogravitycat/room-booking-backend/internal/booking"
	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
// Exactly one of DBPool and SQLDB should be set.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	// TrustedProxies is passed to the router; nil trusts no proxy headers.
	TrustedProxies []string

	DBPool *pgxpool.Pool
	SQLDB  *sql.DB

	Clock  clock.Clock
	Logger *slog.Logger

	RateLimitRPS   float64
	RateLimitBurst int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	UserService    user.Service
	RoomService    room.Service
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	logger := logging.Or(cfg.Logger)

	var (
		userRepo    user.Repository
		roomRepo    room.Repository
		bookingRepo booking.Repository
		healthCheck func(ctx context.Context) error
	)
	if cfg.DBPool != nil {
		userRepo = user.NewPgxRepository(cfg.DBPool)
		roomRepo = room.NewPgxRepository(cfg.DBPool)
		bookingRepo = booking.NewPgxRepository(cfg.DBPool)
		healthCheck = cfg.DBPool.Ping
	} else {
		userRepo = user.NewSQLiteRepository(cfg.SQLDB, clk)
		roomRepo = room.NewSQLiteRepository(cfg.SQLDB, clk)
		bookingRepo = booking.NewSQLiteRepository(cfg.SQLDB, clk)
		healthCheck = cfg.SQLDB.PingContext
	}

	// User Module
	userService := user.NewService(userRepo, logger)

	// Room Module
	roomService := room.NewService(roomRepo, logger)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, userService, roomService, clk, logger)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		HealthCheck:    healthCheck,
		UserService:    userService,
		RoomService:    roomService,
		BookingService: bookingService,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		UserService:    userService,
		RoomService:    roomService,
		BookingService: bookingService,
	}
}
