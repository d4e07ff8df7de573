package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nekogravitycat/room-booking-backend/internal/app"
	"github.com/nekogravitycat/room-booking-backend/internal/config"
	"github.com/nekogravitycat/room-booking-backend/internal/db"
	"github.com/nekogravitycat/room-booking-backend/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	store, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	c := app.NewContainer(app.Config{
		DBPool: store.Pool,
		SQLDB:  store.SQL,
		Logger: logger,
	})

	res, err := seed.Run(ctx, c.UserService, c.RoomService, c.BookingService, logger)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	for _, r := range res.Rooms {
		logger.Info("room", "id", r.ID, "name", r.Name, "capacity", r.Capacity)
	}
	logger.Info("user", "id", res.User.ID, "email", res.User.Email)
	if res.Booking != nil {
		logger.Info("booking", "id", res.Booking.ID, "start", res.Booking.StartTime, "end", res.Booking.EndTime)
	}
}
