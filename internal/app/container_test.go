package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/room-booking-backend/internal/booking"
	"github.com/nekogravitycat/room-booking-backend/internal/db"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
)

// testPool is set when TEST_DB_DSN points at a Postgres database.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	// Attempt to load .env from the repository root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	gin.SetMode(gin.TestMode)

	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		ctx := context.Background()
		pool, err := db.NewPool(ctx, dsn)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			log.Fatalf("Unable to migrate database: %v", err)
		}
		testPool = pool
	}

	exitCode := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	os.Exit(exitCode)
}

func clearTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), "TRUNCATE TABLE public.bookings, public.rooms, public.users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "Failed to clean tables")
}

func executeRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type created struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// runBookingFlow drives the HTTP surface through one booking lifecycle.
func runBookingFlow(t *testing.T, c *Container) {
	w := executeRequest(c.Router, "POST", "/users", map[string]any{"email": "booker@book.com", "name": "Booker"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u created
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))

	w = executeRequest(c.Router, "POST", "/rooms", map[string]any{"name": "Board Room", "capacity": 4, "pricePerHour": 12.5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var r created
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))

	slot := map[string]any{
		"userId":    u.ID,
		"roomId":    r.ID,
		"startTime": "2026-01-21T10:00:00Z",
		"endTime":   "2026-01-21T11:00:00Z",
	}
	w = executeRequest(c.Router, "POST", "/bookings", slot)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b created
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, "confirmed", b.Status)

	w = executeRequest(c.Router, "POST", "/bookings", slot)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = executeRequest(c.Router, "POST", "/bookings/"+itoa(b.ID)+"/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = executeRequest(c.Router, "POST", "/bookings", slot)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = executeRequest(c.Router, "GET", "/rooms/"+itoa(r.ID)+"/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []created
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = executeRequest(c.Router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestContainerWithSQLite(t *testing.T) {
	store, err := db.Open(context.Background(), "sqlite", "", ":memory:")
	require.NoError(t, err)
	defer store.Close()

	c := NewContainer(Config{SQLDB: store.SQL, Clock: clock.MustParse("2026-01-19T09:00:00Z")})
	runBookingFlow(t, c)
}

func TestContainerWithPostgres(t *testing.T) {
	if testPool == nil {
		t.Skip("TEST_DB_DSN not set")
	}
	clearTables(t)

	c := NewContainer(Config{DBPool: testPool, Clock: clock.MustParse("2026-01-19T09:00:00Z")})
	runBookingFlow(t, c)
}

func TestPostgresExclusionConstraint(t *testing.T) {
	if testPool == nil {
		t.Skip("TEST_DB_DSN not set")
	}
	clearTables(t)
	ctx := context.Background()

	c := NewContainer(Config{DBPool: testPool, Clock: clock.MustParse("2026-01-19T09:00:00Z")})
	runBookingFlow(t, c)

	all, err := c.BookingService.List(ctx, booking.Filter{Status: booking.StatusConfirmed})
	require.NoError(t, err)
	require.Len(t, all, 1)
	existing := all[0]

	// Insert directly, bypassing the engine's own check.
	repo := booking.NewPgxRepository(testPool)
	err = repo.Create(ctx, &booking.Booking{
		UserID:    existing.UserID,
		RoomID:    existing.RoomID,
		StartTime: existing.StartTime.Add(30 * time.Minute),
		EndTime:   existing.EndTime.Add(30 * time.Minute),
		Status:    booking.StatusConfirmed,
	})
	assert.ErrorIs(t, err, booking.ErrSlotTaken)
}

func priceRoundTrip(t *testing.T, c *Container) {
	ctx := context.Background()
	price := 12.345

	created, err := c.RoomService.Create(ctx, room.CreateRequest{Name: "Precise Room", Capacity: 2, PricePerHour: &price})
	require.NoError(t, err)

	stored, err := c.RoomService.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PricePerHour)
	assert.Equal(t, price, *stored.PricePerHour)
	assert.Equal(t, *created.PricePerHour, *stored.PricePerHour)
}

func TestRoomPriceKeepsPrecisionSQLite(t *testing.T) {
	store, err := db.Open(context.Background(), "sqlite", "", ":memory:")
	require.NoError(t, err)
	defer store.Close()

	priceRoundTrip(t, NewContainer(Config{SQLDB: store.SQL}))
}

func TestRoomPriceKeepsPrecisionPostgres(t *testing.T) {
	if testPool == nil {
		t.Skip("TEST_DB_DSN not set")
	}
	clearTables(t)

	priceRoundTrip(t, NewContainer(Config{DBPool: testPool}))
}
