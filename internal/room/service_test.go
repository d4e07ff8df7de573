package room

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/room-booking-backend/internal/db"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return newLoggedService(t, nil)
}

func newLoggedService(t *testing.T, logger *slog.Logger) Service {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, conn))

	return NewService(NewSQLiteRepository(conn, clock.MustParse("2026-01-19T09:00:00Z")), logger)
}

func ptr[T any](v T) *T { return &v }

func TestCreateRoom(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, CreateRequest{
		Name:         " Conference Room A ",
		Capacity:     20,
		PricePerHour: ptr(50.0),
		KeyFeatures:  ptr("Projector, Whiteboard"),
	})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, "Conference Room A", r.Name)

	stored, err := svc.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Capacity)
	require.NotNil(t, stored.PricePerHour)
	assert.InDelta(t, 50.0, *stored.PricePerHour, 0.001)
	assert.Equal(t, "Projector, Whiteboard", *stored.KeyFeatures)

	_, err = svc.Create(ctx, CreateRequest{Name: "Conference Room A", Capacity: 5})
	assert.ErrorIs(t, err, ErrNameAlreadyExists)
}

func TestCreateRoomWithoutPrice(t *testing.T) {
	svc := newTestService(t)

	r, err := svc.Create(context.Background(), CreateRequest{Name: "Quiet pod", Capacity: 1})
	require.NoError(t, err)
	assert.Nil(t, r.PricePerHour)
	assert.Nil(t, r.KeyFeatures)
}

func TestCreateRoomValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "", Capacity: 0, PricePerHour: ptr(-1.0)})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, "Name is required, Capacity must be a positive integer, Price per hour must be positive", err.Error())
}

func TestListRooms(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, req := range []CreateRequest{
		{Name: "Music room", Capacity: 10, KeyFeatures: ptr("Piano, Soundproofing")},
		{Name: "Conference Room A", Capacity: 20, KeyFeatures: ptr("Projector, Whiteboard")},
		{Name: "Movie room", Capacity: 75, KeyFeatures: ptr("Projector, Surround sound")},
		{Name: "Storage", Capacity: 1},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	names := func(rooms []*Room) []string {
		out := make([]string, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, r.Name)
		}
		return out
	}

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Conference Room A", "Movie room", "Music room", "Storage"}, names(all))

	projector, err := svc.List(ctx, Filter{Feature: "PROJECTOR"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Conference Room A", "Movie room"}, names(projector))

	wildcard, err := svc.List(ctx, Filter{Feature: "%"})
	require.NoError(t, err)
	assert.Empty(t, wildcard)
}

func TestUpdateRoom(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateRequest{Name: "A", Capacity: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "B", Capacity: 2})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, UpdateRequest{Name: ptr("A"), Capacity: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Capacity)

	_, err = svc.Update(ctx, a.ID, UpdateRequest{Name: ptr("B")})
	assert.ErrorIs(t, err, ErrNameAlreadyExists)

	_, err = svc.Update(ctx, a.ID, UpdateRequest{Name: ptr(""), Capacity: ptr(-1)})
	assert.Equal(t, "Name cannot be empty, Capacity must be a positive integer", err.Error())

	_, err = svc.Update(ctx, 404, UpdateRequest{Capacity: ptr(3)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoom(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, CreateRequest{Name: "Temp", Capacity: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), ErrNotFound)
}

func TestFeaturePattern(t *testing.T) {
	assert.Equal(t, "%projector%", featurePattern("Projector"))
	assert.Equal(t, `%50\%\_off%`, featurePattern("50%_off"))
}

func TestUpdateRoomIsLogged(t *testing.T) {
	var buf bytes.Buffer
	svc := newLoggedService(t, slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	r, err := svc.Create(ctx, CreateRequest{Name: "Music room", Capacity: 10})
	require.NoError(t, err)
	_, err = svc.Update(ctx, r.ID, UpdateRequest{Capacity: ptr(12)})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "msg=\"room updated\"")
	assert.Contains(t, buf.String(), "room_id="+strconv.FormatInt(r.ID, 10))
}
