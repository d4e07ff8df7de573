package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	// GetByID returns the booking joined with its user and room.
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// List returns joined bookings ordered by start time.
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id int64) error

	// ListActiveByRoom returns the non-cancelled bookings of the room whose
	// span intersects window. Rows are not joined.
	ListActiveByRoom(ctx context.Context, roomID int64, window Interval) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var joinedColumns = []string{
	"b.id", "b.user_id", "b.room_id", "b.start_time", "b.end_time", "b.status", "b.description", "b.created_at", "b.updated_at",
	"u.id", "u.email", "u.name", "u.created_at", "u.updated_at",
	"r.id", "r.name", "r.capacity", "r.price_per_hour", "r.key_features", "r.created_at", "r.updated_at",
}

var bookingColumns = []string{
	"id", "user_id", "room_id", "start_time", "end_time", "status", "description", "created_at", "updated_at",
}

func (r *pgxRepository) joinedSelect() squirrel.SelectBuilder {
	return psql.Select(joinedColumns...).
		From("public.bookings b").
		Join("public.users u ON b.user_id = u.id").
		Join("public.rooms r ON b.room_id = r.id")
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("user_id", "room_id", "start_time", "end_time", "status", "description").
		Values(b.UserID, b.RoomID, b.StartTime, b.EndTime, b.Status, b.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapPgError(err, "create booking failed")
	}
	b.CreatedAt, b.UpdatedAt = b.CreatedAt.UTC(), b.UpdatedAt.UTC()
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := r.joinedSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanPgJoined(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	qb := r.joinedSelect()

	if filter.UserID != 0 {
		qb = qb.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.RoomID != 0 {
		qb = qb.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"b.status": filter.Status})
	}

	query, args, err := qb.OrderBy("b.start_time ASC", "b.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanPgJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) ListActiveByRoom(ctx context.Context, roomID int64, window Interval) ([]*Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"start_time": window.End}).
		Where(squirrel.Gt{"end_time": window.Start}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlap query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list room bookings failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Booking, 0)
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.RoomID, &b.StartTime, &b.EndTime, &b.Status, &b.Description, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		normalizeTimes(&b)
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list room bookings failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	query, args, err := psql.Update("public.bookings").
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("status", b.Status).
		Set("description", b.Description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapPgError(err, "update booking failed")
	}
	b.UpdatedAt = b.UpdatedAt.UTC()
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapPgError translates constraint violations into domain errors.
func mapPgError(err error, msg string) error {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		switch e.Code {
		case pgerrcode.ExclusionViolation:
			return ErrSlotTaken
		case pgerrcode.CheckViolation:
			return ErrInvalidRange
		case pgerrcode.ForeignKeyViolation:
			if e.ConstraintName == "bookings_user_id_fkey" {
				return user.ErrNotFound
			}
			return room.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func scanPgJoined(row pgx.Row) (*Booking, error) {
	var (
		b Booking
		u user.User
		m room.Room
	)
	if err := row.Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.StartTime, &b.EndTime, &b.Status, &b.Description, &b.CreatedAt, &b.UpdatedAt,
		&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt,
		&m.ID, &m.Name, &m.Capacity, &m.PricePerHour, &m.KeyFeatures, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	m.CreatedAt, m.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	normalizeTimes(&b)
	b.User, b.Room = &u, &m
	return &b, nil
}

func normalizeTimes(b *Booking) {
	b.StartTime, b.EndTime = b.StartTime.UTC(), b.EndTime.UTC()
	b.CreatedAt, b.UpdatedAt = b.CreatedAt.UTC(), b.UpdatedAt.UTC()
}
