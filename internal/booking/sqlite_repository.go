package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/nekogravitycat/room-booking-backend/internal/db"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
)

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteRepository creates a Repository backed by a SQLite database.
func NewSQLiteRepository(conn *sql.DB, clk clock.Clock) Repository {
	if clk == nil {
		clk = clock.Real{}
	}
	return &sqliteRepository{db: conn, clock: clk}
}

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func (r *sqliteRepository) joinedSelect() squirrel.SelectBuilder {
	return sq.Select(joinedColumns...).
		From("bookings b").
		Join("users u ON b.user_id = u.id").
		Join("rooms r ON b.room_id = r.id")
}

func (r *sqliteRepository) Create(ctx context.Context, b *Booking) error {
	now := r.clock.Now()
	query, args, err := sq.Insert("bookings").
		Columns("user_id", "room_id", "start_time", "end_time", "status", "description", "created_at", "updated_at").
		Values(b.UserID, b.RoomID, db.FormatTime(b.StartTime), db.FormatTime(b.EndTime), string(b.Status), db.Nullable(b.Description),
			db.FormatTime(now), db.FormatTime(now)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return r.missingReference(ctx, b.UserID)
		}
		return mapSQLiteError(err, "create booking failed")
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("read booking id failed: %w", err)
	}
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := r.joinedSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanSQLiteJoined(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *sqliteRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	qb := r.joinedSelect()

	if filter.UserID != 0 {
		qb = qb.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.RoomID != 0 {
		qb = qb.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"b.status": string(filter.Status)})
	}

	query, args, err := qb.OrderBy("b.start_time ASC", "b.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanSQLiteJoined(rows)
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

func (r *sqliteRepository) ListActiveByRoom(ctx context.Context, roomID int64, window Interval) ([]*Booking, error) {
	query, args, err := sq.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"status": string(StatusCancelled)}).
		Where(squirrel.Lt{"start_time": db.FormatTime(window.End)}).
		Where(squirrel.Gt{"end_time": db.FormatTime(window.Start)}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlap query failed: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list room bookings failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Booking, 0)
	for rows.Next() {
		var b Booking
		var c sqliteBookingCols
		if err := rows.Scan(c.targets(&b)...); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		if err := c.apply(&b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list room bookings failed: %w", err)
	}
	return result, nil
}

func (r *sqliteRepository) Update(ctx context.Context, b *Booking) error {
	now := r.clock.Now()
	query, args, err := sq.Update("bookings").
		Set("start_time", db.FormatTime(b.StartTime)).
		Set("end_time", db.FormatTime(b.EndTime)).
		Set("status", string(b.Status)).
		Set("description", db.Nullable(b.Description)).
		Set("updated_at", db.FormatTime(now)).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapSQLiteError(err, "update booking failed")
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	b.UpdatedAt = now
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// missingReference picks the not-found error after a foreign key failure.
// SQLite does not name the failing reference, so the user is checked first.
func (r *sqliteRepository) missingReference(ctx context.Context, userID int64) error {
	query, args, err := sq.Select("1").From("users").Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("build user check query failed: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return user.ErrNotFound
	case err != nil:
		return fmt.Errorf("check booking user failed: %w", err)
	}
	return room.ErrNotFound
}

func mapSQLiteError(err error, msg string) error {
	switch {
	case db.IsOverlapViolation(err):
		return ErrSlotTaken
	case db.IsForeignKeyViolation(err):
		return room.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// sqliteBookingCols holds the raw booking columns as SQLite returns them.
type sqliteBookingCols struct {
	status               string
	description          sql.NullString
	start, end           string
	createdAt, updatedAt string
}

func (c *sqliteBookingCols) targets(b *Booking) []any {
	return []any{&b.ID, &b.UserID, &b.RoomID, &c.start, &c.end, &c.status, &c.description, &c.createdAt, &c.updatedAt}
}

func (c *sqliteBookingCols) apply(b *Booking) error {
	var err error
	b.Status = Status(c.status)
	if c.description.Valid {
		b.Description = &c.description.String
	}
	if b.StartTime, err = db.ParseTime(c.start); err != nil {
		return err
	}
	if b.EndTime, err = db.ParseTime(c.end); err != nil {
		return err
	}
	if b.CreatedAt, err = db.ParseTime(c.createdAt); err != nil {
		return err
	}
	b.UpdatedAt, err = db.ParseTime(c.updatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteJoined(row rowScanner) (*Booking, error) {
	var (
		b                  Booking
		c                  sqliteBookingCols
		u                  user.User
		m                  room.Room
		uCreated, uUpdated string
		price              sql.NullFloat64
		features           sql.NullString
		rCreated, rUpdated string
	)
	dest := append(c.targets(&b),
		&u.ID, &u.Email, &u.Name, &uCreated, &uUpdated,
		&m.ID, &m.Name, &m.Capacity, &price, &features, &rCreated, &rUpdated,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := c.apply(&b); err != nil {
		return nil, err
	}

	if price.Valid {
		m.PricePerHour = &price.Float64
	}
	if features.Valid {
		m.KeyFeatures = &features.String
	}
	for _, p := range []struct {
		dst *time.Time
		raw string
	}{
		{&u.CreatedAt, uCreated}, {&u.UpdatedAt, uUpdated},
		{&m.CreatedAt, rCreated}, {&m.UpdatedAt, rUpdated},
	} {
		t, err := db.ParseTime(p.raw)
		if err != nil {
			return nil, err
		}
		*p.dst = t
	}

	b.User, b.Room = &u, &m
	return &b, nil
}
