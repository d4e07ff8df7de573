package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/nekogravitycat/room-booking-backend/internal/db"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
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

func (r *sqliteRepository) Create(ctx context.Context, room *Room) error {
	now := r.clock.Now()
	query, args, err := sq.Insert("rooms").
		Columns("name", "capacity", "price_per_hour", "key_features", "created_at", "updated_at").
		Values(room.Name, room.Capacity, db.Nullable(room.PricePerHour), db.Nullable(room.KeyFeatures), db.FormatTime(now), db.FormatTime(now)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrNameAlreadyExists
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	if room.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("read room id failed: %w", err)
	}
	room.CreatedAt, room.UpdatedAt = now, now
	return nil
}

func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (*Room, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *sqliteRepository) GetByName(ctx context.Context, name string) (*Room, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *sqliteRepository) getOne(ctx context.Context, where squirrel.Eq) (*Room, error) {
	query, args, err := sq.Select(roomColumns...).
		From("rooms").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room query failed: %w", err)
	}

	room, err := scanRoom(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room failed: %w", err)
	}
	return room, nil
}

func (r *sqliteRepository) List(ctx context.Context, filter Filter) ([]*Room, error) {
	qb := sq.Select(roomColumns...).
		From("rooms")

	if filter.Feature != "" {
		qb = qb.Where(squirrel.Expr(`lower(key_features) LIKE ? ESCAPE '\'`, featurePattern(filter.Feature)))
	}

	query, args, err := qb.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	return result, nil
}

func (r *sqliteRepository) Update(ctx context.Context, room *Room) error {
	now := r.clock.Now()
	query, args, err := sq.Update("rooms").
		Set("name", room.Name).
		Set("capacity", room.Capacity).
		Set("price_per_hour", db.Nullable(room.PricePerHour)).
		Set("key_features", db.Nullable(room.KeyFeatures)).
		Set("updated_at", db.FormatTime(now)).
		Where(squirrel.Eq{"id": room.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrNameAlreadyExists
		}
		return fmt.Errorf("update room failed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update room failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	room.UpdatedAt = now
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete room query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete room failed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete room failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*Room, error) {
	var (
		room                 Room
		price                sql.NullFloat64
		features             sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &price, &features, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if price.Valid {
		room.PricePerHour = &price.Float64
	}
	if features.Valid {
		room.KeyFeatures = &features.String
	}
	var err error
	if room.CreatedAt, err = db.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if room.UpdatedAt, err = db.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &room, nil
}
