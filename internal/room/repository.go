package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id int64) (*Room, error)
	GetByName(ctx context.Context, name string) (*Room, error)
	// List returns rooms ordered by name.
	List(ctx context.Context, filter Filter) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	// Delete removes the room; its bookings are removed by the schema's cascade.
	Delete(ctx context.Context, id int64) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var roomColumns = []string{"id", "name", "capacity", "price_per_hour", "key_features", "created_at", "updated_at"}

func (r *pgxRepository) Create(ctx context.Context, room *Room) error {
	query, args, err := psql.Insert("public.rooms").
		Columns("name", "capacity", "price_per_hour", "key_features").
		Values(room.Name, room.Capacity, room.PricePerHour, room.KeyFeatures).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt); err != nil {
		if isPgUniqueViolation(err) {
			return ErrNameAlreadyExists
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Room, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByName(ctx context.Context, name string) (*Room, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Eq) (*Room, error) {
	query, args, err := psql.Select(roomColumns...).
		From("public.rooms").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room query failed: %w", err)
	}

	var room Room
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&room.ID, &room.Name, &room.Capacity, &room.PricePerHour, &room.KeyFeatures, &room.CreatedAt, &room.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room failed: %w", err)
	}
	return &room, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, error) {
	qb := psql.Select(roomColumns...).
		From("public.rooms")

	if filter.Feature != "" {
		qb = qb.Where(squirrel.ILike{"key_features": featurePattern(filter.Feature)})
	}

	query, args, err := qb.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Room, 0)
	for rows.Next() {
		var room Room
		if err := rows.Scan(
			&room.ID, &room.Name, &room.Capacity, &room.PricePerHour, &room.KeyFeatures, &room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		result = append(result, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, room *Room) error {
	query, args, err := psql.Update("public.rooms").
		Set("name", room.Name).
		Set("capacity", room.Capacity).
		Set("price_per_hour", room.PricePerHour).
		Set("key_features", room.KeyFeatures).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": room.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&room.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isPgUniqueViolation(err) {
			return ErrNameAlreadyExists
		}
		return fmt.Errorf("update room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("public.rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isPgUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation
}
