package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/nekogravitycat/room-booking-backend/internal/db"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/clock"
)

type sqliteUserRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteRepository creates a Repository backed by a SQLite database.
// The clock stamps created_at/updated_at.
func NewSQLiteRepository(conn *sql.DB, clk clock.Clock) Repository {
	if clk == nil {
		clk = clock.Real{}
	}
	return &sqliteUserRepository{db: conn, clock: clk}
}

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *sqliteUserRepository) getOne(ctx context.Context, where squirrel.Eq) (*User, error) {
	query, args, err := sq.Select("id", "email", "name", "created_at", "updated_at").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return u, nil
}

func (r *sqliteUserRepository) Create(ctx context.Context, u *User) error {
	now := r.clock.Now()
	query, args, err := sq.Insert("users").
		Columns("email", "name", "created_at", "updated_at").
		Values(u.Email, u.Name, db.FormatTime(now), db.FormatTime(now)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("read user id failed: %w", err)
	}
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *sqliteUserRepository) List(ctx context.Context) ([]*User, error) {
	query, args, err := sq.Select("id", "email", "name", "created_at", "updated_at").
		From("users").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *sqliteUserRepository) Update(ctx context.Context, u *User) error {
	now := r.clock.Now()
	query, args, err := sq.Update("users").
		Set("email", u.Email).
		Set("name", u.Name).
		Set("updated_at", db.FormatTime(now)).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("update user failed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update user failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	u.UpdatedAt = now
	return nil
}

func (r *sqliteUserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user query failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if u.CreatedAt, err = db.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = db.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
