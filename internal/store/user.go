package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resumeradar/internal/utils"
	"resumeradar/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTableName = "resumeradar.users"

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"lower(email)": strings.ToLower(strings.TrimSpace(email))}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user by email query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpsertIdentity records the identity provider's view of a user. The admin
// flag and full name are never touched here. It reports whether the row was
// newly inserted.
func (r *UserRepository) UpsertIdentity(ctx context.Context, userID, email string) (bool, error) {
	now := time.Now()

	query, args, err := psql().
		Insert(userTableName).
		Columns("id", "email", "created_at", "updated_at").
		Values(userID, strings.TrimSpace(email), now, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, updated_at = EXCLUDED.updated_at RETURNING (xmax = 0)").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate upsert identity user query: %w", err)
	}

	var inserted bool
	err = r.pool.QueryRow(ctx, query, args...).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert user identity fields: %w", err)
	}

	return inserted, nil
}

func (r *UserRepository) UpdateFullName(ctx context.Context, userID, fullName string) error {
	return r.update(ctx, userID, map[string]any{
		"full_name": types.OptionalString(strings.TrimSpace(fullName)),
	})
}

func (r *UserRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return r.update(ctx, userID, map[string]any{"is_admin": isAdmin})
}

func (r *UserRepository) update(ctx context.Context, userID string, fields map[string]any) error {
	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(userTableName).
		SetMap(fields).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
