package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) User(ctx context.Context, userID int64) (*types.User, error) {
	return r.user(ctx, sq.Eq{"id": userID})
}

func (r *UserRepository) UserByExternalUID(ctx context.Context, uid string) (*types.User, error) {
	return r.user(ctx, sq.Eq{"external_uid": uid})
}

func (r *UserRepository) user(ctx context.Context, pred sq.Sqlizer) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.db, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// UpsertIdentity syncs the profile fields of an externally authenticated
// user, creating the row on first sight. is_admin is never touched here.
func (r *UserRepository) UpsertIdentity(ctx context.Context, externalUID string, input types.UserSyncInput) (*types.User, error) {
	now := time.Now()

	query, args, err := psql().
		Insert(userTableName).
		Columns("external_uid", "email", "display_name", "photo_url", "created_at", "updated_at").
		Values(externalUID, nullable(input.Email), nullable(input.DisplayName), nullable(input.PhotoURL), now, now).
		Suffix("ON CONFLICT (external_uid) DO UPDATE SET email = EXCLUDED.email, display_name = EXCLUDED.display_name, photo_url = EXCLUDED.photo_url, updated_at = EXCLUDED.updated_at RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate upsert identity user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.db, &user, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user identity fields: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) SetAdminByEmail(ctx context.Context, email string, admin bool) error {
	query, args, err := psql().
		Update(userTableName).
		Set("is_admin", admin).
		Set("updated_at", time.Now()).
		Where(sq.Expr("LOWER(email) = LOWER(?)", email)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set admin query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
