package store

import (
	"context"
	"fmt"

	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

type FavoriteRepository struct {
	db DBTX
}

func NewFavoriteRepository(db DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Toggle flips the (user, resource) pairing and reports whether it exists
// afterwards. The pair is the table's primary key, so a concurrent duplicate
// insert is ignored instead of producing a second row.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID, resourceID int64) (bool, error) {
	query, args, err := psql().
		Delete(favoriteTableName).
		Where(sq.Eq{"user_id": userID, "resource_id": resourceID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate delete favorite query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return false, nil
	}

	query, args, err = psql().
		Insert(favoriteTableName).
		Columns("user_id", "resource_id").
		Values(userID, resourceID).
		Suffix("ON CONFLICT (user_id, resource_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate insert favorite query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, types.ErrResourceNotFound
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	return true, nil
}

// FavoritesByUser lists the user's favorited resources that are still
// published, most recently favorited first.
func (r *FavoriteRepository) FavoritesByUser(ctx context.Context, userID int64) ([]*types.ResourceListing, error) {
	query, args, err := psql().
		Select(listingColumns()...).
		From(resourceFromClause).
		Join(favoriteTableName + " f ON f.resource_id = r.id").
		LeftJoin(categoryJoinClause).
		Where(sq.And{sq.Eq{"f.user_id": userID}, eligibleResource()}).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate favorites query: %w", err)
	}

	var resources = make([]*types.ResourceListing, 0)
	err = pgxscan.Select(ctx, r.db, &resources, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}

	return resources, nil
}
