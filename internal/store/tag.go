package store

import (
	"context"
	"fmt"
	"strings"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var tagColumns = utils.StructTagValues(types.Tag{})

type TagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// UpsertTag creates the tag on first use. A name that slugifies to an
// existing slug refreshes that tag's display name and keeps its id.
func (r *TagRepository) UpsertTag(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)
	if slug == "" {
		return 0, fmt.Errorf("tag %q has an empty slug", name)
	}

	query, args, err := psql().
		Insert(tagTableName).
		Columns("name", "slug").
		Values(name, slug).
		Suffix("ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate upsert tag query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert tag %s: %w", slug, err)
	}

	return id, nil
}

// LinkTag attaches a tag to a resource. Linking an existing pair is a no-op.
func (r *TagRepository) LinkTag(ctx context.Context, resourceID, tagID int64) error {
	query, args, err := psql().
		Insert(resourceTagTableName).
		Columns("resource_id", "tag_id").
		Values(resourceID, tagID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate link tag query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to link tag %d to resource %d: %w", tagID, resourceID, err)
	}

	return nil
}

func (r *TagRepository) TagsByResource(ctx context.Context, resourceID int64) ([]*types.Tag, error) {
	query, args, err := psql().
		Select(utils.PrefixSliceOfStrings("t", tagColumns)...).
		From(tagTableName + " t").
		Join(resourceTagTableName + " rt ON rt.tag_id = t.id").
		Where(sq.Eq{"rt.resource_id": resourceID}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resource tags query: %w", err)
	}

	var tags = make([]*types.Tag, 0)
	err = pgxscan.Select(ctx, r.db, &tags, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource tags: %w", err)
	}

	return tags, nil
}
