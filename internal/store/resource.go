package store

import (
	"context"
	"fmt"
	"time"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

type ResourceRepository struct {
	db DBTX
}

func NewResourceRepository(db DBTX) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Resources lists published resources matching the filter along with the
// total number of matches ignoring pagination.
func (r *ResourceRepository) Resources(ctx context.Context, filter types.ResourceFilter) (*types.ResourcePage, error) {
	return r.page(ctx, newResourceQuery(filter, scopePublic))
}

// AdminResources is Resources without the eligibility restriction and with
// the admin only filters enabled.
func (r *ResourceRepository) AdminResources(ctx context.Context, filter types.ResourceFilter) (*types.ResourcePage, error) {
	return r.page(ctx, newResourceQuery(filter, scopeAdmin))
}

func (r *ResourceRepository) page(ctx context.Context, q *resourceQuery) (*types.ResourcePage, error) {
	query, args, err := q.ListSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resources query: %w", err)
	}

	var resources = make([]*types.ResourceListing, 0)
	err = pgxscan.Select(ctx, r.db, &resources, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	countQuery, countArgs, err := q.CountSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resources count query: %w", err)
	}

	var total int64
	err = r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count resources: %w", err)
	}

	return &types.ResourcePage{
		Count:     len(resources),
		Total:     total,
		Resources: resources,
	}, nil
}

// Resource returns a published resource. Inactive or unapproved rows are
// reported as not found.
func (r *ResourceRepository) Resource(ctx context.Context, id int64) (*types.ResourceListing, error) {
	return r.resource(ctx, sq.And{sq.Eq{"r.id": id}, eligibleResource()})
}

// ResourceForAdmin returns a resource regardless of visibility.
func (r *ResourceRepository) ResourceForAdmin(ctx context.Context, id int64) (*types.ResourceListing, error) {
	return r.resource(ctx, sq.Eq{"r.id": id})
}

func (r *ResourceRepository) resource(ctx context.Context, pred sq.Sqlizer) (*types.ResourceListing, error) {
	query, args, err := psql().Select(listingColumns()...).
		From(resourceFromClause).
		LeftJoin(categoryJoinClause).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resource query: %w", err)
	}

	var resource = new(types.ResourceListing)
	err = pgxscan.Get(ctx, r.db, resource, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch resource: %w", err)
	}

	if err != nil {
		return nil, types.ErrResourceNotFound
	}

	return resource, nil
}

// CreateResource inserts a resource located at point and returns its id.
func (r *ResourceRepository) CreateResource(ctx context.Context, resource *types.Resource, point types.GeoPoint) (int64, error) {
	now := time.Now()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	resourceMap := utils.StructToMap(resource)
	delete(resourceMap, "id")
	resourceMap["location"] = pointExpr(point)

	query, args, err := psql().Insert(resourceTableName).
		SetMap(resourceMap).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate insert resource query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&resource.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create resource: %w", err)
	}

	return resource.ID, nil
}

// UpdateResource writes the given columns. updated_at is always refreshed.
func (r *ResourceRepository) UpdateResource(ctx context.Context, id int64, fields map[string]any) error {
	fields["updated_at"] = time.Now()

	query, args, err := psql().Update(resourceTableName).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update resource query for resource %d: %w", id, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update resource %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrResourceNotFound
	}

	return nil
}

// SetPrimaryCategory records the normalizer's decision. onsite is only
// written when non-nil.
func (r *ResourceRepository) SetPrimaryCategory(ctx context.Context, resourceID, categoryID int64, onsite *bool) error {
	fields := map[string]any{
		"primary_category_id": categoryID,
	}
	if onsite != nil {
		fields["food_dist_onsite"] = *onsite
	}

	return r.UpdateResource(ctx, resourceID, fields)
}

// BackfillLocations places every resource without a point at the given
// placeholder and returns how many rows moved.
func (r *ResourceRepository) BackfillLocations(ctx context.Context, point types.GeoPoint) (int64, error) {
	query, args, err := psql().Update(resourceTableName).
		Set("location", pointExpr(point)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"location": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate backfill locations query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill locations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// PublishedResources returns every published resource ordered by state, city
// and name. Used by the dataset export.
func (r *ResourceRepository) PublishedResources(ctx context.Context) ([]*types.ResourceListing, error) {
	query, args, err := psql().Select(listingColumns()...).
		From(resourceFromClause).
		LeftJoin(categoryJoinClause).
		Where(eligibleResource()).
		OrderBy("r.state ASC", "r.city ASC", "r.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate published resources query: %w", err)
	}

	var resources = make([]*types.ResourceListing, 0)
	err = pgxscan.Select(ctx, r.db, &resources, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published resources: %w", err)
	}

	return resources, nil
}

const statsQuery = `
	SELECT
		(SELECT COUNT(*) FROM humanaid.resources WHERE is_active = true AND approval_status = 'approved') AS resources,
		(SELECT COUNT(*) FROM humanaid.categories) AS categories,
		(SELECT COUNT(DISTINCT city) FROM humanaid.resources WHERE is_active = true AND approval_status = 'approved') AS cities`

func (r *ResourceRepository) Stats(ctx context.Context) (*types.StatsData, error) {
	var stats = new(types.StatsData)
	err := pgxscan.Get(ctx, r.db, stats, statsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}

	return stats, nil
}
