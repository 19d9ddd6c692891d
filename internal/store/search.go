package store

import (
	"context"
	"fmt"

	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const searchVector = "to_tsvector('english', r.name || ' ' || COALESCE(r.description, ''))"

// textMatch matches the relevance index or, for fragments the index misses,
// a case-insensitive substring of the name.
func textMatch(q string) sq.Sqlizer {
	return sq.Expr("("+searchVector+" @@ plainto_tsquery('english', ?) OR r.name ILIKE ?)", q, "%"+escapeLike(q)+"%")
}

func rankColumn(q string) sq.Sqlizer {
	return sq.Expr("ts_rank("+searchVector+", plainto_tsquery('english', ?)) AS rank", q)
}

// SearchRepository runs the individual search tiers. Choosing between them
// is the search engine's job.
type SearchRepository struct {
	db DBTX
}

func NewSearchRepository(db DBTX) *SearchRepository {
	return &SearchRepository{db: db}
}

func withinSQL(q string, at types.GeoPoint, radiusMiles float64, limit uint64) (string, []any, error) {
	return psql().Select(listingColumns()...).
		Column(distanceColumn(at)).
		Column(rankColumn(q)).
		From(resourceFromClause).
		LeftJoin(categoryJoinClause).
		Where(sq.And{eligibleResource(), textMatch(q), withinRadius(at, radiusMiles)}).
		OrderBy("distance ASC", "rank DESC").
		Limit(limit).
		ToSql()
}

func closestSQL(q string, at types.GeoPoint, limit uint64) (string, []any, error) {
	return psql().Select(listingColumns()...).
		Column(distanceColumn(at)).
		Column(rankColumn(q)).
		From(resourceFromClause).
		LeftJoin(categoryJoinClause).
		Where(sq.And{eligibleResource(), textMatch(q)}).
		OrderBy("distance ASC").
		Limit(limit).
		ToSql()
}

func relevanceSQL(q string, limit uint64) (string, []any, error) {
	return psql().Select(listingColumns()...).
		Column(rankColumn(q)).
		From(resourceFromClause).
		LeftJoin(categoryJoinClause).
		Where(sq.And{eligibleResource(), textMatch(q)}).
		OrderBy("rank DESC").
		Limit(limit).
		ToSql()
}

// Within returns text matches inside the radius, nearest first and then by
// relevance.
func (r *SearchRepository) Within(ctx context.Context, q string, at types.GeoPoint, radiusMiles float64, limit uint64) ([]*types.ResourceListing, error) {
	query, args, err := withinSQL(q, at, radiusMiles, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate local search query: %w", err)
	}
	return r.run(ctx, query, args)
}

// Closest returns text matches anywhere, nearest first.
func (r *SearchRepository) Closest(ctx context.Context, q string, at types.GeoPoint, limit uint64) ([]*types.ResourceListing, error) {
	query, args, err := closestSQL(q, at, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate closest search query: %w", err)
	}
	return r.run(ctx, query, args)
}

// ByRelevance returns text matches anywhere, best ranked first.
func (r *SearchRepository) ByRelevance(ctx context.Context, q string, limit uint64) ([]*types.ResourceListing, error) {
	query, args, err := relevanceSQL(q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate global search query: %w", err)
	}
	return r.run(ctx, query, args)
}

func (r *SearchRepository) run(ctx context.Context, query string, args []any) ([]*types.ResourceListing, error) {
	var results = make([]*types.ResourceListing, 0)
	err := pgxscan.Select(ctx, r.db, &results, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run search: %w", err)
	}
	return results, nil
}
