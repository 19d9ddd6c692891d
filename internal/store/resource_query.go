package store

import (
	"strings"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const (
	metersPerMile = 1609.34

	DefaultListLimit   uint64  = 100
	DefaultListRadius  float64 = 10
	resourceFromClause         = resourceTableName + " r"
	categoryJoinClause         = categoryTableName + " c ON c.id = r.primary_category_id"
)

var resourceColumns = utils.StructTagValues(types.Resource{})

// listingColumns are the columns scanned into types.ResourceListing.
func listingColumns() []string {
	return append(utils.PrefixSliceOfStrings("r", resourceColumns),
		"ST_Y(r.location::geometry) AS latitude",
		"ST_X(r.location::geometry) AS longitude",
		"c.name AS category_name",
		"c.slug AS category_slug",
		"COALESCE((SELECT array_agg(t.name ORDER BY t.name) FROM "+resourceTagTableName+" rt JOIN "+tagTableName+" t ON t.id = rt.tag_id WHERE rt.resource_id = r.id), '{}') AS tags",
	)
}

func eligibleResource() sq.Sqlizer {
	return sq.Eq{
		"r.is_active":       true,
		"r.approval_status": string(types.ApprovalStatusApproved),
	}
}

func pointExpr(p types.GeoPoint) sq.Sqlizer {
	return sq.Expr("ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography", p.Longitude, p.Latitude)
}

func distanceColumn(p types.GeoPoint) sq.Sqlizer {
	return sq.Expr("ST_Distance(r.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) / ? AS distance", p.Longitude, p.Latitude, metersPerMile)
}

func withinRadius(p types.GeoPoint, miles float64) sq.Sqlizer {
	return sq.Expr("ST_DWithin(r.location, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)", p.Longitude, p.Latitude, miles*metersPerMile)
}

type queryScope int

const (
	scopePublic queryScope = iota
	scopeAdmin
)

// resourceQuery accumulates filter predicates once so that the list query
// and the count query are always rendered from the same WHERE clause.
type resourceQuery struct {
	where  sq.And
	near   *types.GeoPoint
	limit  uint64
	offset uint64
}

func newResourceQuery(f types.ResourceFilter, scope queryScope) *resourceQuery {
	q := &resourceQuery{limit: f.Limit, offset: f.Offset}
	if q.limit == 0 {
		q.limit = DefaultListLimit
	}

	if scope == scopePublic {
		q.and(eligibleResource())
	}

	if city := strings.TrimSpace(f.City); city != "" {
		q.and(sq.Expr("LOWER(r.city) = LOWER(?)", city))
	}

	if state := strings.TrimSpace(f.State); state != "" {
		q.and(sq.Eq{"r.state": strings.ToUpper(state)})
	}

	if zip := strings.TrimSpace(f.Zip); zip != "" {
		q.and(sq.Like{"r.zip_code": escapeLike(zip) + "%"})
	}

	if category := strings.TrimSpace(f.Category); category != "" {
		q.and(sq.Eq{"c.slug": category})
	}

	// An empty id list means "no id filter", never "match nothing".
	if len(f.IDs) > 0 {
		q.and(sq.Expr("r.id = ANY(?)", f.IDs))
	}

	if scope == scopeAdmin {
		if search := strings.TrimSpace(f.Search); search != "" {
			pattern := "%" + escapeLike(search) + "%"
			q.and(sq.Expr("(r.name ILIKE ? OR r.city ILIKE ? OR r.address ILIKE ?)", pattern, pattern, pattern))
		}

		if f.MissingZip {
			q.and(sq.Expr("(r.zip_code IS NULL OR r.zip_code = '')"))
		}
	}

	if f.Near != nil {
		radius := f.RadiusMiles
		if radius <= 0 {
			radius = DefaultListRadius
		}
		point := *f.Near
		q.near = &point
		q.and(withinRadius(point, radius))
	}

	return q
}

func (q *resourceQuery) and(pred sq.Sqlizer) {
	q.where = append(q.where, pred)
}

func (q *resourceQuery) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if len(q.where) == 0 {
		return b
	}
	return b.Where(q.where)
}

func (q *resourceQuery) ListSQL() (string, []any, error) {
	b := psql().Select(listingColumns()...)
	if q.near != nil {
		b = b.Column(distanceColumn(*q.near))
	}

	b = q.apply(b.From(resourceFromClause).LeftJoin(categoryJoinClause))

	if q.near != nil {
		b = b.OrderBy("distance ASC", "r.id ASC")
	} else {
		b = b.OrderBy("r.name ASC", "r.id ASC")
	}

	b = b.Limit(q.limit)
	if q.offset > 0 {
		b = b.Offset(q.offset)
	}

	return b.ToSql()
}

// CountSQL renders the same predicates as ListSQL without ordering or
// pagination.
func (q *resourceQuery) CountSQL() (string, []any, error) {
	b := psql().Select("COUNT(DISTINCT r.id)").
		From(resourceFromClause).
		LeftJoin(categoryJoinClause)

	return q.apply(b).ToSql()
}
