package store

import (
	"regexp"
	"strings"
	"testing"

	"humanaid/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeholderReg = regexp.MustCompile(`\$\d+`)

// whereClause returns the outer WHERE clause with placeholders normalized.
func whereClause(t *testing.T, query string, end string) string {
	t.Helper()

	start := strings.LastIndex(query, " WHERE ")
	require.NotEqual(t, -1, start, query)

	clause := query[start:]
	if end != "" {
		stop := strings.LastIndex(clause, end)
		require.NotEqual(t, -1, stop, query)
		clause = clause[:stop]
	}

	return placeholderReg.ReplaceAllString(clause, "?")
}

func TestResourceQuery_ListAndCountAgree(t *testing.T) {
	near := &types.GeoPoint{Latitude: 38.89, Longitude: -90.18}

	filters := map[string]types.ResourceFilter{
		"none":       {},
		"city":       {City: "Alton"},
		"state":      {State: "il"},
		"zip":        {Zip: "620"},
		"category":   {Category: "food-pantry"},
		"ids":        {IDs: []int64{1, 2, 3}},
		"near":       {Near: near, RadiusMiles: 25},
		"paged":      {City: "Alton", Limit: 5, Offset: 10},
		"everything": {City: "Alton", State: "IL", Zip: "62002", Category: "food-pantry", IDs: []int64{4}, Near: near, Search: "church", MissingZip: true, Limit: 2, Offset: 4},
	}

	for name, filter := range filters {
		for _, scope := range []queryScope{scopePublic, scopeAdmin} {
			t.Run(name, func(t *testing.T) {
				q := newResourceQuery(filter, scope)

				listSQL, listArgs, err := q.ListSQL()
				require.NoError(t, err)
				countSQL, countArgs, err := q.CountSQL()
				require.NoError(t, err)

				if scope == scopePublic && name == "none" {
					require.Contains(t, listSQL, " WHERE ")
				}
				if !strings.Contains(countSQL, " WHERE ") {
					assert.NotContains(t, listSQL[strings.LastIndex(listSQL, " FROM "):], " WHERE ")
					return
				}

				assert.Equal(t, whereClause(t, listSQL, " ORDER BY "), whereClause(t, countSQL, ""))

				// the distance column arguments precede the WHERE arguments
				offset := 0
				if filter.Near != nil {
					offset = 3
				}
				assert.Equal(t, countArgs, listArgs[offset:])

				assert.NotContains(t, countSQL, "LIMIT")
				assert.NotContains(t, countSQL, "OFFSET")
				assert.NotContains(t, countSQL, "ORDER BY")
			})
		}
	}
}

func TestResourceQuery_PublicScopeIsEligibleOnly(t *testing.T) {
	listSQL, args, err := newResourceQuery(types.ResourceFilter{}, scopePublic).ListSQL()
	require.NoError(t, err)

	where := whereClause(t, listSQL, " ORDER BY ")
	assert.Contains(t, where, "r.approval_status = ?")
	assert.Contains(t, where, "r.is_active = ?")
	assert.Contains(t, args, "approved")
	assert.Contains(t, args, true)

	adminSQL, _, err := newResourceQuery(types.ResourceFilter{}, scopeAdmin).CountSQL()
	require.NoError(t, err)
	assert.NotContains(t, adminSQL, "approval_status")
}

func TestResourceQuery_MissingZip(t *testing.T) {
	filter := types.ResourceFilter{MissingZip: true}

	adminSQL, _, err := newResourceQuery(filter, scopeAdmin).CountSQL()
	require.NoError(t, err)
	assert.Contains(t, adminSQL, "(r.zip_code IS NULL OR r.zip_code = '')")

	publicSQL, _, err := newResourceQuery(filter, scopePublic).CountSQL()
	require.NoError(t, err)
	assert.NotContains(t, publicSQL, "zip_code IS NULL")
}

func TestResourceQuery_Filters(t *testing.T) {
	q := newResourceQuery(types.ResourceFilter{State: " il ", Zip: "62_0", City: "Alton", Category: "food-pantry"}, scopePublic)

	countSQL, args, err := q.CountSQL()
	require.NoError(t, err)

	assert.Contains(t, countSQL, "LOWER(r.city) = LOWER(")
	assert.Contains(t, countSQL, "r.zip_code LIKE")
	assert.Contains(t, countSQL, "c.slug = ")
	assert.Contains(t, args, "IL")
	assert.Contains(t, args, `62\_0%`)
	assert.Contains(t, args, "Alton")
}

func TestResourceQuery_EmptyIDsAreIgnored(t *testing.T) {
	countSQL, _, err := newResourceQuery(types.ResourceFilter{IDs: []int64{}}, scopePublic).CountSQL()
	require.NoError(t, err)
	assert.NotContains(t, countSQL, "ANY")

	countSQL, args, err := newResourceQuery(types.ResourceFilter{IDs: []int64{1, 2, 3}}, scopePublic).CountSQL()
	require.NoError(t, err)
	assert.Contains(t, countSQL, "r.id = ANY(")
	assert.Contains(t, args, []int64{1, 2, 3})
}

func TestResourceQuery_OrderingAndPaging(t *testing.T) {
	listSQL, _, err := newResourceQuery(types.ResourceFilter{}, scopePublic).ListSQL()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(listSQL, "ORDER BY r.name ASC, r.id ASC LIMIT 100"), listSQL)

	near := &types.GeoPoint{Latitude: 1, Longitude: 2}
	listSQL, args, err := newResourceQuery(types.ResourceFilter{Near: near, Limit: 5, Offset: 15}, scopeAdmin).ListSQL()
	require.NoError(t, err)
	assert.Contains(t, listSQL, "AS distance")
	assert.True(t, strings.HasSuffix(listSQL, "ORDER BY distance ASC, r.id ASC LIMIT 5 OFFSET 15"), listSQL)
	radius := DefaultListRadius
	assert.Contains(t, args, radius*metersPerMile)
	assert.Equal(t, []any{2.0, 1.0, metersPerMile}, args[:3])
}
