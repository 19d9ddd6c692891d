package server

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"humanaid/internal/store"
	"humanaid/pkg/types"
)

// Query parameters are decoded as strings and converted afterwards so that
// malformed numbers are treated as absent instead of failing the request.
type listParams struct {
	City     string `form:"city"`
	State    string `form:"state"`
	Zip      string `form:"zip"`
	Category string `form:"category"`
	IDs      string `form:"ids"`
	Lat      string `form:"lat"`
	Lon      string `form:"lon"`
	Radius   string `form:"radius"`
	Limit    string `form:"limit"`
	Offset   string `form:"offset"`

	Search     string `form:"search"`
	MissingZip string `form:"missing_zip"`
	Page       string `form:"page"`
}

type searchParams struct {
	Q      string `form:"q"`
	Lat    string `form:"lat"`
	Lon    string `form:"lon"`
	Radius string `form:"radius"`
	Limit  string `form:"limit"`
}

type categoryParams struct {
	Mode         string `form:"mode"`
	IncludeEmpty string `form:"include_empty"`
	Flat         string `form:"flat"`
}

// parseIDs keeps the integers of a comma separated list in their original
// order and drops everything else.
func parseIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// parseFloat only accepts finite numbers; NaN and Inf count as malformed.
func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseUint rejects anything Postgres could not take as a bigint.
func parseUint(raw string) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n > math.MaxInt64 {
		return 0
	}
	return n
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}

// parsePoint needs both coordinates to be valid and in range.
func parsePoint(lat, lon string) *types.GeoPoint {
	la, okLat := parseFloat(lat)
	lo, okLon := parseFloat(lon)
	if !okLat || !okLon {
		return nil
	}
	if la < -90 || la > 90 || lo < -180 || lo > 180 {
		return nil
	}
	return &types.GeoPoint{Latitude: la, Longitude: lo}
}

func parseRadius(raw string) float64 {
	radius, ok := parseFloat(raw)
	if !ok || radius <= 0 {
		return 0
	}
	return radius
}

func decodeListParams(values url.Values) (*listParams, error) {
	params := new(listParams)
	if err := decoder.Decode(params, values); err != nil {
		return nil, types.NewValidationError("query", "malformed query string")
	}
	return params, nil
}

func (p *listParams) filter() types.ResourceFilter {
	return types.ResourceFilter{
		City:        p.City,
		State:       p.State,
		Zip:         p.Zip,
		Category:    p.Category,
		IDs:         parseIDs(p.IDs),
		Near:        parsePoint(p.Lat, p.Lon),
		RadiusMiles: parseRadius(p.Radius),
		Limit:       parseUint(p.Limit),
		Offset:      parseUint(p.Offset),
	}
}

// adminFilter adds the admin-only filters and turns a 1-based page into an
// offset.
func (p *listParams) adminFilter() types.ResourceFilter {
	f := p.filter()
	f.Search = strings.TrimSpace(p.Search)
	f.MissingZip = parseBool(p.MissingZip)

	limit := f.Limit
	if limit == 0 {
		limit = store.DefaultListLimit
	}
	f.Limit = limit

	// a page whose offset would overflow a bigint is treated as absent
	if page := parseUint(p.Page); page > 1 && page-1 <= math.MaxInt64/limit {
		f.Offset = (page - 1) * limit
	}

	return f
}

func (p *searchParams) request() types.SearchRequest {
	return types.SearchRequest{
		Query:       strings.TrimSpace(p.Q),
		Near:        parsePoint(p.Lat, p.Lon),
		RadiusMiles: parseRadius(p.Radius),
		Limit:       parseUint(p.Limit),
	}
}

func (p *categoryParams) filter() (types.CategoryFilter, error) {
	mode := types.CategoryMode(strings.ToLower(strings.TrimSpace(p.Mode)))
	if mode != "" && !mode.Valid() {
		return types.CategoryFilter{}, types.NewValidationError("mode", "must be one of: need offer both")
	}

	return types.CategoryFilter{
		Mode:         mode,
		IncludeEmpty: parseBool(p.IncludeEmpty),
		Flat:         parseBool(p.Flat),
	}, nil
}

func parsePathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, types.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
