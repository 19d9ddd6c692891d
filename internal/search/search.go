package search

import (
	"context"
	"fmt"
	"strings"

	"humanaid/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	DefaultRadiusMiles float64 = 50
	DefaultLimit       uint64  = 20
)

// Finder runs a single search tier.
type Finder interface {
	Within(ctx context.Context, q string, at types.GeoPoint, radiusMiles float64, limit uint64) ([]*types.ResourceListing, error)
	Closest(ctx context.Context, q string, at types.GeoPoint, limit uint64) ([]*types.ResourceListing, error)
	ByRelevance(ctx context.Context, q string, limit uint64) ([]*types.ResourceListing, error)
}

// TierObserver is told about every tier that was executed.
type TierObserver interface {
	ObserveSearchTier(mode types.SearchMode)
}

type Engine struct {
	logger   *logrus.Logger
	finder   Finder
	observer TierObserver
}

func New(logger *logrus.Logger, finder Finder, observer TierObserver) *Engine {
	return &Engine{logger: logger, finder: finder, observer: observer}
}

type tier struct {
	mode types.SearchMode
	run  func(ctx context.Context) ([]*types.ResourceListing, error)
}

// plan lists the tiers to try in order. A located request tries local and
// then closest; an unlocated one only has the global tier.
func (e *Engine) plan(req types.SearchRequest) []tier {
	if req.Near == nil {
		return []tier{
			{types.SearchModeGlobal, func(ctx context.Context) ([]*types.ResourceListing, error) {
				return e.finder.ByRelevance(ctx, req.Query, req.Limit)
			}},
		}
	}

	at := *req.Near
	return []tier{
		{types.SearchModeLocal, func(ctx context.Context) ([]*types.ResourceListing, error) {
			return e.finder.Within(ctx, req.Query, at, req.RadiusMiles, req.Limit)
		}},
		{types.SearchModeClosest, func(ctx context.Context) ([]*types.ResourceListing, error) {
			return e.finder.Closest(ctx, req.Query, at, req.Limit)
		}},
	}
}

func withDefaults(req types.SearchRequest) (types.SearchRequest, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, types.NewValidationError("q", "search query is required")
	}
	if req.RadiusMiles <= 0 {
		req.RadiusMiles = DefaultRadiusMiles
	}
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}
	return req, nil
}

// Search returns the results of the first tier that matched anything. When
// every tier comes back empty the last tier's mode is reported.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error) {
	req, err := withDefaults(req)
	if err != nil {
		return nil, err
	}

	result := &types.SearchResult{
		Query:   req.Query,
		Results: make([]*types.ResourceListing, 0),
	}

	for _, t := range e.plan(req) {
		rows, err := t.run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s search failed: %w", t.mode, err)
		}

		if e.observer != nil {
			e.observer.ObserveSearchTier(t.mode)
		}

		result.SearchMode = t.mode
		if len(rows) > 0 {
			result.Results = rows
			break
		}
	}

	result.Count = len(result.Results)

	e.logger.WithFields(logrus.Fields{
		"query": req.Query,
		"mode":  result.SearchMode,
		"count": result.Count,
	}).Debug("search complete")

	return result, nil
}
