package normalize

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Writer is the store surface the normalizer writes through. It is usually
// bound to the approval transaction.
type Writer interface {
	CategoryIDsByName(ctx context.Context) (map[string]int64, error)
	SetPrimaryCategory(ctx context.Context, resourceID, categoryID int64, onsite *bool) error
	UpsertTag(ctx context.Context, name string) (int64, error)
	LinkTag(ctx context.Context, resourceID, tagID int64) error
}

type Input struct {
	ResourceID     int64
	Raw            []string
	Description    string
	FoodDistOnsite *bool
}

type Normalizer struct {
	logger *logrus.Logger
	rules  Rules
}

func New(logger *logrus.Logger, rules Rules) *Normalizer {
	return &Normalizer{logger: logger, rules: rules}
}

func (n *Normalizer) Rules() Rules {
	return n.rules
}

// Apply classifies the resource and persists the primary category and tags.
func (n *Normalizer) Apply(ctx context.Context, w Writer, in Input) (*Plan, error) {
	canonical, err := w.CategoryIDsByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load canonical categories: %w", err)
	}

	plan := n.rules.Classify(in.Raw, canonical, in.Description, in.FoodDistOnsite)

	categoryID, ok := canonical[plan.Primary]
	if !ok {
		return nil, fmt.Errorf("primary category %q is not seeded", plan.Primary)
	}

	err = w.SetPrimaryCategory(ctx, in.ResourceID, categoryID, plan.FoodDistOnsite)
	if err != nil {
		return nil, fmt.Errorf("failed to set primary category: %w", err)
	}

	for _, name := range plan.Tags {
		tagID, err := w.UpsertTag(ctx, name)
		if err != nil {
			return nil, err
		}

		err = w.LinkTag(ctx, in.ResourceID, tagID)
		if err != nil {
			return nil, err
		}
	}

	n.logger.WithFields(logrus.Fields{
		"resource_id": in.ResourceID,
		"primary":     plan.Primary,
		"tags":        len(plan.Tags),
	}).Debug("resource normalized")

	return &plan, nil
}
