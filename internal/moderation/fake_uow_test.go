package moderation

import (
	"context"
	"fmt"
	"time"

	"humanaid/internal/utils"
	"humanaid/pkg/types"
)

// fakeState is an in-memory stand in for the tables an approval touches.
type fakeState struct {
	submissions map[int64]types.Submission
	resources   map[int64]types.Resource
	categories  map[int64]string
	tags        map[string]int64
	links       map[[2]int64]bool
	nextID      int64
}

func newFakeState() *fakeState {
	s := &fakeState{
		submissions: map[int64]types.Submission{},
		resources:   map[int64]types.Resource{},
		categories:  map[int64]string{},
		tags:        map[string]int64{},
		links:       map[[2]int64]bool{},
		nextID:      100,
	}
	for i, name := range []string{
		"Food Pantry", "Housing Assistance", "Mental Health", "Medical Care", "Legal Assistance",
		"Crisis & Emergency", "Family & Children", "Employment & Financial Help",
		"Disability & Senior Services", "Community Resource",
	} {
		s.categories[int64(i+1)] = name
	}
	return s
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		submissions: make(map[int64]types.Submission, len(s.submissions)),
		resources:   make(map[int64]types.Resource, len(s.resources)),
		categories:  make(map[int64]string, len(s.categories)),
		tags:        make(map[string]int64, len(s.tags)),
		links:       make(map[[2]int64]bool, len(s.links)),
		nextID:      s.nextID,
	}
	for k, v := range s.submissions {
		c.submissions[k] = v
	}
	for k, v := range s.resources {
		c.resources[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.links {
		c.links[k] = v
	}
	return c
}

func (s *fakeState) categoryID(name string) int64 {
	for id, n := range s.categories {
		if n == name {
			return id
		}
	}
	return 0
}

// fakeUnit commits the working copy only when fn succeeds.
type fakeUnit struct {
	state     *fakeState
	failOnTag error
	began     int
}

func (u *fakeUnit) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	u.began++
	work := u.state.clone()
	if err := fn(ctx, &fakeTx{state: work, failOnTag: u.failOnTag}); err != nil {
		return err
	}
	u.state = work
	return nil
}

type fakeTx struct {
	state     *fakeState
	failOnTag error
}

func (t *fakeTx) SubmissionForUpdate(ctx context.Context, id int64) (*types.Submission, error) {
	sub, ok := t.state.submissions[id]
	if !ok {
		return nil, types.ErrSubmissionNotFound
	}
	return &sub, nil
}

func (t *fakeTx) MarkReviewed(ctx context.Context, id int64, status types.SubmissionStatus, reviewedBy *string, reviewedAt time.Time, resourceID *int64) error {
	sub, ok := t.state.submissions[id]
	if !ok || sub.Status != types.SubmissionStatusPending {
		return fmt.Errorf("submission %d is no longer pending: %w", id, types.ErrInvalidTransition)
	}
	sub.Status = status
	sub.ReviewedBy = reviewedBy
	sub.ReviewedAt = &reviewedAt
	sub.ResourceID = resourceID
	t.state.submissions[id] = sub
	return nil
}

func (t *fakeTx) CreateResource(ctx context.Context, resource *types.Resource, point types.GeoPoint) (int64, error) {
	t.state.nextID++
	resource.ID = t.state.nextID
	t.state.resources[resource.ID] = *resource
	return resource.ID, nil
}

func (t *fakeTx) CategoryByID(ctx context.Context, id int64) (*types.Category, error) {
	name, ok := t.state.categories[id]
	if !ok {
		return nil, types.ErrCategoryNotFound
	}
	return &types.Category{ID: id, Name: name}, nil
}

func (t *fakeTx) CategoryIDsByName(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(t.state.categories))
	for id, name := range t.state.categories {
		out[name] = id
	}
	return out, nil
}

func (t *fakeTx) SetPrimaryCategory(ctx context.Context, resourceID, categoryID int64, onsite *bool) error {
	res, ok := t.state.resources[resourceID]
	if !ok {
		return types.ErrResourceNotFound
	}
	res.PrimaryCategoryID = &categoryID
	if onsite != nil {
		res.FoodDistOnsite = onsite
	}
	t.state.resources[resourceID] = res
	return nil
}

func (t *fakeTx) UpsertTag(ctx context.Context, name string) (int64, error) {
	if t.failOnTag != nil {
		return 0, t.failOnTag
	}
	slug := utils.Slugify(name)
	if id, ok := t.state.tags[slug]; ok {
		return id, nil
	}
	id := int64(len(t.state.tags) + 1)
	t.state.tags[slug] = id
	return id, nil
}

func (t *fakeTx) LinkTag(ctx context.Context, resourceID, tagID int64) error {
	t.state.links[[2]int64{resourceID, tagID}] = true
	return nil
}

type fakeSubmissionStore struct {
	created []*types.Submission
}

func (f *fakeSubmissionStore) CreateSubmission(ctx context.Context, submission *types.Submission) error {
	submission.ID = int64(len(f.created) + 1)
	submission.Status = types.SubmissionStatusPending
	f.created = append(f.created, submission)
	return nil
}

func (f *fakeSubmissionStore) SubmissionsByStatus(ctx context.Context, status types.SubmissionStatus) ([]*types.SubmissionListing, error) {
	var out []*types.SubmissionListing
	for _, s := range f.created {
		if s.Status == status {
			out = append(out, &types.SubmissionListing{Submission: *s})
		}
	}
	return out, nil
}

type countingObserver map[types.ReviewAction]int

func (c countingObserver) ObserveTransition(action types.ReviewAction) {
	c[action]++
}
