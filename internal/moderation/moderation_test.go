package moderation

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"humanaid/internal/normalize"
	"humanaid/internal/utils"
	"humanaid/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeholder = types.GeoPoint{Latitude: 38.8906, Longitude: -90.1843}

type fixture struct {
	svc      *Service
	unit     *fakeUnit
	store    *fakeSubmissionStore
	observer countingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		unit:     &fakeUnit{state: newFakeState()},
		store:    &fakeSubmissionStore{},
		observer: countingObserver{},
	}
	f.svc = New(logger, f.store, f.unit, normalize.New(logger, normalize.DefaultRules()), f.observer, placeholder)
	f.svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return f
}

func (f *fixture) addPending(id int64, category string, tags ...string) {
	sub := types.Submission{
		ID:      id,
		Name:    "Grace Church Pantry",
		Address: "1 Main St",
		City:    "Alton",
		State:   "IL",
		ZipCode: "62002",
		Tags:    tags,
		Status:  types.SubmissionStatusPending,
	}
	if category != "" {
		categoryID := f.unit.state.categoryID(category)
		sub.PrimaryCategoryID = &categoryID
	}
	sub.Description = utils.StringPtr("Saturday pickup for families")
	f.unit.state.submissions[id] = sub
}

func TestReview_ApproveWithPriorityCategory(t *testing.T) {
	f := newFixture(t)
	f.addPending(42, "Food Pantry", "Senior Services")

	out, err := f.svc.Review(context.Background(), 42, types.ReviewInput{Action: types.ReviewActionApprove, ReviewedBy: "admin@example.org"})
	require.NoError(t, err)

	assert.Equal(t, types.SubmissionStatusApproved, out.Status)
	assert.Equal(t, "Food Pantry", out.Primary)
	assert.Equal(t, []string{"Senior Services"}, out.Tags)
	assert.Equal(t, "grace-church-pantry-"+utils.Base36(42)+"-"+utils.Base36(1700000000), out.Slug)

	state := f.unit.state
	require.NotNil(t, out.ResourceID)
	res := state.resources[*out.ResourceID]
	assert.True(t, res.IsActive)
	assert.Equal(t, types.ApprovalStatusApproved, res.ApprovalStatus)
	assert.Equal(t, state.categoryID("Food Pantry"), *res.PrimaryCategoryID)
	require.NotNil(t, res.FoodDistOnsite)
	assert.True(t, *res.FoodDistOnsite)
	assert.True(t, state.links[[2]int64{res.ID, state.tags["senior-services"]}])

	sub := state.submissions[42]
	assert.Equal(t, types.SubmissionStatusApproved, sub.Status)
	assert.Equal(t, out.ResourceID, sub.ResourceID)
	assert.Equal(t, "admin@example.org", *sub.ReviewedBy)
	assert.Equal(t, 1, f.observer[types.ReviewActionApprove])
}

func TestReview_ApproveFallsBackToCommunityResource(t *testing.T) {
	f := newFixture(t)
	f.addPending(7, "", "Senior Services")

	out, err := f.svc.Review(context.Background(), 7, types.ReviewInput{Action: types.ReviewActionApprove})
	require.NoError(t, err)

	assert.Equal(t, "Community Resource", out.Primary)
	assert.Equal(t, []string{"Senior Services"}, out.Tags)

	res := f.unit.state.resources[*out.ResourceID]
	assert.Equal(t, f.unit.state.categoryID("Community Resource"), *res.PrimaryCategoryID)
	assert.Nil(t, f.unit.state.submissions[7].ReviewedBy)
}

func TestReview_Reject(t *testing.T) {
	f := newFixture(t)
	f.addPending(9, "Medical Care")

	out, err := f.svc.Review(context.Background(), 9, types.ReviewInput{Action: types.ReviewActionReject, ReviewedBy: "mod"})
	require.NoError(t, err)

	assert.Equal(t, types.SubmissionStatusRejected, out.Status)
	assert.Nil(t, out.ResourceID)
	assert.Empty(t, f.unit.state.resources)
	assert.Equal(t, types.SubmissionStatusRejected, f.unit.state.submissions[9].Status)
	assert.NotNil(t, f.unit.state.submissions[9].ReviewedAt)
	assert.Equal(t, 1, f.observer[types.ReviewActionReject])
}

func TestReview_TerminalStatesAreRejected(t *testing.T) {
	for _, status := range []types.SubmissionStatus{types.SubmissionStatusApproved, types.SubmissionStatusRejected} {
		for _, action := range []types.ReviewAction{types.ReviewActionApprove, types.ReviewActionReject} {
			t.Run(string(status)+"/"+string(action), func(t *testing.T) {
				f := newFixture(t)
				f.addPending(5, "Food Pantry")
				sub := f.unit.state.submissions[5]
				sub.Status = status
				f.unit.state.submissions[5] = sub

				_, err := f.svc.Review(context.Background(), 5, types.ReviewInput{Action: action})

				assert.ErrorIs(t, err, types.ErrInvalidTransition)
				assert.ErrorIs(t, err, types.ErrSubmissionNotFound)
				assert.Empty(t, f.unit.state.resources)
				assert.Equal(t, status, f.unit.state.submissions[5].Status)
				assert.Empty(t, f.observer)
			})
		}
	}
}

func TestReview_UnknownSubmission(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Review(context.Background(), 404, types.ReviewInput{Action: types.ReviewActionReject})

	assert.ErrorIs(t, err, types.ErrSubmissionNotFound)
	assert.NotErrorIs(t, err, types.ErrInvalidTransition)
}

func TestReview_InvalidActionNeverOpensTx(t *testing.T) {
	f := newFixture(t)
	f.addPending(1, "Food Pantry")

	_, err := f.svc.Review(context.Background(), 1, types.ReviewInput{Action: "publish"})

	assert.ErrorIs(t, err, types.ErrInvalidAction)
	assert.Zero(t, f.unit.began)
}

func TestReview_RollsBackWhenTaggingFails(t *testing.T) {
	f := newFixture(t)
	f.addPending(3, "Food Pantry", "Senior Services")
	boom := errors.New("tag insert failed")
	f.unit.failOnTag = boom

	_, err := f.svc.Review(context.Background(), 3, types.ReviewInput{Action: types.ReviewActionApprove})

	require.ErrorIs(t, err, boom)
	assert.Empty(t, f.unit.state.resources)
	assert.Empty(t, f.unit.state.links)
	assert.Equal(t, types.SubmissionStatusPending, f.unit.state.submissions[3].Status)
	assert.Empty(t, f.observer)
}

func TestNext(t *testing.T) {
	status, err := next(types.SubmissionStatusPending, types.ReviewActionApprove)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusApproved, status)

	status, err = next(types.SubmissionStatusPending, types.ReviewActionReject)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusRejected, status)

	_, err = next(types.SubmissionStatusPending, "archive")
	assert.ErrorIs(t, err, types.ErrInvalidAction)

	_, err = next(types.SubmissionStatusApproved, types.ReviewActionReject)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), types.SubmissionInput{
		Name:         "  ",
		Address:      "1 Main St",
		City:         "Alton",
		State:        "il",
		Email:        "not-an-email",
		FoodDistType: "buffet",
	})

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "zipCode")
	assert.Contains(t, verr.Fields, "categoryId")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "foodDistType")
	assert.NotContains(t, verr.Fields, "address")
	assert.Empty(t, f.store.created)
}

func TestSubmit_StoresPending(t *testing.T) {
	f := newFixture(t)

	sub, err := f.svc.Submit(context.Background(), types.SubmissionInput{
		Name:            " Alton Food Bank ",
		Address:         "2 River Rd",
		City:            "Alton",
		State:           "il",
		ZipCode:         "62002",
		CategoryID:      1,
		Phone:           " ",
		Tags:            []string{"Seniors", " ", "Veterans "},
		FoodDistType:    "meal",
		LanguagesSpoken: []string{""},
	})
	require.NoError(t, err)

	assert.Equal(t, types.SubmissionStatusPending, sub.Status)
	assert.Equal(t, "Alton Food Bank", sub.Name)
	assert.Equal(t, "IL", sub.State)
	assert.Nil(t, sub.Phone)
	assert.Equal(t, []string{"Seniors", "Veterans"}, sub.Tags)
	assert.Equal(t, "meal", *sub.FoodDistType)
	assert.Nil(t, sub.LanguagesSpoken)
	assert.Equal(t, int64(1), *sub.PrimaryCategoryID)

	listed, err := f.svc.Submissions(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = f.svc.Submissions(context.Background(), "archived")
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}
