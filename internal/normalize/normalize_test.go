package normalize

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) CategoryIDsByName(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockWriter) SetPrimaryCategory(ctx context.Context, resourceID, categoryID int64, onsite *bool) error {
	return m.Called(ctx, resourceID, categoryID, onsite).Error(0)
}

func (m *mockWriter) UpsertTag(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWriter) LinkTag(ctx context.Context, resourceID, tagID int64) error {
	return m.Called(ctx, resourceID, tagID).Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestApply_WritesPrimaryAndTags(t *testing.T) {
	ctx := context.Background()
	w := new(mockWriter)
	ids := canonicalIDs()

	w.On("CategoryIDsByName", ctx).Return(ids, nil)
	w.On("SetPrimaryCategory", ctx, int64(7), ids["Food Pantry"], boolPtr(true)).Return(nil)
	w.On("UpsertTag", ctx, "Senior Services").Return(int64(40), nil)
	w.On("LinkTag", ctx, int64(7), int64(40)).Return(nil)

	n := New(quietLogger(), DefaultRules())
	plan, err := n.Apply(ctx, w, Input{
		ResourceID:  7,
		Raw:         []string{"Food Pantry", "Senior Services"},
		Description: "Drive-thru distribution",
	})

	require.NoError(t, err)
	assert.Equal(t, "Food Pantry", plan.Primary)
	assert.Equal(t, []string{"Senior Services"}, plan.Tags)
	w.AssertExpectations(t)
}

func TestApply_MissingFallbackCategory(t *testing.T) {
	ctx := context.Background()
	w := new(mockWriter)
	w.On("CategoryIDsByName", ctx).Return(map[string]int64{"Food Pantry": 1}, nil)

	n := New(quietLogger(), DefaultRules())
	_, err := n.Apply(ctx, w, Input{ResourceID: 1, Raw: []string{"Senior Services"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Community Resource")
	w.AssertNotCalled(t, "SetPrimaryCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApply_StopsOnTagFailure(t *testing.T) {
	ctx := context.Background()
	w := new(mockWriter)
	ids := canonicalIDs()
	boom := errors.New("boom")

	w.On("CategoryIDsByName", ctx).Return(ids, nil)
	w.On("SetPrimaryCategory", ctx, int64(3), ids["Community Resource"], (*bool)(nil)).Return(nil)
	w.On("UpsertTag", ctx, "Senior Services").Return(int64(0), boom)

	n := New(quietLogger(), DefaultRules())
	_, err := n.Apply(ctx, w, Input{ResourceID: 3, Raw: []string{"Senior Services", "Veterans"}})

	require.ErrorIs(t, err, boom)
	w.AssertNotCalled(t, "LinkTag", mock.Anything, mock.Anything, mock.Anything)
	w.AssertNotCalled(t, "UpsertTag", ctx, "Veterans")
}
