package seed

import (
	"context"
	"errors"
	"testing"

	"humanaid/internal/normalize"
	"humanaid/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryStore struct {
	rows    map[string]*types.Category
	nextID  int64
	deleted []int64
}

func (f *fakeCategoryStore) AllCategoriesUnfiltered(ctx context.Context) ([]*types.Category, error) {
	out := make([]*types.Category, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) UpsertCategory(ctx context.Context, category *types.Category) (int64, error) {
	if existing, ok := f.rows[category.Slug]; ok {
		category.ID = existing.ID
	} else {
		f.nextID++
		category.ID = f.nextID
	}
	c := *category
	f.rows[category.Slug] = &c
	return category.ID, nil
}

func (f *fakeCategoryStore) DeleteCategory(ctx context.Context, id int64) error {
	for slug, c := range f.rows {
		if c.ID == id {
			delete(f.rows, slug)
		}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestCategories(t *testing.T) {
	categories := Categories()
	require.Len(t, categories, len(normalize.CanonicalCategories))

	assert.Equal(t, "Food Pantry", categories[0].Name)
	assert.Equal(t, "food-pantry", categories[0].Slug)
	assert.Equal(t, 1, categories[0].DisplayOrder)
	assert.Equal(t, "crisis-emergency", categories[5].Slug)

	for _, c := range categories {
		assert.Equal(t, types.CategoryModeBoth, c.Mode)
		assert.NotNil(t, c.Icon, c.Name)
	}
}

func TestSeedCategories_Syncs(t *testing.T) {
	repo := &fakeCategoryStore{
		rows: map[string]*types.Category{
			"food-pantry":    {ID: 1, Name: "Food", Slug: "food-pantry"},
			"food-nutrition": {ID: 2, Name: "Food & Nutrition", Slug: "food-nutrition"},
		},
		nextID: 2,
	}

	require.NoError(t, SeedCategories(context.Background(), repo))

	assert.Equal(t, []int64{2}, repo.deleted)
	assert.Len(t, repo.rows, len(normalize.CanonicalCategories))
	assert.Equal(t, int64(1), repo.rows["food-pantry"].ID)
	assert.Equal(t, "Food Pantry", repo.rows["food-pantry"].Name)
}

type fakeAdminStore struct {
	known    map[string]bool
	promoted []string
}

func (f *fakeAdminStore) SetAdminByEmail(ctx context.Context, email string, admin bool) error {
	if !f.known[email] {
		return types.ErrUserNotFound
	}
	f.promoted = append(f.promoted, email)
	return nil
}

func TestPromoteAdmins(t *testing.T) {
	repo := &fakeAdminStore{known: map[string]bool{"a@example.org": true}}

	require.NoError(t, PromoteAdmins(context.Background(), repo, []string{" a@example.org ", ""}))
	assert.Equal(t, []string{"a@example.org"}, repo.promoted)

	err := PromoteAdmins(context.Background(), repo, []string{"b@example.org"})
	assert.True(t, errors.Is(err, types.ErrUserNotFound))
}
