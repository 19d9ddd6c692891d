package store

import (
	"context"
	"fmt"
	"time"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var categoryColumns = utils.StructTagValues(types.Category{})

type CategoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func categoriesSQL(filter types.CategoryFilter) (string, []any, error) {
	b := psql().
		Select(utils.PrefixSliceOfStrings("cat", categoryColumns)...).
		Column("COUNT(r.id) AS resource_count").
		From(categoryTableName+" cat").
		LeftJoin(resourceTableName+" r ON r.primary_category_id = cat.id AND r.is_active = true AND r.approval_status = ?", string(types.ApprovalStatusApproved)).
		GroupBy("cat.id")

	if filter.Mode != "" {
		b = b.Where(sq.Or{
			sq.Eq{"cat.mode": string(filter.Mode)},
			sq.Eq{"cat.mode": string(types.CategoryModeBoth)},
		})
	}

	if !filter.IncludeEmpty {
		b = b.Having("COUNT(r.id) > 0")
	}

	return b.OrderBy("cat.display_order ASC", "cat.name ASC").ToSql()
}

// Categories returns categories with their published resource counts. Unless
// filter.Flat is set the result is nested under root categories.
func (r *CategoryRepository) Categories(ctx context.Context, filter types.CategoryFilter) ([]*types.CategoryListing, error) {
	query, args, err := categoriesSQL(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to generate categories query: %w", err)
	}

	var categories = make([]*types.CategoryListing, 0)
	err = pgxscan.Select(ctx, r.db, &categories, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	if filter.Flat {
		return categories, nil
	}

	return nestCategories(categories), nil
}

// nestCategories attaches children to their parents, preserving order.
// A child whose parent was filtered out is promoted to the root level.
func nestCategories(flat []*types.CategoryListing) []*types.CategoryListing {
	byID := make(map[int64]*types.CategoryListing, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	roots := make([]*types.CategoryListing, 0, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}

	return roots
}

func (r *CategoryRepository) CategoryByID(ctx context.Context, id int64) (*types.Category, error) {
	query, args, err := psql().
		Select(categoryColumns...).
		From(categoryTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category query: %w", err)
	}

	var category types.Category
	err = pgxscan.Get(ctx, r.db, &category, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	return &category, nil
}

// CategoryIDsByName maps every canonical category name to its id.
func (r *CategoryRepository) CategoryIDsByName(ctx context.Context) (map[string]int64, error) {
	categories, err := r.AllCategoriesUnfiltered(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(categories))
	for _, c := range categories {
		out[c.Name] = c.ID
	}

	return out, nil
}

func (r *CategoryRepository) AllCategoriesUnfiltered(ctx context.Context) ([]*types.Category, error) {
	query, args, err := psql().
		Select(categoryColumns...).
		From(categoryTableName).
		OrderBy("display_order ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate categories query: %w", err)
	}

	var categories []*types.Category
	err = pgxscan.Select(ctx, r.db, &categories, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return categories, nil
}

// UpsertCategory inserts or refreshes a category keyed by slug and returns
// its id.
func (r *CategoryRepository) UpsertCategory(ctx context.Context, category *types.Category) (int64, error) {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	categoryMap := utils.StructToMap(category)
	delete(categoryMap, "id")

	// Exclude slug and created_at from updates
	updateMap := make(map[string]any)
	for k, v := range categoryMap {
		if k != "slug" && k != "created_at" {
			updateMap[k] = v
		}
	}

	query, args, err := psql().
		Insert(categoryTableName).
		SetMap(categoryMap).
		Suffix("ON CONFLICT (slug) DO UPDATE SET " + buildUpdateClause(updateMap) + " RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate upsert query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&category.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert category: %w", err)
	}

	return category.ID, nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	query, args, err := psql().
		Delete(categoryTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
