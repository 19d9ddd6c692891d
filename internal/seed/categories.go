package seed

import (
	"context"
	"fmt"

	"humanaid/internal/normalize"
	"humanaid/internal/utils"
	"humanaid/pkg/types"
)

// CategoryStore is the part of store.CategoryRepository the sync needs.
type CategoryStore interface {
	AllCategoriesUnfiltered(ctx context.Context) ([]*types.Category, error)
	UpsertCategory(ctx context.Context, category *types.Category) (int64, error)
	DeleteCategory(ctx context.Context, id int64) error
}

var categoryDetails = map[string]struct {
	description string
	icon        string
}{
	"Food Pantry":                  {"Food pantries, meal programs, and grocery distribution", "utensils"},
	"Housing Assistance":           {"Shelters, transitional housing, and rent assistance", "home"},
	"Mental Health":                {"Counseling, therapy, and behavioral health services", "brain"},
	"Medical Care":                 {"Clinics, dental, vision, and prescription help", "heart-pulse"},
	"Legal Assistance":             {"Legal aid, documentation, and court support", "scale"},
	"Crisis & Emergency":           {"Hotlines and urgent, immediate help", "alert-circle"},
	"Family & Children":            {"Childcare, parenting, and youth programs", "users"},
	"Employment & Financial Help":  {"Job training, utility assistance, and income support", "briefcase"},
	"Disability & Senior Services": {"Programs for older adults and people with disabilities", "accessibility"},
	"Community Resource":           {"General community services and everything else", "landmark"},
}

// Categories builds the canonical taxonomy. Display order follows the
// normalizer's priority list.
func Categories() []types.Category {
	categories := make([]types.Category, 0, len(normalize.CanonicalCategories))
	for i, name := range normalize.CanonicalCategories {
		details := categoryDetails[name]
		categories = append(categories, types.Category{
			Name:         name,
			Slug:         utils.Slugify(name),
			Description:  utils.StringPtrOrNil(details.description),
			Icon:         utils.StringPtrOrNil(details.icon),
			Mode:         types.CategoryModeBoth,
			DisplayOrder: i + 1,
		})
	}
	return categories
}

// SeedCategories syncs the database with Categories(). This file is the
// source of truth for the taxonomy:
// - Inserts new categories that don't exist
// - Updates existing categories that have changed
// - Deletes categories from DB that aren't in this list
//
// Categories are matched by slug, so renaming one here deletes the old row.
func SeedCategories(ctx context.Context, repo CategoryStore) error {
	categories := Categories()

	fmt.Println("Starting category sync...")
	fmt.Printf("  Seed file contains %d categories\n", len(categories))

	seedSlugs := make(map[string]bool)
	for _, cat := range categories {
		seedSlugs[cat.Slug] = true
	}

	existing, err := repo.AllCategoriesUnfiltered(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing categories: %w", err)
	}
	fmt.Printf("  Database contains %d categories\n", len(existing))

	deletedCount := 0
	for _, existingCat := range existing {
		if !seedSlugs[existingCat.Slug] {
			fmt.Printf("  Deleting category: %s (slug: %s)\n", existingCat.Name, existingCat.Slug)
			if err := repo.DeleteCategory(ctx, existingCat.ID); err != nil {
				return fmt.Errorf("failed to delete category %s: %w", existingCat.Slug, err)
			}
			deletedCount++
		}
	}

	upsertedCount := 0
	for _, cat := range categories {
		fmt.Printf("  Upserting category: %s (slug: %s)\n", cat.Name, cat.Slug)
		if _, err := repo.UpsertCategory(ctx, &cat); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", cat.Slug, err)
		}
		upsertedCount++
	}

	fmt.Printf("\nSync complete: %d upserted, %d deleted\n", upsertedCount, deletedCount)
	return nil
}
