package types

import "time"

type CategoryMode string

const (
	CategoryModeNeed  CategoryMode = "need"
	CategoryModeOffer CategoryMode = "offer"
	CategoryModeBoth  CategoryMode = "both"
)

func (m CategoryMode) Valid() bool {
	switch m {
	case CategoryModeNeed, CategoryModeOffer, CategoryModeBoth:
		return true
	}
	return false
}

type Category struct {
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Slug         string       `db:"slug" json:"slug"`
	Description  *string      `db:"description" json:"description"`
	Icon         *string      `db:"icon" json:"icon"`
	Mode         CategoryMode `db:"mode" json:"mode"`
	ParentID     *int64       `db:"parent_id" json:"parentId"`
	DisplayOrder int          `db:"display_order" json:"displayOrder"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

// CategoryListing is a category row as returned to the public, with the
// number of eligible resources filed under it.
type CategoryListing struct {
	Category
	ResourceCount int64              `db:"resource_count" json:"resourceCount"`
	Children      []*CategoryListing `db:"-" json:"children,omitempty"`
}

type CategoryFilter struct {
	Mode         CategoryMode
	IncludeEmpty bool
	Flat         bool
}

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ResourceTag struct {
	ResourceID int64 `db:"resource_id"`
	TagID      int64 `db:"tag_id"`
}
