package types

import (
	"time"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

const (
	FoodDistTypeBoxes = "boxes"
	FoodDistTypeMeal  = "meal"
	FoodDistTypeBoth  = "both"
)

// NormalizeFoodDistType returns nil for anything outside the fixed enum,
// including the empty string.
func NormalizeFoodDistType(v *string) *string {
	if v == nil {
		return nil
	}
	switch *v {
	case FoodDistTypeBoxes, FoodDistTypeMeal, FoodDistTypeBoth:
		out := *v
		return &out
	}
	return nil
}

// Resource is a published listing. The geographic point is not part of the
// column map because it has to be written through PostGIS functions.
type Resource struct {
	ID             int64          `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Slug           string         `db:"slug" json:"slug"`
	Description    *string        `db:"description" json:"description"`
	Address        string         `db:"address" json:"address"`
	City           string         `db:"city" json:"city"`
	State          string         `db:"state" json:"state"`
	ZipCode        *string        `db:"zip_code" json:"zipCode"`
	Phone          *string        `db:"phone" json:"phone"`
	Website        *string        `db:"website" json:"website"`
	Email          *string        `db:"email" json:"email"`
	Hours          *string        `db:"hours" json:"hours"`
	IsActive       bool           `db:"is_active" json:"isActive"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approvalStatus"`

	PrimaryCategoryID *int64  `db:"primary_category_id" json:"primaryCategoryId"`
	FoodDistOnsite    *bool   `db:"food_dist_onsite" json:"foodDistOnsite"`
	FoodDistType      *string `db:"food_dist_type" json:"foodDistType"`

	EligibilityRequirements *string  `db:"eligibility_requirements" json:"eligibilityRequirements"`
	AppointmentRequired     *bool    `db:"appointment_required" json:"appointmentRequired"`
	WalkInsAccepted         *bool    `db:"walk_ins_accepted" json:"walkInsAccepted"`
	ServiceArea             *string  `db:"service_area" json:"serviceArea"`
	LanguagesSpoken         []string `db:"languages_spoken" json:"languagesSpoken"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ResourceListing is a Resource as read back for display, with the point
// unpacked and the category and tag names joined in. Distance and Rank are
// only populated by located and text queries respectively.
type ResourceListing struct {
	Resource

	Latitude     *float64 `db:"latitude" json:"latitude"`
	Longitude    *float64 `db:"longitude" json:"longitude"`
	CategoryName *string  `db:"category_name" json:"categoryName"`
	CategorySlug *string  `db:"category_slug" json:"categorySlug"`
	Tags         []string `db:"tags" json:"tags"`
	Distance     *float64 `db:"distance" json:"distance,omitempty"`
	Rank         *float64 `db:"rank" json:"rank,omitempty"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ResourceFilter carries already-parsed list filters. Zero values mean the
// filter is absent.
type ResourceFilter struct {
	City     string
	State    string
	Zip      string
	Category string
	IDs      []int64

	Near        *GeoPoint
	RadiusMiles float64

	// Admin only
	Search     string
	MissingZip bool

	Limit  uint64
	Offset uint64
}

type ResourcePage struct {
	Count     int                `json:"count"`
	Total     int64              `json:"total"`
	Resources []*ResourceListing `json:"resources"`
}

type StatsData struct {
	Resources  int64 `db:"resources" json:"resources"`
	Categories int64 `db:"categories" json:"categories"`
	Cities     int64 `db:"cities" json:"cities"`
}
