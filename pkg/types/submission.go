package types

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	}
	return false
}

type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

// Submission is an untrusted candidate listing awaiting moderation.
type Submission struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	Address     string  `db:"address" json:"address"`
	City        string  `db:"city" json:"city"`
	State       string  `db:"state" json:"state"`
	ZipCode     string  `db:"zip_code" json:"zipCode"`
	Phone       *string `db:"phone" json:"phone"`
	Website     *string `db:"website" json:"website"`
	Email       *string `db:"email" json:"email"`
	Hours       *string `db:"hours" json:"hours"`

	PrimaryCategoryID *int64   `db:"primary_category_id" json:"primaryCategoryId"`
	Tags              []string `db:"tags" json:"tags"` // jsonb array
	FoodDistOnsite    *bool    `db:"food_dist_onsite" json:"foodDistOnsite"`
	FoodDistType      *string  `db:"food_dist_type" json:"foodDistType"`

	EligibilityRequirements *string  `db:"eligibility_requirements" json:"eligibilityRequirements"`
	AppointmentRequired     *bool    `db:"appointment_required" json:"appointmentRequired"`
	WalkInsAccepted         *bool    `db:"walk_ins_accepted" json:"walkInsAccepted"`
	ServiceArea             *string  `db:"service_area" json:"serviceArea"`
	LanguagesSpoken         []string `db:"languages_spoken" json:"languagesSpoken"`
	Notes                   *string  `db:"notes" json:"notes"`

	SubmittedBy     *string `db:"submitted_by" json:"submittedBy"`
	SubmittedByName *string `db:"submitted_by_name" json:"submittedByName"`
	SubmittedByUID  *string `db:"submitted_by_uid" json:"submittedByUid"`

	Status     SubmissionStatus `db:"status" json:"status"`
	ReviewedBy *string          `db:"reviewed_by" json:"reviewedBy"`
	ReviewedAt *time.Time       `db:"reviewed_at" json:"reviewedAt"`
	ResourceID *int64           `db:"resource_id" json:"resourceId"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
}

type SubmissionListing struct {
	Submission
	CategoryName *string `db:"category_name" json:"categoryName"`
	CategoryIcon *string `db:"category_icon" json:"categoryIcon"`
}

// SubmissionInput is the public submission payload.
type SubmissionInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	ZipCode     string `json:"zipCode" validate:"required"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Email       string `json:"email" validate:"omitempty,email"`
	Hours       string `json:"hours"`
	CategoryID  int64  `json:"categoryId" validate:"required,gt=0"`

	Tags           []string `json:"tags"`
	FoodDistOnsite *bool    `json:"foodDistOnsite"`
	FoodDistType   string   `json:"foodDistType" validate:"omitempty,oneof=boxes meal both"`

	EligibilityRequirements string   `json:"eligibilityRequirements"`
	AppointmentRequired     *bool    `json:"appointmentRequired"`
	WalkInsAccepted         *bool    `json:"walkInsAccepted"`
	ServiceArea             string   `json:"serviceArea"`
	LanguagesSpoken         []string `json:"languagesSpoken"`
	Notes                   string   `json:"notes"`

	SubmittedBy     string `json:"submittedBy" validate:"omitempty,email"`
	SubmittedByName string `json:"submittedByName"`
	SubmittedByUID  string `json:"submittedByUid"`
}

// ReviewInput is the moderation request. ReviewedBy is set from the
// authenticated admin, not decoded from the body.
type ReviewInput struct {
	Action     ReviewAction `json:"action"`
	ReviewedBy string       `json:"-"`
}

type ReviewOutcome struct {
	SubmissionID int64            `json:"submissionId"`
	Status       SubmissionStatus `json:"status"`
	ResourceID   *int64           `json:"resourceId,omitempty"`
	Slug         string           `json:"slug,omitempty"`
	Primary      string           `json:"primaryCategory,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
}

// SubmissionDraft is the best-effort output of the external field suggester.
// Every field may be empty and none of it is trusted.
type SubmissionDraft struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Website           string `json:"website"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zipCode"`
	Hours             string `json:"hours"`
	PredictedCategory string `json:"predictedCategory,omitempty"`
}
