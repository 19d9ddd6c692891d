package types

import "time"

type User struct {
	ID          int64     `db:"id" json:"id"`
	ExternalUID string    `db:"external_uid" json:"externalUid"`
	Email       *string   `db:"email" json:"email"`
	DisplayName *string   `db:"display_name" json:"displayName"`
	PhotoURL    *string   `db:"photo_url" json:"photoUrl"`
	IsAdmin     bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSyncInput carries the profile fields of a sync. Email is never read
// from the request body; it comes from the verified token.
type UserSyncInput struct {
	Email       string `json:"-"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

type Favorite struct {
	UserID     int64     `db:"user_id" json:"userId"`
	ResourceID int64     `db:"resource_id" json:"resourceId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
