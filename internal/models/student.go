package models

import "time"

// Student is a learner profile owned by exactly one user.
type Student struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"userId"`
	FirstName         string    `db:"first_name" json:"firstName"`
	LastName          string    `db:"last_name" json:"lastName"`
	Email             string    `db:"email" json:"email"`
	Address           Address   `db:"-" json:"address"`
	ProfilePictureURL string    `db:"profile_picture_url" json:"profilePictureUrl"`
	Enabled           bool      `db:"enabled" json:"enabled"`
	CreatedOn         time.Time `db:"created_on" json:"createdOn"`
	LastModifiedOn    time.Time `db:"last_modified_on" json:"lastModifiedOn"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Enabled  *bool
	Page     int
	PageSize int
}
