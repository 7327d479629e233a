package models

import "time"

// UserType discriminates which role profile a user maps to.
type UserType string

const (
	UserTypeNone    UserType = "NONE"
	UserTypeTeacher UserType = "TEACHER"
	UserTypeStudent UserType = "STUDENT"
	UserTypeAdmin   UserType = "ADMIN"
)

// User is an authenticated account. UserTypeID points at the role profile row.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Type         UserType  `db:"type" json:"type"`
	UserTypeID   *string   `db:"user_type_id" json:"userTypeId,omitempty"`
	Enabled      bool      `db:"enabled" json:"enabled"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// LinkProfile points the user at a freshly created role profile.
func (u *User) LinkProfile(userType UserType, profileID string) {
	u.Type = userType
	id := profileID
	u.UserTypeID = &id
}

// UnlinkProfile clears the role pointer.
func (u *User) UnlinkProfile() {
	u.Type = UserTypeNone
	u.UserTypeID = nil
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}
