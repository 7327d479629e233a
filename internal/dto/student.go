package dto

// StudentCreateRequest defines the payload for registering a student.
type StudentCreateRequest struct {
	UserID            string         `json:"userId" validate:"required"`
	FirstName         string         `json:"firstName" validate:"required,max=100"`
	LastName          string         `json:"lastName" validate:"required,max=100"`
	Email             string         `json:"email" validate:"required"`
	ProfilePictureURL string         `json:"profilePictureUrl" validate:"omitempty,url"`
	Address           AddressRequest `json:"address"`
}

// StudentUpdateRequest replaces every mutable field of a student.
type StudentUpdateRequest struct {
	FirstName         string         `json:"firstName" validate:"required,max=100"`
	LastName          string         `json:"lastName" validate:"required,max=100"`
	Email             string         `json:"email" validate:"required"`
	ProfilePictureURL string         `json:"profilePictureUrl" validate:"omitempty,url"`
	Address           AddressRequest `json:"address"`
	Enabled           bool           `json:"enabled"`
}

// StudentListQuery captures list query parameters.
type StudentListQuery struct {
	Search   string `form:"search"`
	Enabled  *bool  `form:"enabled"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
