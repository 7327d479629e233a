package dto

import (
	"github.com/noah-isme/appkademy-api/internal/models"
)

// AddressRequest carries an address in write payloads.
type AddressRequest struct {
	Country       string `json:"country" validate:"required,max=100"`
	Province      string `json:"province" validate:"required,max=100"`
	City          string `json:"city" validate:"required,max=100"`
	StreetAddress string `json:"streetAddress" validate:"max=255"`
}

// ToModel maps the payload onto the address value object.
func (a AddressRequest) ToModel() models.Address {
	return models.Address{
		Country:       a.Country,
		Province:      a.Province,
		City:          a.City,
		StreetAddress: a.StreetAddress,
	}
}

// AddressResponse is the public shape of an address.
type AddressResponse struct {
	Country       string `json:"country"`
	Province      string `json:"province"`
	City          string `json:"city"`
	StreetAddress string `json:"streetAddress"`
}

// NewAddressResponse maps an address value object.
func NewAddressResponse(a models.Address) AddressResponse {
	return AddressResponse{Country: a.Country, Province: a.Province, City: a.City, StreetAddress: a.StreetAddress}
}

// TeacherCreateRequest defines the payload for registering a teacher.
type TeacherCreateRequest struct {
	UserID                string                       `json:"userId" validate:"required"`
	FirstName             string                       `json:"firstName" validate:"required,max=100"`
	LastName              string                       `json:"lastName" validate:"required,max=100"`
	HourlyRates           models.HourlyRates           `json:"hourlyRates" validate:"required,min=1,dive,keys,oneof=ARS USD EUR,endkeys"`
	Modalities            models.Modalities            `json:"modalities" validate:"required,min=1,dive,oneof=REMOTE FACE_TO_FACE"`
	ProficiencyIDs        []string                     `json:"proficiencyIds" validate:"required,min=1,dive,required"`
	CharacteristicIDs     []string                     `json:"characteristicIds" validate:"omitempty,dive,required"`
	WeeklyWorkingSchedule models.WeeklyWorkingSchedule `json:"weeklyWorkingSchedule"`
	ProfilePictureURL     string                       `json:"profilePictureUrl" validate:"omitempty,url"`
	ShortDescription      string                       `json:"shortDescription" validate:"max=255"`
	FullDescription       string                       `json:"fullDescription" validate:"max=5000"`
	Address               AddressRequest               `json:"address"`
}

// TeacherUpdateRequest replaces every mutable field of a teacher. Ownership
// cannot change through it.
type TeacherUpdateRequest struct {
	FirstName             string                       `json:"firstName" validate:"required,max=100"`
	LastName              string                       `json:"lastName" validate:"required,max=100"`
	HourlyRates           models.HourlyRates           `json:"hourlyRates" validate:"required,min=1,dive,keys,oneof=ARS USD EUR,endkeys"`
	Modalities            models.Modalities            `json:"modalities" validate:"required,min=1,dive,oneof=REMOTE FACE_TO_FACE"`
	ProficiencyIDs        []string                     `json:"proficiencyIds" validate:"required,min=1,dive,required"`
	CharacteristicIDs     []string                     `json:"characteristicIds" validate:"omitempty,dive,required"`
	WeeklyWorkingSchedule models.WeeklyWorkingSchedule `json:"weeklyWorkingSchedule"`
	ProfilePictureURL     string                       `json:"profilePictureUrl" validate:"omitempty,url"`
	ShortDescription      string                       `json:"shortDescription" validate:"max=255"`
	FullDescription       string                       `json:"fullDescription" validate:"max=5000"`
	Address               AddressRequest               `json:"address"`
	Enabled               bool                         `json:"enabled"`
	TotalLikes            int64                        `json:"totalLikes" validate:"min=0"`
}

// TeachingProficiencyResponse is the public shape of a proficiency.
type TeachingProficiencyResponse struct {
	ID           string              `json:"id"`
	Subject      models.Subject      `json:"subject"`
	MasteryLevel models.MasteryLevel `json:"masteryLevel"`
}

// NewTeachingProficiencyResponses maps proficiencies preserving order.
func NewTeachingProficiencyResponses(items []models.TeachingProficiency) []TeachingProficiencyResponse {
	out := make([]TeachingProficiencyResponse, len(items))
	for i, p := range items {
		out[i] = TeachingProficiencyResponse{ID: p.ID, Subject: p.Subject, MasteryLevel: p.MasteryLevel}
	}
	return out
}

// TeacherCompactResponse is the search-result projection of a teacher.
type TeacherCompactResponse struct {
	ID                 string                        `json:"id"`
	FirstName          string                        `json:"firstName"`
	LastName           string                        `json:"lastName"`
	ProviderCategoryID int64                         `json:"providerCategoryId"`
	IdentityVerified   bool                          `json:"identityVerified"`
	Address            AddressResponse               `json:"address"`
	ProfilePictureURL  string                        `json:"profilePictureUrl"`
	ShortDescription   string                        `json:"shortDescription"`
	TotalLikes         int64                         `json:"totalLikes"`
	Proficiencies      []TeachingProficiencyResponse `json:"proficiencies"`
}

// NewTeacherCompactResponse projects a teacher, carrying all of its proficiencies.
func NewTeacherCompactResponse(t models.Teacher) TeacherCompactResponse {
	return TeacherCompactResponse{
		ID:                 t.ID,
		FirstName:          t.FirstName,
		LastName:           t.LastName,
		ProviderCategoryID: t.ProviderCategoryID,
		IdentityVerified:   t.IdentityVerified,
		Address:            NewAddressResponse(t.Address),
		ProfilePictureURL:  t.ProfilePictureURL,
		ShortDescription:   t.ShortDescription,
		TotalLikes:         t.TotalLikes,
		Proficiencies:      NewTeachingProficiencyResponses(t.Proficiencies),
	}
}

// TeacherSearchResponse is one page of search results. Pagination fields are
// only populated when the page carries results.
type TeacherSearchResponse struct {
	PageNumberSelected *int                     `json:"pageNumberSelected,omitempty"`
	PageSizeSelected   *int                     `json:"pageSizeSelected,omitempty"`
	TotalPagesFound    *int                     `json:"totalPagesFound,omitempty"`
	TotalItemsFound    *int64                   `json:"totalItemsFound,omitempty"`
	SearchResults      []TeacherCompactResponse `json:"searchResults,omitempty"`
}

// TeacherExportQuery selects the format of a search export.
type TeacherExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
