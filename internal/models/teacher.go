package models

import "time"

// Teacher is a tutoring-provider profile owned by exactly one user.
type Teacher struct {
	ID                    string                `db:"id" json:"id"`
	UserID                string                `db:"user_id" json:"userId"`
	FirstName             string                `db:"first_name" json:"firstName"`
	LastName              string                `db:"last_name" json:"lastName"`
	HourlyRates           HourlyRates           `db:"hourly_rates" json:"hourlyRates"`
	Modalities            Modalities            `db:"modalities" json:"modalities"`
	Proficiencies         []TeachingProficiency `db:"-" json:"proficiencies"`
	Characteristics       []Characteristic      `db:"-" json:"characteristics,omitempty"`
	WeeklyWorkingSchedule WeeklyWorkingSchedule `db:"weekly_working_schedule" json:"weeklyWorkingSchedule"`
	Address               Address               `db:"-" json:"address"`
	ProviderCategoryID    int64                 `db:"provider_category_id" json:"providerCategoryId"`
	ProfilePictureURL     string                `db:"profile_picture_url" json:"profilePictureUrl"`
	ShortDescription      string                `db:"short_description" json:"shortDescription"`
	FullDescription       string                `db:"full_description" json:"fullDescription"`
	Enabled               bool                  `db:"enabled" json:"enabled"`
	IdentityVerified      bool                  `db:"identity_verified" json:"identityVerified"`
	SignupApprovedByAdmin bool                  `db:"signup_approved_by_admin" json:"signupApprovedByAdmin"`
	TotalLikes            int64                 `db:"total_likes" json:"totalLikes"`
	CreatedOn             time.Time             `db:"created_on" json:"createdOn"`
	LastModifiedOn        time.Time             `db:"last_modified_on" json:"lastModifiedOn"`
}

// ProficiencyIDs returns the ids of the attached proficiencies in order.
func (t *Teacher) ProficiencyIDs() []string {
	ids := make([]string, 0, len(t.Proficiencies))
	for _, p := range t.Proficiencies {
		ids = append(ids, p.ID)
	}
	return ids
}

// CharacteristicIDs returns the ids of the attached characteristics in order.
func (t *Teacher) CharacteristicIDs() []string {
	ids := make([]string, 0, len(t.Characteristics))
	for _, c := range t.Characteristics {
		ids = append(ids, c.ID)
	}
	return ids
}

// TeacherFilter captures the optional search criteria for teachers. A nil or
// empty field places no constraint on the result.
type TeacherFilter struct {
	TeacherIDs          []string                   `json:"teacherIds"`
	Country             *string                    `json:"country"`
	Province            *string                    `json:"province"`
	City                *string                    `json:"city"`
	TeachingProficiency *TeachingProficiencyFilter `json:"teachingProficiency"`
	PageNumber          *int                       `json:"pageNumber"`
	PageSize            *int                       `json:"pageSize"`
}

// TeachingProficiencyFilter narrows teachers by any of their proficiencies.
type TeachingProficiencyFilter struct {
	Subject      *SubjectFilter `json:"subject"`
	MasteryLevel *MasteryLevel  `json:"masteryLevel"`
}

// SubjectFilter matches a subject by name.
type SubjectFilter struct {
	Name string `json:"name"`
}

// TeacherPage is one page of a predicate-filtered teacher query.
type TeacherPage struct {
	Items         []Teacher
	TotalElements int64
	TotalPages    int
}

// Empty reports whether the page carries no rows.
func (p *TeacherPage) Empty() bool {
	return p == nil || len(p.Items) == 0
}
