package models

// Subject is a teachable topic.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// MasteryLevel is an ordinal scale of teaching expertise.
type MasteryLevel string

const (
	MasteryBeginner     MasteryLevel = "BEGINNER"
	MasteryIntermediate MasteryLevel = "INTERMEDIATE"
	MasteryAdvanced     MasteryLevel = "ADVANCED"
	MasteryExpert       MasteryLevel = "EXPERT"
)

var masteryOrder = map[MasteryLevel]int{
	MasteryBeginner:     0,
	MasteryIntermediate: 1,
	MasteryAdvanced:     2,
	MasteryExpert:       3,
}

// Ordinal returns the position of the level on the scale, or -1 when unknown.
func (l MasteryLevel) Ordinal() int {
	if o, ok := masteryOrder[l]; ok {
		return o
	}
	return -1
}

// Valid reports whether the level is part of the scale.
func (l MasteryLevel) Valid() bool {
	return l.Ordinal() >= 0
}

// TeachingProficiency is a (subject, mastery level) claim a teacher can attach.
type TeachingProficiency struct {
	ID           string       `json:"id"`
	Subject      Subject      `json:"subject"`
	MasteryLevel MasteryLevel `json:"masteryLevel"`
}

// Characteristic is a descriptive tag attachable to a teacher.
type Characteristic struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CatalogFilter pages through catalogue listings.
type CatalogFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// Normalize returns the page and page size with defaults applied.
func (f CatalogFilter) Normalize() (int, int) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return page, size
}
