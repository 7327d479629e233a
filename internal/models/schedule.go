package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// WorkingHours is a half-open time range within a day, formatted HH:MM.
type WorkingHours struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// WeeklyWorkingSchedule lists the ranges a teacher accepts lessons on each weekday.
// Persisted as JSONB.
type WeeklyWorkingSchedule struct {
	Monday    []WorkingHours `json:"monday,omitempty" validate:"omitempty,dive"`
	Tuesday   []WorkingHours `json:"tuesday,omitempty" validate:"omitempty,dive"`
	Wednesday []WorkingHours `json:"wednesday,omitempty" validate:"omitempty,dive"`
	Thursday  []WorkingHours `json:"thursday,omitempty" validate:"omitempty,dive"`
	Friday    []WorkingHours `json:"friday,omitempty" validate:"omitempty,dive"`
	Saturday  []WorkingHours `json:"saturday,omitempty" validate:"omitempty,dive"`
	Sunday    []WorkingHours `json:"sunday,omitempty" validate:"omitempty,dive"`
}

// Value implements driver.Valuer.
func (w WeeklyWorkingSchedule) Value() (driver.Value, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal weekly working schedule: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (w *WeeklyWorkingSchedule) Scan(src interface{}) error {
	return scanJSON(src, w)
}
