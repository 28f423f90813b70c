package models

import "time"

// Weekdays accepted for timetable entries.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Timetable is a weekly slot for a subject in a class.
type Timetable struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Room      string    `db:"room" json:"room"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableDetail nests class and subject summaries.
type TimetableDetail struct {
	Timetable
	Class   ClassSummary   `db:"class" json:"class"`
	Subject SubjectSummary `db:"subject" json:"subject"`
}

// TimetableFilter filters timetable listings.
type TimetableFilter struct {
	ListQuery
	ClassID   string
	SubjectID string
	Day       string
}
