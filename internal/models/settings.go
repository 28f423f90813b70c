package models

import "time"

// SchoolSettings is the singleton configuration row for the school.
type SchoolSettings struct {
	ID           string    `db:"id" json:"id"`
	SchoolName   string    `db:"school_name" json:"school_name"`
	Motto        string    `db:"motto" json:"motto"`
	Logo         string    `db:"logo" json:"logo"`
	AcademicYear *int      `db:"academic_year" json:"academic_year"`
	CurrentTerm  string    `db:"current_term" json:"current_term"`
	CreatedBy    *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
