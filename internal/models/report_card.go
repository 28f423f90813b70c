package models

import "time"

// ReportCard summarises a student's grades for a term.
type ReportCard struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Term         string    `db:"term" json:"term"`
	Year         int       `db:"year" json:"year"`
	OverallGrade string    `db:"overall_grade" json:"overall_grade"`
	Remarks      string    `db:"remarks" json:"remarks"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ReportCardDetail nests the student and linked grades.
type ReportCardDetail struct {
	ReportCard
	Student StudentSummary `db:"student" json:"student"`
	Grades  []GradeDetail  `db:"-" json:"grades"`
}

// ReportCardFilter filters report card listings.
type ReportCardFilter struct {
	ListQuery
	StudentID string
	Term      string
	Year      int
}
