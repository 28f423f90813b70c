package models

import "time"

// Attendance records a student's presence in a class on a date.
type Attendance struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Date      Date      `db:"date" json:"date"`
	Present   bool      `db:"present" json:"present"`
	Remarks   string    `db:"remarks" json:"remarks"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceDetail nests the student and class summaries.
type AttendanceDetail struct {
	Attendance
	Student StudentSummary `db:"student" json:"student"`
	Class   ClassSummary   `db:"class" json:"class"`
}

// AttendanceFilter filters attendance listings.
type AttendanceFilter struct {
	ListQuery
	StudentID string
	ClassID   string
	Present   *bool
	DateFrom  *Date
	DateTo    *Date
}
