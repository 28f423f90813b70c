package models

import "time"

// Student links a student user account to a class.
type Student struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	ClassID         string    `db:"class_id" json:"class_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail adds the user, class and parents to a student row.
type StudentDetail struct {
	Student
	User    UserSummary   `db:"user" json:"user"`
	Class   ClassSummary  `db:"class" json:"class"`
	Parents []UserSummary `db:"-" json:"parents"`
}

// StudentFilter filters student listings.
type StudentFilter struct {
	ListQuery
	ClassID string
}
