package models

import "time"

// Class represents a teaching group.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail enriches a class with its subjects, teachers and enrolled students.
type ClassDetail struct {
	Class
	Subjects []SubjectSummary `db:"-" json:"subjects"`
	Teachers []UserSummary    `db:"-" json:"teachers"`
	Students []StudentSummary `db:"-" json:"students"`
}

// ClassFilter filters class listings.
type ClassFilter struct {
	ListQuery
	TeacherID string
	SubjectID string
}
