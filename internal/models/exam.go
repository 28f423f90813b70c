package models

import "time"

// DefaultMaxMarks is applied when an exam is created without max_marks.
const DefaultMaxMarks = 100

// Exam is a named assessment sitting within a term.
type Exam struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Term      string    `db:"term" json:"term"`
	Year      int       `db:"year" json:"year"`
	MaxMarks  float64   `db:"max_marks" json:"max_marks"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExamFilter filters exam listings.
type ExamFilter struct {
	ListQuery
	Term string
	Year int
}
