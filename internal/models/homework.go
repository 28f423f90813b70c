package models

import "time"

// Homework is an assignment set for a class.
type Homework struct {
	ID          string    `db:"id" json:"id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	Description string    `db:"description" json:"description"`
	DueDate     Date      `db:"due_date" json:"due_date"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HomeworkDetail nests class and subject summaries.
type HomeworkDetail struct {
	Homework
	Class   ClassSummary   `db:"class" json:"class"`
	Subject SubjectSummary `db:"subject" json:"subject"`
}

// HomeworkFilter filters homework listings.
type HomeworkFilter struct {
	ListQuery
	ClassID   string
	SubjectID string
	Completed *bool
}
