package models

import "time"

// Grade is a mark recorded for a student in a subject and exam.
type Grade struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	ExamID    string    `db:"exam_id" json:"exam_id"`
	Marks     float64   `db:"marks" json:"marks"`
	Remarks   string    `db:"remarks" json:"remarks"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GradeDetail nests the student, subject and exam summaries.
type GradeDetail struct {
	Grade
	Student StudentSummary `db:"student" json:"student"`
	Subject SubjectSummary `db:"subject" json:"subject"`
	Exam    ExamSummary    `db:"exam" json:"exam"`
}

// GradeFilter filters grade listings.
type GradeFilter struct {
	ListQuery
	StudentID string
	SubjectID string
	ExamID    string
}
