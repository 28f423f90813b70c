package models

import "time"

// ParentFeedback is free-text feedback submitted by a parent.
type ParentFeedback struct {
	ID        string    `db:"id" json:"id"`
	ParentID  string    `db:"parent_id" json:"parent_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParentFeedbackDetail nests the parent's user summary.
type ParentFeedbackDetail struct {
	ParentFeedback
	Parent UserSummary `db:"parent" json:"parent"`
}

// ParentFeedbackFilter filters feedback listings.
type ParentFeedbackFilter struct {
	ListQuery
	ParentID string
}
