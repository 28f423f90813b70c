package models

import "time"

// Parent is the parent profile attached to a parent user account.
type Parent struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParentDetail adds the user account and linked children.
type ParentDetail struct {
	Parent
	User     UserSummary      `db:"user" json:"user"`
	Children []StudentSummary `db:"-" json:"children"`
}

// ParentFilter filters parent listings.
type ParentFilter struct {
	ListQuery
}
