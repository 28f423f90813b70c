package models

import "time"

// LeaveStatus is the approval state of a leave application.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// LeaveApplication is a request for absence by a student or staff member.
type LeaveApplication struct {
	ID         string      `db:"id" json:"id"`
	UserID     string      `db:"user_id" json:"user_id"`
	StartDate  Date        `db:"start_date" json:"start_date"`
	EndDate    Date        `db:"end_date" json:"end_date"`
	Reason     string      `db:"reason" json:"reason"`
	Status     LeaveStatus `db:"status" json:"status"`
	ApprovedBy *string     `db:"approved_by" json:"approved_by"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// LeaveApplicationDetail nests the applicant summary.
type LeaveApplicationDetail struct {
	LeaveApplication
	User UserSummary `db:"user" json:"user"`
}

// LeaveApplicationFilter filters leave listings.
type LeaveApplicationFilter struct {
	ListQuery
	UserID string
	Status *LeaveStatus
}
