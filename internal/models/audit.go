package models

import "time"

// Audit actions recorded by the API.
const (
	AuditActionPayFee = "PAY_FEE"
)

// AuditLog is an append-only record of a sensitive action.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Action    string    `db:"action" json:"action"`
	ModelName string    `db:"model_name" json:"model_name"`
	ObjectID  string    `db:"object_id" json:"object_id"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuditLogDetail nests the acting user.
type AuditLogDetail struct {
	AuditLog
	User UserSummary `db:"user" json:"user"`
}

// AuditLogFilter filters audit listings.
type AuditLogFilter struct {
	ListQuery
	UserID    string
	Action    string
	ModelName string
	ObjectID  string
}
