package models

import "time"

// DefaultPaymentMethod is recorded when a payment omits its method.
const DefaultPaymentMethod = "Cash"

// Fee is an amount owed by a student.
type Fee struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Balance       float64   `db:"balance" json:"balance"`
	Date          Date      `db:"date" json:"date"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Paid reports whether nothing remains outstanding.
func (f *Fee) Paid() bool {
	return f.Balance <= 0
}

// FeeDetail nests the student summary.
type FeeDetail struct {
	Fee
	Student StudentSummary `db:"student" json:"student"`
}

// FeeFilter filters fee listings.
type FeeFilter struct {
	ListQuery
	StudentID   string
	Outstanding *bool
}

// FeePayment is the outcome of settling a fee.
type FeePayment struct {
	Fee        Fee      `json:"fee"`
	AmountPaid float64  `json:"amount_paid"`
	AuditLog   AuditLog `json:"audit_log"`
}
