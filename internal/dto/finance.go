package dto

// FeeRequest raises a fee for a student. Balance defaults to Amount.
type FeeRequest struct {
	StudentID     string   `json:"student" validate:"required,uuid"`
	Amount        float64  `json:"amount" validate:"required,gt=0"`
	Balance       *float64 `json:"balance" validate:"omitempty,gte=0"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	PaymentMethod string   `json:"payment_method" validate:"omitempty,max=50"`
}

// UpdateFeeRequest modifies a fee.
type UpdateFeeRequest struct {
	StudentID     *string  `json:"student" validate:"omitempty,uuid"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Balance       *float64 `json:"balance" validate:"omitempty,gte=0"`
	Date          *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string  `json:"payment_method" validate:"omitempty,max=50"`
}

// PayFeeRequest is the optional body of POST /fees/{id}/pay/.
type PayFeeRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
}
