package dto

// LeaveApplicationRequest applies for leave on behalf of the caller.
type LeaveApplicationRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required"`
}

// UpdateLeaveApplicationRequest edits dates or reason, or moves the status.
// Only admins may change the status.
type UpdateLeaveApplicationRequest struct {
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Reason    *string `json:"reason" validate:"omitempty,min=1"`
	Status    *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
