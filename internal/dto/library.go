package dto

// LibraryItemRequest catalogues an item.
type LibraryItemRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	ItemType string `json:"item_type" validate:"required,max=50"`
	ISBN     string `json:"isbn" validate:"omitempty,max=20"`
	Status   string `json:"status" validate:"omitempty,oneof=available borrowed"`
}

// UpdateLibraryItemRequest modifies an item.
type UpdateLibraryItemRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	ItemType *string `json:"item_type" validate:"omitempty,min=1,max=50"`
	ISBN     *string `json:"isbn" validate:"omitempty,max=20"`
	Status   *string `json:"status" validate:"omitempty,oneof=available borrowed"`
}

// LibraryBorrowingRequest lends an item to a student.
type LibraryBorrowingRequest struct {
	LibraryItemID string `json:"library_item" validate:"required,uuid"`
	StudentID     string `json:"student" validate:"required,uuid"`
	BorrowDate    string `json:"borrow_date" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
	Returned      bool   `json:"returned"`
}

// UpdateLibraryBorrowingRequest modifies or closes a loan.
type UpdateLibraryBorrowingRequest struct {
	LibraryItemID *string `json:"library_item" validate:"omitempty,uuid"`
	StudentID     *string `json:"student" validate:"omitempty,uuid"`
	BorrowDate    *string `json:"borrow_date" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    *string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
	Returned      *bool   `json:"returned"`
}
