package models

import "time"

// LibraryItemStatus tracks whether an item is on the shelf.
type LibraryItemStatus string

const (
	LibraryItemAvailable LibraryItemStatus = "available"
	LibraryItemBorrowed  LibraryItemStatus = "borrowed"
)

// LibraryItem is a lendable library asset.
type LibraryItem struct {
	ID        string            `db:"id" json:"id"`
	Title     string            `db:"title" json:"title"`
	ItemType  string            `db:"item_type" json:"item_type"`
	ISBN      string            `db:"isbn" json:"isbn"`
	Status    LibraryItemStatus `db:"status" json:"status"`
	CreatedBy string            `db:"created_by" json:"created_by"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// LibraryItemFilter filters library item listings.
type LibraryItemFilter struct {
	ListQuery
	Status   *LibraryItemStatus
	ItemType string
}

// LibraryBorrowing records a student borrowing an item.
type LibraryBorrowing struct {
	ID            string    `db:"id" json:"id"`
	LibraryItemID string    `db:"library_item_id" json:"library_item_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	BorrowDate    Date      `db:"borrow_date" json:"borrow_date"`
	ReturnDate    *Date     `db:"return_date" json:"return_date"`
	Returned      bool      `db:"returned" json:"returned"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// LibraryBorrowingDetail nests the item and student summaries.
type LibraryBorrowingDetail struct {
	LibraryBorrowing
	Item    LibraryItemSummary `db:"item" json:"library_item"`
	Student StudentSummary     `db:"student" json:"student"`
}

// LibraryBorrowingFilter filters borrowing listings.
type LibraryBorrowingFilter struct {
	ListQuery
	StudentID     string
	LibraryItemID string
	Returned      *bool
}
