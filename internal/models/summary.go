package models

// Summaries are compact projections of related rows nested into read responses.

type UserSummary struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	FullName string `db:"full_name" json:"full_name"`
	Role     Role   `db:"role" json:"role"`
}

type StudentSummary struct {
	ID              string `db:"id" json:"id"`
	AdmissionNumber string `db:"admission_number" json:"admission_number"`
	FullName        string `db:"full_name" json:"full_name"`
}

type SubjectSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

type ClassSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type ExamSummary struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Term string `db:"term" json:"term"`
	Year int    `db:"year" json:"year"`
}

type LibraryItemSummary struct {
	ID       string `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	ItemType string `db:"item_type" json:"item_type"`
}
