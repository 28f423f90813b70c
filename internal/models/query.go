package models

// ListQuery carries the paging and ordering inputs shared by list endpoints.
type ListQuery struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
}
