package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Page bounds applied to every list endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1000000
)

// NewPagination normalises page inputs the same way repositories do.
func NewPagination(page, pageSize, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return &Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
