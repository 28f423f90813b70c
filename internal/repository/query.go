package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

// filterSet accumulates WHERE conditions and their positional arguments.
type filterSet struct {
	conditions []string
	args       []interface{}
}

// add appends a condition whose format contains a single %d (or %[1]d)
// standing for the placeholder index of value.
func (f *filterSet) add(format string, value interface{}) {
	f.args = append(f.args, value)
	f.conditions = append(f.conditions, fmt.Sprintf(format, len(f.args)))
}

// raw appends a condition that carries no arguments.
func (f *filterSet) raw(condition string) {
	f.conditions = append(f.conditions, condition)
}

// search adds a case-insensitive LIKE over the given columns.
func (f *filterSet) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE $%%[1]d", col)
	}
	f.add("("+strings.Join(parts, " OR ")+")", "%"+strings.ToLower(term)+"%")
}

// visible restricts rows of resource (aliased as alias) to those the caller may see.
func (f *filterSet) visible(resource models.Resource, p *models.Principal, alias string) {
	clause, args := visibilityScope(resource, p, alias, len(f.args))
	if clause == "" {
		return
	}
	f.args = append(f.args, args...)
	f.conditions = append(f.conditions, clause)
}

func (f *filterSet) where() string {
	if len(f.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conditions, " AND ")
}

// pageWindow normalises page inputs into LIMIT and OFFSET values.
func pageWindow(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > models.MaxPage {
		page = models.MaxPage
	}
	if pageSize <= 0 || pageSize > models.MaxPageSize {
		pageSize = models.DefaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// orderBy resolves a client sort key against a whitelist of column expressions.
func orderBy(q models.ListQuery, allowed map[string]string, fallback string) string {
	column, ok := allowed[q.SortBy]
	if !ok {
		column = fallback
	}
	direction := strings.ToUpper(q.SortOrder)
	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
