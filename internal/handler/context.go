package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/elite-academy-api/internal/middleware"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// principal returns the authenticated caller or writes a 401.
func principal(c *gin.Context) (*models.Principal, bool) {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return p, true
}

// pathID reads the :id segment. Malformed ids can never match a row, so they
// are reported as 404.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, appErrors.ErrNotFound)
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// queryParser collects list query parameters and remembers the first bad one.
type queryParser struct {
	c   *gin.Context
	err error
}

func newQueryParser(c *gin.Context) *queryParser {
	return &queryParser{c: c}
}

func (q *queryParser) fail(field, reason string) {
	if q.err == nil {
		q.err = appErrors.Field(field, reason)
	}
}

func (q *queryParser) listQuery() models.ListQuery {
	return models.ListQuery{
		Page:      q.page("page"),
		PageSize:  q.integer("page_size"),
		Search:    strings.TrimSpace(q.c.Query("search")),
		SortBy:    q.c.Query("sort_by"),
		SortOrder: q.c.Query("sort_order"),
	}
}

func (q *queryParser) text(name string) string {
	return strings.TrimSpace(q.c.Query(name))
}

func (q *queryParser) integer(name string) int {
	raw := q.text(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(name, "must be an integer")
		return 0
	}
	return v
}

func (q *queryParser) page(name string) int {
	v := q.integer(name)
	if v < 0 || v > models.MaxPage {
		q.fail(name, fmt.Sprintf("must be between 1 and %d", models.MaxPage))
		return 0
	}
	return v
}

func (q *queryParser) flag(name string) *bool {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(name, "must be a boolean")
		return nil
	}
	return &v
}

func (q *queryParser) id(name string) string {
	raw := q.text(name)
	if raw == "" {
		return ""
	}
	if _, err := uuid.Parse(raw); err != nil {
		q.fail(name, "must be a valid id")
		return ""
	}
	return raw
}

func (q *queryParser) date(name string) *models.Date {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		q.fail(name, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

func (q *queryParser) role(name string) *models.Role {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	role, err := models.ParseRole(raw)
	if err != nil {
		q.fail(name, "is not a known role")
		return nil
	}
	return &role
}

// done writes the collected error, if any, and reports whether parsing succeeded.
func (q *queryParser) done() bool {
	if q.err != nil {
		response.Error(q.c, q.err)
		return false
	}
	return true
}

func (q *queryParser) box(name string) string {
	switch raw := q.text(name); raw {
	case "", "inbox", "sent":
		return raw
	default:
		q.fail(name, "must be inbox or sent")
		return ""
	}
}

func (q *queryParser) leaveStatus(name string) *models.LeaveStatus {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	status := models.LeaveStatus(raw)
	if !status.Valid() {
		q.fail(name, "must be pending, approved or rejected")
		return nil
	}
	return &status
}

func (q *queryParser) itemStatus(name string) *models.LibraryItemStatus {
	raw := q.text(name)
	if raw == "" {
		return nil
	}
	status := models.LibraryItemStatus(raw)
	if status != models.LibraryItemAvailable && status != models.LibraryItemBorrowed {
		q.fail(name, "must be available or borrowed")
		return nil
	}
	return &status
}
