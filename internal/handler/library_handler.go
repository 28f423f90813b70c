package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// LibraryItemHandler serves /library-items/.
type LibraryItemHandler struct {
	service *service.LibraryService
}

// NewLibraryItemHandler constructs a library item handler.
func NewLibraryItemHandler(svc *service.LibraryService) *LibraryItemHandler {
	return &LibraryItemHandler{service: svc}
}

// List godoc
// @Summary List library items
// @Tags Library
// @Produce json
// @Param status query string false "available or borrowed"
// @Param item_type query string false "Filter by item type"
// @Param search query string false "Search title or ISBN"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /library-items/ [get]
func (h *LibraryItemHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.LibraryItemFilter{ListQuery: q.listQuery()}
	filter.Status = q.itemStatus("status")
	filter.ItemType = q.text("item_type")
	if !q.done() {
		return
	}

	items, pagination, err := h.service.ListItems(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get library item
// @Tags Library
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library-items/{id}/ [get]
func (h *LibraryItemHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.GetItem(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create library item
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body dto.LibraryItemRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /library-items/ [post]
func (h *LibraryItemHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.LibraryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.CreateItem(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update library item
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateLibraryItemRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library-items/{id}/ [put]
// @Router /library-items/{id}/ [patch]
func (h *LibraryItemHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateLibraryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), p, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete library item
// @Tags Library
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /library-items/{id}/ [delete]
func (h *LibraryItemHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteItem(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// LibraryBorrowingHandler serves /library-borrowings/.
type LibraryBorrowingHandler struct {
	service *service.LibraryService
}

// NewLibraryBorrowingHandler constructs a library borrowing handler.
func NewLibraryBorrowingHandler(svc *service.LibraryService) *LibraryBorrowingHandler {
	return &LibraryBorrowingHandler{service: svc}
}

// List godoc
// @Summary List library borrowings
// @Tags Library
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param library_item_id query string false "Filter by item"
// @Param returned query bool false "Filter by return state"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /library-borrowings/ [get]
func (h *LibraryBorrowingHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.LibraryBorrowingFilter{ListQuery: q.listQuery()}
	filter.StudentID = q.id("student_id")
	filter.LibraryItemID = q.id("library_item_id")
	filter.Returned = q.flag("returned")
	if !q.done() {
		return
	}

	items, pagination, err := h.service.ListBorrowings(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get library borrowing
// @Tags Library
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library-borrowings/{id}/ [get]
func (h *LibraryBorrowingHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.GetBorrowing(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create library borrowing
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body dto.LibraryBorrowingRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /library-borrowings/ [post]
func (h *LibraryBorrowingHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.LibraryBorrowingRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.CreateBorrowing(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update library borrowing
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateLibraryBorrowingRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library-borrowings/{id}/ [put]
// @Router /library-borrowings/{id}/ [patch]
func (h *LibraryBorrowingHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateLibraryBorrowingRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.UpdateBorrowing(c.Request.Context(), p, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete library borrowing
// @Tags Library
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /library-borrowings/{id}/ [delete]
func (h *LibraryBorrowingHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBorrowing(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
