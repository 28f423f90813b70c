package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// ParentFeedbackHandler serves /parent-feedback/.
type ParentFeedbackHandler struct {
	service *service.ParentFeedbackService
}

// NewParentFeedbackHandler constructs a parent feedback handler.
func NewParentFeedbackHandler(svc *service.ParentFeedbackService) *ParentFeedbackHandler {
	return &ParentFeedbackHandler{service: svc}
}

// List godoc
// @Summary List parent feedback
// @Tags Parent Feedback
// @Produce json
// @Param parent_id query string false "Filter by parent"
// @Param search query string false "Search feedback text"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /parent-feedback/ [get]
func (h *ParentFeedbackHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.ParentFeedbackFilter{ListQuery: q.listQuery()}
	filter.ParentID = q.id("parent_id")
	if !q.done() {
		return
	}

	items, pagination, err := h.service.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get parent feedback
// @Tags Parent Feedback
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parent-feedback/{id}/ [get]
func (h *ParentFeedbackHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create parent feedback
// @Tags Parent Feedback
// @Accept json
// @Produce json
// @Param payload body dto.ParentFeedbackRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /parent-feedback/ [post]
func (h *ParentFeedbackHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.ParentFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update parent feedback
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Parent Feedback
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateParentFeedbackRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /parent-feedback/{id}/ [put]
// @Router /parent-feedback/{id}/ [patch]
func (h *ParentFeedbackHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateParentFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), p, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete parent feedback
// @Tags Parent Feedback
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /parent-feedback/{id}/ [delete]
func (h *ParentFeedbackHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
