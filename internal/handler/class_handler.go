package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// ClassHandler serves /classes/.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param teacher_id query string false "Filter by teacher"
// @Param subject_id query string false "Filter by subject"
// @Param search query string false "Search name"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /classes/ [get]
func (h *ClassHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.ClassFilter{ListQuery: q.listQuery()}
	filter.TeacherID = q.id("teacher_id")
	filter.SubjectID = q.id("subject_id")
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
// @Summary Get class
// @Tags Classes
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/ [get]
func (h *ClassHandler) Get(c *gin.Context) {
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
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.ClassRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /classes/ [post]
func (h *ClassHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.ClassRequest
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
// @Summary Update class
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateClassRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/ [put]
// @Router /classes/{id}/ [patch]
func (h *ClassHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateClassRequest
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
// @Summary Delete class
// @Tags Classes
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/ [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
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
