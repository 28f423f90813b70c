package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// AnnouncementHandler serves /announcements/.
type AnnouncementHandler struct {
	service *service.AnnouncementService
}

// NewAnnouncementHandler constructs a announcement handler.
func NewAnnouncementHandler(svc *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// List godoc
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Param target_role query string false "Filter by targeted role"
// @Param search query string false "Search title or content"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /announcements/ [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.AnnouncementFilter{ListQuery: q.listQuery()}
	filter.TargetRole = q.role("target_role")
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
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id}/ [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
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
// @Summary Create announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.AnnouncementRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /announcements/ [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.AnnouncementRequest
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
// @Summary Update announcement
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateAnnouncementRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id}/ [put]
// @Router /announcements/{id}/ [patch]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAnnouncementRequest
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
// @Summary Delete announcement
// @Tags Announcements
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id}/ [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
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
