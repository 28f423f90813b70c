package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// AttendanceHandler serves /attendance/.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs a attendance record handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param class_id query string false "Filter by class"
// @Param present query bool false "Filter by presence"
// @Param date_from query string false "Earliest date (YYYY-MM-DD)"
// @Param date_to query string false "Latest date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /attendance/ [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.AttendanceFilter{ListQuery: q.listQuery()}
	filter.StudentID = q.id("student_id")
	filter.ClassID = q.id("class_id")
	filter.Present = q.flag("present")
	filter.DateFrom = q.date("date_from")
	filter.DateTo = q.date("date_to")
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
// @Summary Get attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id}/ [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
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
// @Summary Create attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.AttendanceRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/ [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.AttendanceRequest
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
// @Summary Update attendance record
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateAttendanceRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id}/ [put]
// @Router /attendance/{id}/ [patch]
func (h *AttendanceHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAttendanceRequest
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
// @Summary Delete attendance record
// @Tags Attendance
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /attendance/{id}/ [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
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
