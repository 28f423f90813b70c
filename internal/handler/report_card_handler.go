package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

type reportCardService interface {
	List(ctx context.Context, p *models.Principal, filter models.ReportCardFilter) ([]models.ReportCardDetail, *models.Pagination, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.ReportCardDetail, error)
	Create(ctx context.Context, p *models.Principal, req dto.ReportCardRequest) (*models.ReportCardDetail, error)
	Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateReportCardRequest) (*models.ReportCardDetail, error)
	Delete(ctx context.Context, p *models.Principal, id string) error
	PDF(ctx context.Context, p *models.Principal, id string) ([]byte, error)
}

// ReportCardHandler serves /report-cards/ and the PDF rendering.
type ReportCardHandler struct {
	service reportCardService
}

// NewReportCardHandler constructs a report card handler.
func NewReportCardHandler(svc reportCardService) *ReportCardHandler {
	return &ReportCardHandler{service: svc}
}

// List godoc
// @Summary List report cards
// @Tags Report Cards
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param term query string false "Filter by term"
// @Param year query int false "Filter by year"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /report-cards/ [get]
func (h *ReportCardHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.ReportCardFilter{ListQuery: q.listQuery()}
	filter.StudentID = q.id("student_id")
	filter.Term = q.text("term")
	filter.Year = q.integer("year")
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
// @Summary Get report card
// @Tags Report Cards
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /report-cards/{id}/ [get]
func (h *ReportCardHandler) Get(c *gin.Context) {
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
// @Summary Create report card
// @Tags Report Cards
// @Accept json
// @Produce json
// @Param payload body dto.ReportCardRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /report-cards/ [post]
func (h *ReportCardHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.ReportCardRequest
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
// @Summary Update report card
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Report Cards
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateReportCardRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /report-cards/{id}/ [put]
// @Router /report-cards/{id}/ [patch]
func (h *ReportCardHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateReportCardRequest
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
// @Summary Delete report card
// @Tags Report Cards
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /report-cards/{id}/ [delete]
func (h *ReportCardHandler) Delete(c *gin.Context) {
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

// PDF godoc
// @Summary Download a report card as PDF
// @Tags Report Cards
// @Produce application/pdf
// @Param id path string true "Report card ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /report-cards/{id}/pdf/ [get]
func (h *ReportCardHandler) PDF(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	payload, err := h.service.PDF(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, fmt.Sprintf("report-card-%s.pdf", id), "application/pdf", payload)
}
