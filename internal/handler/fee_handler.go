package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

type feeService interface {
	List(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, *models.Pagination, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.FeeDetail, error)
	Create(ctx context.Context, p *models.Principal, req dto.FeeRequest) (*models.FeeDetail, error)
	Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateFeeRequest) (*models.FeeDetail, error)
	Delete(ctx context.Context, p *models.Principal, id string) error
	Pay(ctx context.Context, p *models.Principal, id string, req dto.PayFeeRequest) (*models.FeePayment, error)
	Export(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]byte, error)
}

// FeeHandler serves /fees/, payment and the CSV export.
type FeeHandler struct {
	service feeService
}

// NewFeeHandler constructs a fee handler.
func NewFeeHandler(svc feeService) *FeeHandler {
	return &FeeHandler{service: svc}
}

// List godoc
// @Summary List fees
// @Tags Fees
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param outstanding query bool false "Only fees with a balance"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort key"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /fees/ [get]
func (h *FeeHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := feeFilter(c)
	if !ok {
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
// @Summary Get fee
// @Tags Fees
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/{id}/ [get]
func (h *FeeHandler) Get(c *gin.Context) {
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
// @Summary Create fee
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body dto.FeeRequest true "Payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /fees/ [post]
func (h *FeeHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.FeeRequest
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
// @Summary Update fee
// @Description PUT and PATCH both apply only the supplied fields.
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "ID"
// @Param payload body dto.UpdateFeeRequest true "Payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/{id}/ [put]
// @Router /fees/{id}/ [patch]
func (h *FeeHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateFeeRequest
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
// @Summary Delete fee
// @Tags Fees
// @Param id path string true "ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /fees/{id}/ [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
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

// Pay godoc
// @Summary Settle a fee
// @Description Sets the balance to zero and records a PAY_FEE audit entry. The payment method defaults to Cash.
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param payload body dto.PayFeeRequest false "Payment method"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fees/{id}/pay/ [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.PayFeeRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	payment, err := h.service.Pay(c.Request.Context(), p, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Export godoc
// @Summary Export fees as CSV
// @Tags Fees
// @Produce text/csv
// @Param student_id query string false "Filter by student"
// @Param outstanding query bool false "Only fees with a balance"
// @Success 200 {file} file
// @Router /fees/export/ [get]
func (h *FeeHandler) Export(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := feeFilter(c)
	if !ok {
		return
	}
	payload, err := h.service.Export(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "fees-" + time.Now().UTC().Format("20060102") + ".csv"
	response.Attachment(c, filename, "text/csv", payload)
}

func feeFilter(c *gin.Context) (models.FeeFilter, bool) {
	q := newQueryParser(c)
	filter := models.FeeFilter{ListQuery: q.listQuery()}
	filter.StudentID = q.id("student_id")
	filter.Outstanding = q.flag("outstanding")
	return filter, q.done()
}
