package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// AuditLogHandler exposes the read-only audit trail.
type AuditLogHandler struct {
	service *service.AuditLogService
}

// NewAuditLogHandler constructs an audit log handler.
func NewAuditLogHandler(svc *service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{service: svc}
}

// List godoc
// @Summary List audit logs
// @Tags Audit Logs
// @Produce json
// @Param user_id query string false "Filter by acting user"
// @Param action query string false "Filter by action, e.g. PAY_FEE"
// @Param model_name query string false "Filter by model name"
// @Param object_id query string false "Filter by object id"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /audit-logs/ [get]
func (h *AuditLogHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := newQueryParser(c)
	filter := models.AuditLogFilter{
		ListQuery: q.listQuery(),
		UserID:    q.id("user_id"),
		Action:    q.text("action"),
		ModelName: q.text("model_name"),
		ObjectID:  q.text("object_id"),
	}
	if !q.done() {
		return
	}

	logs, pagination, err := h.service.List(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}

// Get godoc
// @Summary Get audit log entry
// @Tags Audit Logs
// @Produce json
// @Param id path string true "Audit log ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /audit-logs/{id}/ [get]
func (h *AuditLogHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.service.Get(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}
