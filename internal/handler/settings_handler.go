package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// SettingsHandler serves the school settings singleton.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// List godoc
// @Summary List school settings
// @Description Always returns exactly one row, creating the default on first access.
// @Tags School Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /school-settings/ [get]
func (h *SettingsHandler) List(c *gin.Context) {
	settings, pagination, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, pagination)
}

// Get godoc
// @Summary Get school settings
// @Tags School Settings
// @Produce json
// @Param id path string true "Settings ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /school-settings/{id}/ [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	settings, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Create godoc
// @Summary Write school settings
// @Description Applies the payload to the singleton row; a second row is never created.
// @Tags School Settings
// @Accept json
// @Produce json
// @Param payload body dto.SchoolSettingsRequest true "Settings payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /school-settings/ [post]
func (h *SettingsHandler) Create(c *gin.Context) {
	var req dto.SchoolSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, settings)
}

// Update godoc
// @Summary Update school settings
// @Tags School Settings
// @Accept json
// @Produce json
// @Param id path string true "Settings ID"
// @Param payload body dto.SchoolSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /school-settings/{id}/ [put]
// @Router /school-settings/{id}/ [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SchoolSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
