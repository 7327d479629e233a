package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
	"github.com/noah-isme/appkademy-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Subject, *models.Pagination, error)
	Proficiencies(ctx context.Context, subjectID string) ([]models.TeachingProficiency, error)
	Characteristics(ctx context.Context) ([]models.Characteristic, error)
}

// SubjectHandler serves the public catalogue.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List subjects
// @Tags Catalog
// @Produce json
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]models.Subject}
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	var filter models.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject query"))
		return
	}
	subjects, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, pagination)
}

// Proficiencies godoc
// @Summary List proficiencies offered for a subject
// @Tags Catalog
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope{data=[]models.TeachingProficiency}
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/proficiencies [get]
func (h *SubjectHandler) Proficiencies(c *gin.Context) {
	list, err := h.service.Proficiencies(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Characteristics godoc
// @Summary List teacher characteristics
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Characteristic}
// @Router /characteristics [get]
func (h *SubjectHandler) Characteristics(c *gin.Context) {
	list, err := h.service.Characteristics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}
