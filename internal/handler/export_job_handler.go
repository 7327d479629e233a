package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/service"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
	"github.com/noah-isme/appkademy-api/pkg/response"
)

type exportJobService interface {
	Submit(ctx context.Context, req dto.ExportJobRequest, actorID string) (*dto.ExportJobStatus, error)
	Status(ctx context.Context, id string, claims *models.JWTClaims) (*dto.ExportJobStatus, error)
	Download(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportJobHandler exposes background teacher exports.
type ExportJobHandler struct {
	exports exportJobService
}

// NewExportJobHandler constructs the handler.
func NewExportJobHandler(exports exportJobService) *ExportJobHandler {
	return &ExportJobHandler{exports: exports}
}

// Submit godoc
// @Summary Queue a teacher search export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportJobRequest true "Filter and format"
// @Success 202 {object} response.Envelope{data=dto.ExportJobStatus}
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/jobs [post]
func (h *ExportJobHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ExportJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export request"))
		return
	}
	status, err := h.exports.Submit(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, status, nil)
}

// Status godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope{data=dto.ExportJobStatus}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/jobs/{id} [get]
func (h *ExportJobHandler) Status(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished export
// @Description The token in the job's downloadUrl is the only credential required.
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportJobHandler) Download(c *gin.Context) {
	download, err := h.exports.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export result"))
		return
	}
	response.AttachmentStream(c, download.Filename, download.ContentType, info.Size(), download.File)
}
