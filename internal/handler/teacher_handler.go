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

type teacherService interface {
	Search(ctx context.Context, filter models.TeacherFilter) (*dto.TeacherSearchResponse, error)
	Get(ctx context.Context, id string) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	Create(ctx context.Context, req dto.TeacherCreateRequest) (*models.Teacher, error)
	Update(ctx context.Context, id string, req dto.TeacherUpdateRequest) (*models.Teacher, error)
	Delete(ctx context.Context, id string) error
}

type teacherExporter interface {
	Export(ctx context.Context, filter models.TeacherFilter, format string) (*service.ExportFile, error)
}

// TeacherHandler wires teacher services to HTTP routes.
type TeacherHandler struct {
	teachers teacherService
	exporter teacherExporter
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers teacherService, exporter teacherExporter) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, exporter: exporter}
}

// Search godoc
// @Summary Search teachers
// @Description Every parameter is optional; absent ones place no constraint. Subject and masteryLevel may be satisfied by different proficiencies of the same teacher.
// @Tags Teachers
// @Produce json
// @Param teacherIds query []string false "Restrict to these teacher ids" collectionFormat(csv)
// @Param country query string false "Address country"
// @Param province query string false "Address province"
// @Param city query string false "Address city"
// @Param subject query string false "Subject name of any proficiency"
// @Param masteryLevel query string false "Mastery level of any proficiency" Enums(BEGINNER, INTERMEDIATE, ADVANCED, EXPERT)
// @Param pageNumber query int false "1-based page number (default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} response.Envelope{data=dto.TeacherSearchResponse}
// @Failure 400 {object} response.Envelope
// @Router /teachers/search [get]
func (h *TeacherHandler) Search(c *gin.Context) {
	filter, err := teacherFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.search(c, filter)
}

// SearchByBody godoc
// @Summary Search teachers with a JSON filter
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body models.TeacherFilter false "Teacher filter"
// @Success 200 {object} response.Envelope{data=dto.TeacherSearchResponse}
// @Failure 400 {object} response.Envelope
// @Router /teachers/search [post]
func (h *TeacherHandler) SearchByBody(c *gin.Context) {
	var filter models.TeacherFilter
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&filter); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher filter"))
			return
		}
	}
	h.search(c, filter)
}

func (h *TeacherHandler) search(c *gin.Context, filter models.TeacherFilter) {
	result, err := h.teachers.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export a page of teacher search results
// @Tags Teachers
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Param country query string false "Address country"
// @Param province query string false "Address province"
// @Param city query string false "Address city"
// @Param subject query string false "Subject name of any proficiency"
// @Param masteryLevel query string false "Mastery level of any proficiency"
// @Param pageNumber query int false "1-based page number"
// @Param pageSize query int false "Page size"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/export [get]
func (h *TeacherHandler) Export(c *gin.Context) {
	var query dto.TeacherExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	filter, err := teacherFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), filter, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope{data=models.Teacher}
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Mine godoc
// @Summary Get the caller's own teacher profile
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope{data=models.Teacher}
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/me [get]
func (h *TeacherHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	teacher, err := h.teachers.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Register a teacher profile
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body dto.TeacherCreateRequest true "Teacher payload"
// @Success 201 {object} response.Envelope{data=models.Teacher}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.TeacherCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	if !authorizeOwner(c, req.UserID) {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Replace a teacher profile
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.TeacherUpdateRequest true "Teacher payload"
// @Success 200 {object} response.Envelope{data=models.Teacher}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req dto.TeacherUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	if !h.authorizeTeacherOwner(c) {
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Delete godoc
// @Summary Delete a teacher profile
// @Tags Teachers
// @Param id path string true "Teacher ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	if !h.authorizeTeacherOwner(c) {
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *TeacherHandler) authorizeTeacherOwner(c *gin.Context) bool {
	claims := claimsFromContext(c)
	if claims.IsAdmin() || claims.OwnsProfile(c.Param("id")) {
		return true
	}
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return false
	}
	return authorizeOwner(c, teacher.UserID)
}

func teacherFilterFromQuery(c *gin.Context) (models.TeacherFilter, error) {
	filter := models.TeacherFilter{
		TeacherIDs: listQuery(c, "teacherIds"),
		Country:    optionalQuery(c, "country"),
		Province:   optionalQuery(c, "province"),
		City:       optionalQuery(c, "city"),
	}

	subject := optionalQuery(c, "subject")
	level := optionalQuery(c, "masteryLevel")
	if subject != nil || level != nil {
		filter.TeachingProficiency = &models.TeachingProficiencyFilter{}
		if subject != nil {
			filter.TeachingProficiency.Subject = &models.SubjectFilter{Name: *subject}
		}
		if level != nil {
			l := models.MasteryLevel(*level)
			filter.TeachingProficiency.MasteryLevel = &l
		}
	}

	var err error
	if filter.PageNumber, err = optionalIntQuery(c, "pageNumber"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = optionalIntQuery(c, "pageSize"); err != nil {
		return filter, err
	}
	return filter, nil
}
