package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
	"github.com/noah-isme/appkademy-api/pkg/export"
)

type teacherSearcher interface {
	Search(ctx context.Context, filter models.TeacherFilter) (*dto.TeacherSearchResponse, error)
}

// ExportFile is a rendered document ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TeacherExportService renders a page of teacher search results as a document.
type TeacherExportService struct {
	teachers  teacherSearcher
	renderers map[string]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

var teacherExportHeaders = []string{
	"ID", "First Name", "Last Name", "Country", "Province", "City", "Identity Verified", "Total Likes", "Proficiencies",
}

// NewTeacherExportService constructs the export service. Without explicit
// renderers CSV and PDF are available.
func NewTeacherExportService(teachers teacherSearcher, logger *zap.Logger, renderers ...export.Renderer) *TeacherExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(renderers) == 0 {
		renderers = []export.Renderer{export.NewCSVExporter(), export.NewPDFExporter()}
	}
	byFormat := make(map[string]export.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Extension()] = r
	}
	return &TeacherExportService{teachers: teachers, renderers: byFormat, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Export runs the search and renders the resulting page in format ("csv" or "pdf").
func (s *TeacherExportService) Export(ctx context.Context, filter models.TeacherFilter, format string) (*ExportFile, error) {
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}

	result, err := s.teachers.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   "Teachers",
		Headers: teacherExportHeaders,
		Rows:    make([][]string, 0, len(result.SearchResults)),
	}
	for _, t := range result.SearchResults {
		data.Rows = append(data.Rows, []string{
			t.ID,
			t.FirstName,
			t.LastName,
			t.Address.Country,
			t.Address.Province,
			t.Address.City,
			strconv.FormatBool(t.IdentityVerified),
			strconv.FormatInt(t.TotalLikes, 10),
			formatProficiencies(t.Proficiencies),
		})
	}

	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("teacher export rendered", zap.String("format", renderer.Extension()), zap.Int("rows", len(data.Rows)))

	return &ExportFile{
		Filename:    fmt.Sprintf("teachers_%s.%s", s.now().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        payload,
	}, nil
}

// ContentType returns the MIME type of format, or an empty string when no
// renderer handles it.
func (s *TeacherExportService) ContentType(format string) string {
	if r, ok := s.renderers[strings.ToLower(format)]; ok {
		return r.ContentType()
	}
	return ""
}

func formatProficiencies(items []dto.TeachingProficiencyResponse) string {
	parts := make([]string, len(items))
	for i, p := range items {
		parts[i] = fmt.Sprintf("%s (%s)", p.Subject.Name, p.MasteryLevel)
	}
	return strings.Join(parts, "; ")
}
