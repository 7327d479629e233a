package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

type searchStub struct {
	resp       *dto.TeacherSearchResponse
	lastFilter models.TeacherFilter
}

func (s *searchStub) Search(ctx context.Context, filter models.TeacherFilter) (*dto.TeacherSearchResponse, error) {
	s.lastFilter = filter
	return s.resp, nil
}

func newExportServiceForTest() (*TeacherExportService, *searchStub) {
	stub := &searchStub{resp: &dto.TeacherSearchResponse{SearchResults: []dto.TeacherCompactResponse{
		{
			ID:         "t1",
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Address:    dto.AddressResponse{Country: "ARGENTINA", Province: "BUENOS_AIRES", City: "LA_PLATA"},
			TotalLikes: 7,
			Proficiencies: []dto.TeachingProficiencyResponse{
				{ID: "p1", Subject: models.Subject{ID: "s1", Name: "Math"}, MasteryLevel: models.MasteryExpert},
				{ID: "p2", Subject: models.Subject{ID: "s2", Name: "Physics"}, MasteryLevel: models.MasteryBeginner},
			},
		},
	}}}
	svc := NewTeacherExportService(stub, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return svc, stub
}

func TestTeacherExportCSV(t *testing.T) {
	svc, stub := newExportServiceForTest()
	city := "LA_PLATA"

	file, err := svc.Export(context.Background(), models.TeacherFilter{City: &city}, "")
	require.NoError(t, err)
	assert.Equal(t, "teachers_20240506_070809.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, &city, stub.lastFilter.City)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,First Name,Last Name"))
	assert.Equal(t, "t1,Ada,Lovelace,ARGENTINA,BUENOS_AIRES,LA_PLATA,false,7,Math (EXPERT); Physics (BEGINNER)", lines[1])
}

func TestTeacherExportPDF(t *testing.T) {
	svc, _ := newExportServiceForTest()

	file, err := svc.Export(context.Background(), models.TeacherFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestTeacherExportUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest()

	_, err := svc.Export(context.Background(), models.TeacherFilter{}, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
