package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/repository"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
	"github.com/noah-isme/appkademy-api/pkg/jobs"
	"github.com/noah-isme/appkademy-api/pkg/storage"
)

type memExportJobs struct {
	mu    sync.Mutex
	items map[string]*models.ExportJob
	seq   int
}

func newMemExportJobs() *memExportJobs {
	return &memExportJobs{items: map[string]*models.ExportJob{}}
}

func (m *memExportJobs) Create(ctx context.Context, job *models.ExportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if job.ID == "" {
		job.ID = "job-" + string(rune('0'+m.seq))
	}
	cp := *job
	m.items[job.ID] = &cp
	return nil
}

func (m *memExportJobs) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *job
	return &cp, nil
}

func (m *memExportJobs) Update(ctx context.Context, id string, u repository.ExportJobUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.Progress != nil {
		job.Progress = *u.Progress
	}
	if u.ResultToken != nil {
		token := *u.ResultToken
		job.ResultToken = &token
	}
	if u.ErrorMessage != nil {
		msg := *u.ErrorMessage
		job.ErrorMessage = &msg
	}
	if u.FinishedAt != nil {
		at := *u.FinishedAt
		job.FinishedAt = &at
	}
	return nil
}

func (m *memExportJobs) ListPending(ctx context.Context, limit int) ([]models.ExportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ExportJob
	for _, job := range m.items {
		if job.Status == models.ExportStatusQueued || job.Status == models.ExportStatusProcessing {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *memExportJobs) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ExportJob
	for _, job := range m.items {
		if job.Status == models.ExportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *memExportJobs) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type recordingQueue struct {
	queued []jobs.Job
	err    error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.queued = append(q.queued, job)
	return nil
}

type stubRenderer struct {
	err     error
	filters []models.TeacherFilter
}

func (r *stubRenderer) Export(ctx context.Context, filter models.TeacherFilter, format string) (*ExportFile, error) {
	r.filters = append(r.filters, filter)
	if r.err != nil {
		return nil, r.err
	}
	return &ExportFile{Filename: "teachers_20240301_100000." + format, ContentType: r.ContentType(format), Data: []byte("ID\nt1\n")}, nil
}

func (r *stubRenderer) ContentType(format string) string {
	if format == "pdf" {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

type exportJobFixture struct {
	svc      *ExportJobService
	repo     *memExportJobs
	queue    *recordingQueue
	renderer *stubRenderer
	files    *storage.FileStore
}

func newExportJobFixture(t *testing.T) *exportJobFixture {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	f := &exportJobFixture{
		repo:     newMemExportJobs(),
		queue:    &recordingQueue{},
		renderer: &stubRenderer{},
		files:    files,
	}
	f.svc = NewExportJobService(f.repo, f.queue, f.renderer, files, storage.NewSigner("test-secret", time.Hour), nil, ExportJobConfig{
		DownloadBaseURL: "/api/v1/exports/download/",
		ResultTTL:       24 * time.Hour,
		MaxAttempts:     3,
	})
	return f
}

func TestExportJobSubmitValidates(t *testing.T) {
	f := newExportJobFixture(t)

	_, err := f.svc.Submit(context.Background(), dto.ExportJobRequest{Format: "xlsx"}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Submit(context.Background(), dto.ExportJobRequest{Filter: models.TeacherFilter{PageSize: intPtr(0)}}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Empty(t, f.queue.queued)
	assert.Empty(t, f.repo.items)
}

func TestExportJobLifecycle(t *testing.T) {
	f := newExportJobFixture(t)
	ctx := context.Background()
	city := "LA_PLATA"

	status, err := f.svc.Submit(ctx, dto.ExportJobRequest{Filter: models.TeacherFilter{City: &city}}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "QUEUED", status.Status)
	assert.Equal(t, "csv", status.Format)
	assert.Nil(t, status.DownloadURL)
	require.Len(t, f.queue.queued, 1)
	assert.Equal(t, ExportJobKind, f.queue.queued[0].Kind)

	require.NoError(t, f.svc.Handle(ctx, f.queue.queued[0]))
	require.Len(t, f.renderer.filters, 1)
	assert.Equal(t, "LA_PLATA", *f.renderer.filters[0].City)

	status, err = f.svc.Status(ctx, status.ID, &models.JWTClaims{UserID: "admin", Type: models.UserTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, "FINISHED", status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.Nil(t, status.Error)
	require.NotNil(t, status.DownloadURL)
	require.True(t, strings.HasPrefix(*status.DownloadURL, "/api/v1/exports/download/"))

	token := strings.TrimPrefix(*status.DownloadURL, "/api/v1/exports/download/")
	download, err := f.svc.Download(ctx, token)
	require.NoError(t, err)
	defer download.File.Close()
	data, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Equal(t, "ID\nt1\n", string(data))
	assert.Equal(t, "teachers_20240301_100000.csv", download.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", download.ContentType)
}

func TestExportJobStatusOwnership(t *testing.T) {
	f := newExportJobFixture(t)
	status, err := f.svc.Submit(context.Background(), dto.ExportJobRequest{}, "owner")
	require.NoError(t, err)

	_, err = f.svc.Status(context.Background(), status.ID, &models.JWTClaims{UserID: "someone", Type: models.UserTypeTeacher})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = f.svc.Status(context.Background(), status.ID, &models.JWTClaims{UserID: "owner", Type: models.UserTypeTeacher})
	assert.NoError(t, err)

	_, err = f.svc.Status(context.Background(), "missing", &models.JWTClaims{UserID: "owner"})
	assert.ErrorIs(t, err, appErrors.ErrExportJobNotFound)
}

func TestExportJobHandleRetriesThenFails(t *testing.T) {
	f := newExportJobFixture(t)
	f.renderer.err = errors.New("database unavailable")
	status, err := f.svc.Submit(context.Background(), dto.ExportJobRequest{}, "admin")
	require.NoError(t, err)

	err = f.svc.Handle(context.Background(), jobs.Job{ID: status.ID, Attempt: 0})
	require.Error(t, err)
	job := f.repo.items[status.ID]
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "database unavailable")

	err = f.svc.Handle(context.Background(), jobs.Job{ID: status.ID, Attempt: 2})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, f.repo.items[status.ID].Status)
	assert.NotNil(t, f.repo.items[status.ID].FinishedAt)

	require.NoError(t, f.svc.Handle(context.Background(), jobs.Job{ID: status.ID}))
	assert.Len(t, f.renderer.filters, 2)
}

func TestExportJobHandleClientErrorIsFinal(t *testing.T) {
	f := newExportJobFixture(t)
	f.renderer.err = appErrors.Clone(appErrors.ErrValidation, "bad page")
	status, err := f.svc.Submit(context.Background(), dto.ExportJobRequest{}, "admin")
	require.NoError(t, err)

	require.NoError(t, f.svc.Handle(context.Background(), jobs.Job{ID: status.ID}))
	assert.Equal(t, models.ExportStatusFailed, f.repo.items[status.ID].Status)
}

func TestExportJobHandleMissingJob(t *testing.T) {
	f := newExportJobFixture(t)
	assert.NoError(t, f.svc.Handle(context.Background(), jobs.Job{ID: "ghost"}))
	assert.Empty(t, f.renderer.filters)
}

func TestExportJobSubmitEnqueueFailure(t *testing.T) {
	f := newExportJobFixture(t)
	f.queue.err = jobs.ErrQueueClosed

	_, err := f.svc.Submit(context.Background(), dto.ExportJobRequest{}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	require.Len(t, f.repo.items, 1)
	for _, job := range f.repo.items {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
	}
}

func TestExportJobDownloadRejections(t *testing.T) {
	f := newExportJobFixture(t)
	ctx := context.Background()

	_, err := f.svc.Download(ctx, "not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrInvalidDownloadToken)

	status, err := f.svc.Submit(ctx, dto.ExportJobRequest{}, "admin")
	require.NoError(t, err)
	token, _, err := storage.NewSigner("test-secret", time.Hour).Sign(status.ID, "teachers/"+status.ID+"/x.csv")
	require.NoError(t, err)
	_, err = f.svc.Download(ctx, token)
	assert.ErrorIs(t, err, appErrors.ErrExportNotReady)

	require.NoError(t, f.svc.Handle(ctx, jobs.Job{ID: status.ID}))
	_, err = f.svc.Download(ctx, token)
	assert.ErrorIs(t, err, appErrors.ErrInvalidDownloadToken)
}

func TestExportJobRecover(t *testing.T) {
	f := newExportJobFixture(t)
	f.repo.items["a"] = &models.ExportJob{ID: "a", Status: models.ExportStatusQueued}
	f.repo.items["b"] = &models.ExportJob{ID: "b", Status: models.ExportStatusProcessing}
	f.repo.items["c"] = &models.ExportJob{ID: "c", Status: models.ExportStatusFinished}

	assert.Equal(t, 2, f.svc.Recover(context.Background()))
	assert.Len(t, f.queue.queued, 2)
}

func TestExportJobCleanup(t *testing.T) {
	f := newExportJobFixture(t)
	ctx := context.Background()
	status, err := f.svc.Submit(ctx, dto.ExportJobRequest{}, "admin")
	require.NoError(t, err)
	require.NoError(t, f.svc.Handle(ctx, jobs.Job{ID: status.ID}))
	name := "teachers/" + status.ID + "/teachers_20240301_100000.csv"
	_, err = f.files.Open(name)
	require.NoError(t, err)

	f.svc.Cleanup(ctx)
	assert.Contains(t, f.repo.items, status.ID)

	f.svc.now = func() time.Time { return time.Now().UTC().Add(48 * time.Hour) }
	f.svc.Cleanup(ctx)
	assert.NotContains(t, f.repo.items, status.ID)
	_, err = f.files.Open(name)
	assert.Error(t, err)
}
