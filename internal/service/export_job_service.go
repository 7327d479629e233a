package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/repository"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
	"github.com/noah-isme/appkademy-api/pkg/jobs"
	"github.com/noah-isme/appkademy-api/pkg/middleware/requestid"
	"github.com/noah-isme/appkademy-api/pkg/storage"
)

// ExportJobKind tags teacher export jobs on the queue.
const ExportJobKind = "teacher_export"

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, u repository.ExportJobUpdate) error
	ListPending(ctx context.Context, limit int) ([]models.ExportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type teacherDocumentRenderer interface {
	Export(ctx context.Context, filter models.TeacherFilter, format string) (*ExportFile, error)
	ContentType(format string) string
}

type exportFileStore interface {
	Put(name string, data []byte) error
	Open(name string) (*os.File, error)
	Remove(name string) error
	Sweep(cutoff time.Time) ([]string, error)
}

type downloadSigner interface {
	Sign(jobID, name string) (string, storage.Grant, error)
	Verify(token string, allowExpired bool) (storage.Grant, error)
}

// ExportJobConfig governs result links and their retention.
type ExportJobConfig struct {
	DownloadBaseURL string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	MaxAttempts     int
}

// ExportJobService renders teacher search exports in the background and hands
// out signed links to the results.
type ExportJobService struct {
	repo     exportJobStore
	queue    jobDispatcher
	renderer teacherDocumentRenderer
	files    exportFileStore
	signer   downloadSigner
	logger   *zap.Logger
	cfg      ExportJobConfig
	now      func() time.Time
}

// ExportDownload is an opened export result. Callers close File.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

// NewExportJobService constructs the service.
func NewExportJobService(repo exportJobStore, queue jobDispatcher, renderer teacherDocumentRenderer, files exportFileStore, signer downloadSigner, logger *zap.Logger, cfg ExportJobConfig) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &ExportJobService{
		repo:     repo,
		queue:    queue,
		renderer: renderer,
		files:    files,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// UseQueue sets the dispatcher. The queue's handler is usually s.Handle, so the
// two are built in sequence.
func (s *ExportJobService) UseQueue(queue jobDispatcher) {
	s.queue = queue
}

// Submit persists an export request and queues it.
func (s *ExportJobService) Submit(ctx context.Context, req dto.ExportJobRequest, actorID string) (*dto.ExportJobStatus, error) {
	format := models.ExportFormat(req.Format)
	if format == "" {
		format = models.ExportFormatCSV
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+req.Format)
	}
	if (req.Filter.PageNumber != nil && *req.Filter.PageNumber < 1) || (req.Filter.PageSize != nil && *req.Filter.PageSize < 1) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pageNumber and pageSize must be at least 1")
	}

	job := &models.ExportJob{
		Params:    models.ExportJobParams{Filter: req.Filter, Format: format},
		Status:    models.ExportStatusQueued,
		CreatedBy: actorID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, internalError(err, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Kind: ExportJobKind}); err != nil {
		msg := "failed to enqueue export job"
		s.markFailed(ctx, job.ID, msg)
		return nil, internalError(err, msg)
	}
	s.logger.Info("export job queued", zap.String("job_id", job.ID), zap.String("format", string(format)), zap.String("actor", actorID), zap.String("request_id", requestid.FromContext(ctx)))
	return s.status(job), nil
}

// Status reports progress. Only the submitter or an admin may look.
func (s *ExportJobService) Status(ctx context.Context, id string, claims *models.JWTClaims) (*dto.ExportJobStatus, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if claims == nil || (!claims.IsAdmin() && job.CreatedBy != claims.UserID) {
		return nil, appErrors.ErrForbidden
	}
	return s.status(job), nil
}

// Download resolves a signed token to the stored result.
func (s *ExportJobService) Download(ctx context.Context, token string) (*ExportDownload, error) {
	grant, err := s.signer.Verify(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidDownloadToken.Code, appErrors.ErrInvalidDownloadToken.Status, appErrors.ErrInvalidDownloadToken.Message)
	}
	job, err := s.load(ctx, grant.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.ErrExportNotReady
	}
	if job.ResultToken == nil || *job.ResultToken != token {
		return nil, appErrors.ErrInvalidDownloadToken
	}
	file, err := s.files.Open(grant.Name)
	if err != nil {
		return nil, internalError(err, "failed to open export result")
	}
	return &ExportDownload{
		File:        file,
		Filename:    path.Base(grant.Name),
		ContentType: s.renderer.ContentType(string(job.Params.Format)),
	}, nil
}

// Recover requeues jobs left pending by a previous process.
func (s *ExportJobService) Recover(ctx context.Context) int {
	pending, err := s.repo.ListPending(ctx, 100)
	if err != nil {
		s.logger.Warn("failed to list pending export jobs", zap.Error(err))
		return 0
	}
	requeued := 0
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Kind: ExportJobKind}); err != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}
		requeued++
	}
	if requeued > 0 {
		s.logger.Info("export jobs recovered", zap.Int("count", requeued))
	}
	return requeued
}

// StartCleanup purges expired results every CleanupInterval until ctx ends.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup(ctx)
			}
		}
	}()
}

// Cleanup deletes finished jobs older than ResultTTL along with their files.
func (s *ExportJobService) Cleanup(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Warn("failed to list expired export jobs", zap.Error(err))
		return
	}
	for _, job := range expired {
		if job.ResultToken != nil {
			if grant, err := s.signer.Verify(*job.ResultToken, true); err == nil {
				if err := s.files.Remove(grant.Name); err != nil {
					s.logger.Warn("failed to remove export result", zap.String("job_id", job.ID), zap.Error(err))
					continue
				}
			}
		}
		if err := s.repo.Delete(ctx, job.ID); err != nil {
			s.logger.Warn("failed to delete export job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if removed, err := s.files.Sweep(cutoff); err != nil {
		s.logger.Warn("export storage sweep failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("orphaned export files removed", zap.Int("count", len(removed)))
	}
}

// Handle is the queue handler that renders one job.
func (s *ExportJobService) Handle(ctx context.Context, j jobs.Job) error {
	job, err := s.repo.FindByID(ctx, j.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("export job vanished before processing", zap.String("job_id", j.ID))
			return nil
		}
		return err
	}
	if job.Status == models.ExportStatusFinished || job.Status == models.ExportStatusFailed {
		return nil
	}

	processing := models.ExportStatusProcessing
	progress := 10
	if err := s.repo.Update(ctx, job.ID, repository.ExportJobUpdate{Status: &processing, Progress: &progress}); err != nil {
		return err
	}

	file, err := s.renderer.Export(ctx, job.Params.Filter, string(job.Params.Format))
	if err == nil {
		name := path.Join("teachers", job.ID, file.Filename)
		if err = s.files.Put(name, file.Data); err == nil {
			err = s.finish(ctx, job.ID, name)
		}
	}
	if err == nil {
		return nil
	}

	var appErr *appErrors.Error
	permanent := errors.As(err, &appErr) && appErr.Status < 500
	if permanent || j.Attempt+1 >= s.cfg.MaxAttempts {
		s.markFailed(ctx, job.ID, err.Error())
		if permanent {
			return nil
		}
		return err
	}

	queued := models.ExportStatusQueued
	reset := 0
	msg := err.Error()
	if updateErr := s.repo.Update(ctx, job.ID, repository.ExportJobUpdate{Status: &queued, Progress: &reset, ErrorMessage: &msg}); updateErr != nil {
		s.logger.Warn("failed to requeue export job state", zap.String("job_id", job.ID), zap.Error(updateErr))
	}
	return err
}

func (s *ExportJobService) finish(ctx context.Context, id, name string) error {
	token, _, err := s.signer.Sign(id, name)
	if err != nil {
		return fmt.Errorf("sign export result: %w", err)
	}
	finished := models.ExportStatusFinished
	progress := 100
	now := s.now()
	noError := ""
	return s.repo.Update(ctx, id, repository.ExportJobUpdate{
		Status:       &finished,
		Progress:     &progress,
		ResultToken:  &token,
		ErrorMessage: &noError,
		FinishedAt:   &now,
	})
}

func (s *ExportJobService) markFailed(ctx context.Context, id, msg string) {
	failed := models.ExportStatusFailed
	progress := 100
	now := s.now()
	if err := s.repo.Update(ctx, id, repository.ExportJobUpdate{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark export job failed", zap.String("job_id", id), zap.Error(err))
	}
}

func (s *ExportJobService) load(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrExportJobNotFound, "no export job found for id: "+id)
		}
		return nil, internalError(err, "failed to load export job")
	}
	return job, nil
}

func (s *ExportJobService) status(job *models.ExportJob) *dto.ExportJobStatus {
	out := &dto.ExportJobStatus{
		ID:         job.ID,
		Format:     string(job.Params.Format),
		Status:     string(job.Status),
		Progress:   job.Progress,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		out.Error = job.ErrorMessage
	}
	if job.Status == models.ExportStatusFinished && job.ResultToken != nil {
		url := s.cfg.DownloadBaseURL + *job.ResultToken
		out.DownloadURL = &url
	}
	return out
}
