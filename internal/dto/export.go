package dto

import (
	"time"

	"github.com/noah-isme/appkademy-api/internal/models"
)

// ExportJobRequest asks for a teacher search to be rendered in the background.
type ExportJobRequest struct {
	Filter models.TeacherFilter `json:"filter"`
	Format string               `json:"format"`
}

// ExportJobStatus is the client view of an export job. DownloadURL is set once
// the result is ready.
type ExportJobStatus struct {
	ID          string     `json:"id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	DownloadURL *string    `json:"downloadUrl,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}
