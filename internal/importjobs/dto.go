package importjobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// JobDTO is the submitter-facing view of one import job.
type JobDTO struct {
	ID        uuid.UUID             `json:"id"`
	FeedURL   string                `json:"feed_url"`
	Status    enums.ImportJobStatus `json:"status"`
	Error     *string               `json:"error,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// JobToDTO converts a stored job into its API shape.
func JobToDTO(job *models.ImportJob) JobDTO {
	return JobDTO{
		ID:        job.ID,
		FeedURL:   job.FeedURL,
		Status:    job.Status,
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

// JobsToDTO converts a job slice, preserving order.
func JobsToDTO(jobs []models.ImportJob) []JobDTO {
	out := make([]JobDTO, 0, len(jobs))
	for i := range jobs {
		out = append(out, JobToDTO(&jobs[i]))
	}
	return out
}
