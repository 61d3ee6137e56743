package importjobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// Repository exposes persistence operations for import job records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an import job repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new job record.
func (r *Repository) Create(ctx context.Context, job *models.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Get loads a job by id.
func (r *Repository) Get(ctx context.Context, jobID uuid.UUID) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetForUser loads a job restricted to its submitter.
func (r *Repository) GetForUser(ctx context.Context, jobID, userID uuid.UUID) (*models.ImportJob, error) {
	var job models.ImportJob
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", jobID, userID).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListForUser returns the user's jobs, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ImportJob, error) {
	var jobs []models.ImportJob
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// MarkInProgress moves a non-terminal job into in_progress and reports
// whether a row was matched. Terminal rows never change again, which is what
// makes redelivered job messages safe to drop.
func (r *Repository) MarkInProgress(ctx context.Context, jobID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ? AND status IN ?", jobID, []enums.ImportJobStatus{
			enums.ImportJobStatusPending,
			enums.ImportJobStatusInProgress,
		}).
		Update("status", enums.ImportJobStatusInProgress)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Finish writes a terminal status, guarded against double-finishing.
func (r *Repository) Finish(ctx context.Context, jobID uuid.UUID, status enums.ImportJobStatus, errMsg *string) (bool, error) {
	if !status.IsTerminal() {
		return false, gorm.ErrInvalidValue
	}
	res := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("id = ? AND status IN ?", jobID, []enums.ImportJobStatus{
			enums.ImportJobStatusPending,
			enums.ImportJobStatusInProgress,
		}).
		Updates(map[string]any{
			"status": status,
			"error":  errMsg,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
