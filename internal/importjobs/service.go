package importjobs

import (
	"context"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/feed"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

// PublishResult mirrors the Pub/Sub publish future so tests can fake it.
type PublishResult interface {
	Get(ctx context.Context) (string, error)
}

// TaskPublisher enqueues import task messages.
type TaskPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) PublishResult
}

type gcpTaskPublisher struct {
	publisher *pubsub.Publisher
}

// NewPubSubTaskPublisher adapts a GCP publisher to the TaskPublisher surface.
func NewPubSubTaskPublisher(publisher *pubsub.Publisher) (TaskPublisher, error) {
	if publisher == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return &gcpTaskPublisher{publisher: publisher}, nil
}

func (p *gcpTaskPublisher) Publish(ctx context.Context, msg *pubsub.Message) PublishResult {
	return p.publisher.Publish(ctx, msg)
}

// Service is the API-facing side of the import pipeline: it records jobs,
// enqueues them, and serves status reads.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, feedURL string) (*models.ImportJob, error)
	Get(ctx context.Context, userID, jobID uuid.UUID) (*models.ImportJob, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.ImportJob, error)
}

type service struct {
	repo      *Repository
	publisher TaskPublisher
	logg      *logger.Logger
}

// NewService builds the import job service.
func NewService(repo *Repository, publisher TaskPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("import job repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("task publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

// Submit validates the feed location, records a pending job, and enqueues it.
// The HTTP response carries the job id; the caller polls Get for the outcome.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, feedURL string) (*models.ImportJob, error) {
	if err := feed.ValidateURL(feedURL); err != nil {
		return nil, err
	}

	job := &models.ImportJob{
		ID:      uuid.New(),
		UserID:  userID,
		FeedURL: feedURL,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("recording import job: %w", err)
	}

	data, err := TaskMessage{JobID: job.ID, UserID: userID, FeedURL: feedURL}.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding task message: %w", err)
	}

	logCtx := s.logg.WithJobID(ctx, job.ID.String())
	result := s.publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		// The row exists but nothing will pick it up; fail it so the
		// submitter isn't left polling a job that never runs.
		reason := "enqueueing failed: " + err.Error()
		if _, finishErr := s.repo.Finish(ctx, job.ID, enums.ImportJobStatusFailed, &reason); finishErr != nil {
			s.logg.Error(logCtx, "failed to mark unenqueued job", finishErr)
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "enqueueing import job")
	}

	s.logg.Info(logCtx, "import job enqueued")
	return job, nil
}

// Get returns one of the user's jobs.
func (s *service) Get(ctx context.Context, userID, jobID uuid.UUID) (*models.ImportJob, error) {
	job, err := s.repo.GetForUser(ctx, jobID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "import job not found")
		}
		return nil, err
	}
	return job, nil
}

// List returns the user's job history, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.ImportJob, error) {
	return s.repo.ListForUser(ctx, userID)
}
