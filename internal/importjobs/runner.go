package importjobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/catalog"
	"github.com/vendorahq/vendora-backend/internal/feed"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
	"github.com/vendorahq/vendora-backend/pkg/metrics"
)

type feedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*feed.Feed, error)
}

type catalogApplier interface {
	Apply(ctx context.Context, userID uuid.UUID, doc *feed.Feed) (*catalog.ImportSummary, error)
}

type shopLocker interface {
	Acquire(ctx context.Context, userID uuid.UUID, shopName string) (release func(context.Context), ok bool, err error)
}

// ErrShopBusy tells the consumer to nack and let the broker redeliver once
// the competing import finishes.
var ErrShopBusy = fmt.Errorf("another import currently holds the shop lock")

// Runner executes one queued import job end to end.
type Runner struct {
	repo    *Repository
	fetcher feedFetcher
	catalog catalogApplier
	locks   shopLocker
	metrics *metrics.ImportMetrics
	logg    *logger.Logger
}

// NewRunner builds the worker-side job runner.
func NewRunner(repo *Repository, fetcher feedFetcher, applier catalogApplier, locks shopLocker, m *metrics.ImportMetrics, logg *logger.Logger) (*Runner, error) {
	if repo == nil {
		return nil, fmt.Errorf("import job repository required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("feed fetcher required")
	}
	if applier == nil {
		return nil, fmt.Errorf("catalog applier required")
	}
	if locks == nil {
		return nil, fmt.Errorf("shop locks required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Runner{
		repo:    repo,
		fetcher: fetcher,
		catalog: applier,
		locks:   locks,
		metrics: m,
		logg:    logg,
	}, nil
}

// Run processes one task message. A nil return means the message can be
// acked: either the job reached a terminal status or it was already finished
// by an earlier delivery. A non-nil return asks for redelivery.
func (r *Runner) Run(ctx context.Context, msg TaskMessage) (err error) {
	ctx = r.logg.WithFields(ctx, map[string]any{
		"job_id":  msg.JobID.String(),
		"user_id": msg.UserID.String(),
	})
	started := time.Now()

	claimed, err := r.repo.MarkInProgress(ctx, msg.JobID)
	if err != nil {
		return fmt.Errorf("claiming job: %w", err)
	}
	if !claimed {
		if _, getErr := r.repo.Get(ctx, msg.JobID); getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				// A task without a job row is fatal to this run, not
				// redelivered.
				r.logg.Error(ctx, "dropping task for missing import job record",
					apperrors.New(apperrors.CodeNotFound, "import job record missing"))
				r.observe("failed", started)
				return nil
			}
			return fmt.Errorf("checking job record: %w", getErr)
		}
		r.logg.Info(ctx, "skipping already-finished import job")
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprintf("panic: %v", rec)
			if _, finishErr := r.repo.Finish(ctx, msg.JobID, enums.ImportJobStatusFailed, &reason); finishErr != nil {
				r.logg.Error(ctx, "failed to record panicked job", finishErr)
			}
			r.observe("failed", started)
			err = fmt.Errorf("import job panicked: %v", rec)
		}
	}()

	doc, fetchErr := r.fetcher.Fetch(ctx, msg.FeedURL)
	if fetchErr != nil {
		return r.finishWithError(ctx, msg.JobID, started, fetchErr)
	}

	release, ok, lockErr := r.locks.Acquire(ctx, msg.UserID, doc.Shop)
	if lockErr != nil {
		r.logg.Error(ctx, "acquiring shop import lock", lockErr)
		return lockErr
	}
	if !ok {
		r.logg.Warn(ctx, "shop import lock busy, requeueing")
		r.observe("requeued", started)
		return ErrShopBusy
	}
	defer release(ctx)

	summary, applyErr := r.catalog.Apply(ctx, msg.UserID, doc)
	if applyErr != nil {
		return r.finishWithError(ctx, msg.JobID, started, applyErr)
	}

	if _, finishErr := r.repo.Finish(ctx, msg.JobID, enums.ImportJobStatusSuccess, nil); finishErr != nil {
		return fmt.Errorf("recording job success: %w", finishErr)
	}
	r.observe("success", started)
	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"shop":      summary.ShopName,
		"offerings": summary.Offerings,
	}), "import job finished")
	return nil
}

// finishWithError decides between a terminal failure (ack) and a retry
// (nack). Only errors flagged retryable keep the job alive for redelivery.
func (r *Runner) finishWithError(ctx context.Context, jobID uuid.UUID, started time.Time, cause error) error {
	if typed := apperrors.As(cause); typed != nil {
		if apperrors.MetadataFor(typed.Code()).Retryable {
			r.logg.Warn(r.logg.WithField(ctx, "cause", cause.Error()), "import failed, will retry")
			r.observe("requeued", started)
			return cause
		}
	} else {
		// Unclassified errors are treated as transient infrastructure
		// problems and retried.
		r.logg.Error(ctx, "import failed with unclassified error, will retry", cause)
		r.observe("requeued", started)
		return cause
	}

	reason := cause.Error()
	if _, finishErr := r.repo.Finish(ctx, jobID, enums.ImportJobStatusFailed, &reason); finishErr != nil {
		return fmt.Errorf("recording job failure: %w", finishErr)
	}
	r.observe("failed", started)
	r.logg.Warn(r.logg.WithField(ctx, "cause", reason), "import job failed")
	return nil
}

func (r *Runner) observe(outcome string, started time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveRun(outcome, time.Since(started))
	}
}
