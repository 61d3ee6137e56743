package importjobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora-backend/internal/catalog"
	"github.com/vendorahq/vendora-backend/internal/feed"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

type fakeFetcher struct {
	doc   *feed.Feed
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context, string) (*feed.Feed, error) {
	f.calls++
	return f.doc, f.err
}

type fakeApplier struct {
	summary *catalog.ImportSummary
	err     error
	panics  bool
	calls   int
}

func (f *fakeApplier) Apply(context.Context, uuid.UUID, *feed.Feed) (*catalog.ImportSummary, error) {
	f.calls++
	if f.panics {
		panic("applier exploded")
	}
	return f.summary, f.err
}

type fakeLocks struct {
	busy     bool
	acquired int
	released int
}

func (f *fakeLocks) Acquire(context.Context, uuid.UUID, string) (func(context.Context), bool, error) {
	if f.busy {
		return nil, false, nil
	}
	f.acquired++
	return func(context.Context) { f.released++ }, true, nil
}

func minimalFeed() *feed.Feed {
	return &feed.Feed{
		Shop:       "Svyaznoy",
		Categories: []feed.Category{{ID: "1", Name: "Smartphones"}},
	}
}

func newRunner(t *testing.T, repo *Repository, fetcher feedFetcher, applier catalogApplier, locks shopLocker) *Runner {
	t.Helper()
	runner, err := NewRunner(repo, fetcher, applier, locks, nil,
		logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return runner
}

func TestRunnerHappyPath(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	fetcher := &fakeFetcher{doc: minimalFeed()}
	applier := &fakeApplier{summary: &catalog.ImportSummary{ShopName: "Svyaznoy", Offerings: 2}}
	locks := &fakeLocks{}
	runner := newRunner(t, repo, fetcher, applier, locks)

	err := runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.NoError(t, err)

	var stored models.ImportJob
	require.NoError(t, conn.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, enums.ImportJobStatusSuccess, stored.Status)
	assert.Nil(t, stored.Error)
	assert.Equal(t, 1, locks.acquired)
	assert.Equal(t, 1, locks.released)
}

func TestRunnerSkipsFinishedJobOnRedelivery(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	_, err := repo.MarkInProgress(context.Background(), job.ID)
	require.NoError(t, err)
	_, err = repo.Finish(context.Background(), job.ID, enums.ImportJobStatusSuccess, nil)
	require.NoError(t, err)

	fetcher := &fakeFetcher{doc: minimalFeed()}
	runner := newRunner(t, repo, fetcher, &fakeApplier{}, &fakeLocks{})

	err = runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.NoError(t, err)
	assert.Zero(t, fetcher.calls, "a finished job must not be refetched")
}

func TestRunnerDropsTaskForMissingJobRecord(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)

	fetcher := &fakeFetcher{doc: minimalFeed()}
	runner := newRunner(t, repo, fetcher, &fakeApplier{}, &fakeLocks{})

	err := runner.Run(context.Background(), TaskMessage{
		JobID: uuid.New(), UserID: uuid.New(), FeedURL: "https://example.com/feed.yaml",
	})
	require.NoError(t, err, "a task without a job row is dropped, not redelivered")
	assert.Zero(t, fetcher.calls)
}

func TestRunnerRecordsNonRetryableFailure(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	fetcher := &fakeFetcher{err: apperrors.New(apperrors.CodeFormat, "feed is not valid yaml")}
	runner := newRunner(t, repo, fetcher, &fakeApplier{}, &fakeLocks{})

	err := runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.NoError(t, err, "terminal failures ack the message")

	var stored models.ImportJob
	require.NoError(t, conn.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, enums.ImportJobStatusFailed, stored.Status)
	require.NotNil(t, stored.Error)
	assert.Contains(t, *stored.Error, "feed is not valid yaml")
}

func TestRunnerRecordsFetchFailureAsFailed(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	fetcher := &fakeFetcher{err: apperrors.New(apperrors.CodeTransport, "feed endpoint returned status 503")}
	runner := newRunner(t, repo, fetcher, &fakeApplier{}, &fakeLocks{})

	err := runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.NoError(t, err, "a dead feed finalizes the job instead of redelivering")

	var stored models.ImportJob
	require.NoError(t, conn.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, enums.ImportJobStatusFailed, stored.Status,
		"fetch failures must never leave the job in progress")
	require.NotNil(t, stored.Error)
	assert.Contains(t, *stored.Error, "feed endpoint returned status 503")
}

func TestRunnerRequeuesDependencyFailure(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	fetcher := &fakeFetcher{doc: minimalFeed()}
	applier := &fakeApplier{err: apperrors.New(apperrors.CodeDependency, "database unavailable")}
	runner := newRunner(t, repo, fetcher, applier, &fakeLocks{})

	err := runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.Error(t, err, "infrastructure failures nack for redelivery")

	var stored models.ImportJob
	require.NoError(t, conn.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, enums.ImportJobStatusInProgress, stored.Status,
		"the job stays claimable for the next delivery")
}

func TestRunnerRequeuesWhenShopLockBusy(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	applier := &fakeApplier{}
	runner := newRunner(t, repo, &fakeFetcher{doc: minimalFeed()}, applier, &fakeLocks{busy: true})

	err := runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.ErrorIs(t, err, ErrShopBusy)
	assert.Zero(t, applier.calls)
}

func TestRunnerRecordsPanicAsFailure(t *testing.T) {
	conn := setupJobsTestDB(t)
	repo := NewRepository(conn)
	job := mustCreateJob(t, conn, uuid.New())

	runner := newRunner(t, repo, &fakeFetcher{doc: minimalFeed()}, &fakeApplier{panics: true}, &fakeLocks{})

	err := runner.Run(context.Background(), TaskMessage{
		JobID: job.ID, UserID: job.UserID, FeedURL: job.FeedURL,
	})
	require.Error(t, err)

	var stored models.ImportJob
	require.NoError(t, conn.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, enums.ImportJobStatusFailed, stored.Status)
	require.NotNil(t, stored.Error)
	assert.Contains(t, *stored.Error, "panic")
}
