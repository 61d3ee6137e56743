package importjobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

type fakeRunner struct {
	err  error
	runs []TaskMessage
}

func (f *fakeRunner) Run(_ context.Context, msg TaskMessage) error {
	f.runs = append(f.runs, msg)
	return f.err
}

func encodedTask(t *testing.T) []byte {
	t.Helper()
	data, err := TaskMessage{
		JobID:   uuid.New(),
		UserID:  uuid.New(),
		FeedURL: "https://shop.example.com/feed.yaml",
	}.Encode()
	require.NoError(t, err)
	return data
}

func TestConsumerAcksSettledTask(t *testing.T) {
	runner := &fakeRunner{}
	consumer := &Consumer{runner: runner, logg: logger.New(logger.Options{ServiceName: "test"})}

	result := consumer.process(context.Background(), encodedTask(t))
	assert.True(t, result.ack)
	assert.Len(t, runner.runs, 1)
}

func TestConsumerNacksRetryableFailure(t *testing.T) {
	runner := &fakeRunner{err: apperrors.New(apperrors.CodeDependency, "database unavailable")}
	consumer := &Consumer{runner: runner, logg: logger.New(logger.Options{ServiceName: "test"})}

	result := consumer.process(context.Background(), encodedTask(t))
	assert.True(t, result.nack)
}

func TestConsumerNacksBusyShop(t *testing.T) {
	runner := &fakeRunner{err: ErrShopBusy}
	consumer := &Consumer{runner: runner, logg: logger.New(logger.Options{ServiceName: "test"})}

	result := consumer.process(context.Background(), encodedTask(t))
	assert.True(t, result.nack)
}

func TestConsumerDropsMalformedTask(t *testing.T) {
	runner := &fakeRunner{}
	consumer := &Consumer{runner: runner, logg: logger.New(logger.Options{ServiceName: "test"})}

	result := consumer.process(context.Background(), []byte("not json"))
	assert.True(t, result.ack, "poison messages must not loop forever")
	assert.Empty(t, runner.runs)
}
