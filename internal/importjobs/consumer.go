package importjobs

import (
	"context"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/vendorahq/vendora-backend/pkg/logger"
)

type jobRunner interface {
	Run(ctx context.Context, msg TaskMessage) error
}

// Consumer feeds queued import tasks into the runner. Ack/nack policy lives
// in the runner's return value: nil means the job is settled, an error asks
// the broker to redeliver.
type Consumer struct {
	runner       jobRunner
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds the import task consumer.
func NewConsumer(runner jobRunner, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if runner == nil {
		return nil, fmt.Errorf("job runner required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("imports subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{runner: runner, subscription: subscription, logg: logg}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.Data)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, data []byte) processResult {
	task, err := DecodeTaskMessage(data)
	if err != nil {
		c.logg.Error(ctx, "dropping malformed import task", err)
		return processResult{ack: true}
	}

	if err := c.runner.Run(ctx, *task); err != nil {
		if errors.Is(err, ErrShopBusy) {
			c.logg.Info(c.logg.WithJobID(ctx, task.JobID.String()), "shop locked, requeueing import task")
		} else {
			c.logg.Error(c.logg.WithJobID(ctx, task.JobID.String()), "import task failed, requeueing", err)
		}
		return processResult{nack: true}
	}
	return processResult{ack: true}
}
