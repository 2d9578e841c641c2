package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/biblioteca-dev/book-asset-service/infra"
	"github.com/biblioteca-dev/book-asset-service/infra/produce"
)

// StorageCleanupConsumer retries object deletions the HTTP service could not
// complete in-request. Keys arrive on the cleanup queue after a failed
// compensation delete or a failed post-removal delete.
type StorageCleanupConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
}

func NewStorageCleanupConsumer(channel *amqp.Channel, infra *infra.Infra) *StorageCleanupConsumer {
	return &StorageCleanupConsumer{
		channel: channel,
		infra:   infra,
	}
}

func (c *StorageCleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.StorageCleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register storage cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening for cleanup jobs on queue: %s", produce.StorageCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *StorageCleanupConsumer) handleCleanup(ctx context.Context, msg amqp.Delivery) {
	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Received message: %s", string(msg.Body))

	var payload produce.StorageCleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	if payload.Key == "" {
		c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Discarding message without object key")
		_ = msg.Nack(false, false)
		return
	}

	maxRetries := 3
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = c.infra.Minio.RemoveObject(ctx, payload.Key)
		if err == nil {
			c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Successfully deleted object: %s (reason: %s)", payload.Key, payload.Reason)
			_ = msg.Ack(false)
			return
		}

		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Attempt %d/%d to delete %s failed: %v", attempt, maxRetries, payload.Key, err)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	// After max retries, reject and requeue
	c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to delete %s after %d attempts, requeueing message", payload.Key, maxRetries)
	_ = msg.Nack(false, true)
}
