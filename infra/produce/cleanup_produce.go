package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	StorageCleanupQueue      = "storage.cleanup"
	StorageCleanupExchange   = "storage.exchange"
	StorageCleanupRoutingKey = "storage.cleanup"
)

// StorageCleanupMessage names one object key the service failed to delete
// best-effort, so the cleanup consumer can retry it. One key per message;
// this is a deferred retry of a known key, never a scan for orphans.
type StorageCleanupMessage struct {
	Key       string `json:"key"`
	BookID    string `json:"book_id,omitempty"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// StorageCleanupService publishes deferred object deletions.
type StorageCleanupService struct {
	channel *amqp.Channel
}

func InitStorageCleanupService(channel *amqp.Channel) *StorageCleanupService {
	service := &StorageCleanupService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		StorageCleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Storage exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		StorageCleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Storage Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		StorageCleanupQueue,
		StorageCleanupRoutingKey,
		StorageCleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Storage Cleanup queue: " + err.Error())
	}

	return service
}

// PublishCleanup enqueues one key for deferred deletion.
func (s *StorageCleanupService) PublishCleanup(ctx context.Context, msg StorageCleanupMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		StorageCleanupExchange,
		StorageCleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
