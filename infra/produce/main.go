package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	Cleanup *StorageCleanupService
}

func InitProduce(channel *amqp.Channel) *Produce {
	cleanup := InitStorageCleanupService(channel)
	if cleanup == nil {
		panic("Failed to initialize Storage Cleanup service")
	}

	return &Produce{
		Cleanup: cleanup,
	}
}
