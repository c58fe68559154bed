package services

import (
	"context"

	"schooldesk/internal/amqp"
)

// ChangePublisher announces collection changes to the snapshot worker.
type ChangePublisher interface {
	PublishChange(ctx context.Context, ev *amqp.ChangeEvent) error
}
