package messaging

import (
	"context"
)

// Broker publishes booking lifecycle events for downstream consumers.
// Consuming happens outside this service, so there is no subscribe side.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
