package push

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/reimondavendano/betapresko-sub001/pkg/circuitbreaker"
	"github.com/reimondavendano/betapresko-sub001/pkg/messaging"
)

const channel = "push_notifications"

// Message is a best-effort push payload. Audience selects the device
// subscription group on the delivery side.
type Message struct {
	Audience string `json:"audience"` // client id or "admins"
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Dispatcher sends fire-and-forget push messages. Delivery mechanics live
// behind the broker; a failed dispatch is logged, never surfaced.
type Dispatcher interface {
	Send(ctx context.Context, msg Message)
}

type brokerDispatcher struct {
	broker messaging.Broker
	cb     *circuitbreaker.CircuitBreaker
	logger *zerolog.Logger
}

func NewDispatcher(broker messaging.Broker, logger *zerolog.Logger) Dispatcher {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "push-dispatcher",
		MaxFailures: 5,
		Timeout:     30 * time.Second,
	})
	return &brokerDispatcher{
		broker: broker,
		cb:     cb,
		logger: logger,
	}
}

func (d *brokerDispatcher) Send(ctx context.Context, msg Message) {
	err := d.cb.Execute(func() error {
		return d.broker.Publish(ctx, channel, messaging.Message{
			Type:    "push",
			Payload: msg,
		})
	})
	if err != nil {
		d.logger.Warn().
			Err(err).
			Str("audience", msg.Audience).
			Str("title", msg.Title).
			Msg("push dispatch failed")
	}
}
