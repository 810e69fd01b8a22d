package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ufscompras/internal/domain"
)

// PurchaseHandler receives every confirmed purchase seen by a consumer.
type PurchaseHandler func(ctx context.Context, event domain.PurchaseConfirmed)

// PurchaseConsumer follows confirmed purchases through a private,
// auto-deleted queue bound to the events exchange.
type PurchaseConsumer struct {
	rmq     *RabbitMQ
	handler PurchaseHandler
}

func NewPurchaseConsumer(rmq *RabbitMQ, handler PurchaseHandler) *PurchaseConsumer {
	return &PurchaseConsumer{
		rmq:     rmq,
		handler: handler,
	}
}

// Start binds the queue and delivers events until ctx ends or the channel
// closes. It returns once consumption has started; done is closed when the
// delivery loop exits.
func (c *PurchaseConsumer) Start(ctx context.Context) (done <-chan struct{}, err error) {
	queue, err := c.rmq.channel.QueueDeclare(
		"",    // auto-generated name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare purchase queue: %w", err)
	}

	if err := c.rmq.channel.QueueBind(
		queue.Name,               // queue name
		RoutingPurchaseConfirmed, // routing key
		EventsExchange,           // exchange
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to bind purchase queue: %w", err)
	}

	msgs, err := c.rmq.channel.Consume(
		queue.Name, // queue
		"",         // consumer
		true,       // auto-ack
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("started consuming purchase events",
		slog.String("queue", queue.Name),
		slog.String("exchange", EventsExchange))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for {
			select {
			case <-ctx.Done():
				slog.Info("stopping purchase consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Warn("purchase consumer channel closed")
					return
				}

				var event domain.PurchaseConfirmed
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					slog.Error("error unmarshaling purchase event",
						slog.String("error", err.Error()),
						slog.String("body", string(msg.Body)))
					continue
				}

				c.handler(ctx, event)
			}
		}
	}()

	return finished, nil
}
