package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/idp-labs/shop-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/idp-labs/shop-svc/internal/dal/rabbitmq"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/service/models/outbox"
	"github.com/streadway/amqp"
)

const (
	queueOrderCreated   = "shop.order.created"
	queueOrderCancelled = "shop.order.cancelled"

	maxPublishRetries = 5
)

// event is the audit payload published for every order state change.
type event struct {
	Order      order.Order `json:"order"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// AuditRabbitMQRepository publishes order lifecycle events. When the broker
// is unavailable the event lands in the outbox table and the outbox worker
// delivers it later.
type AuditRabbitMQRepository struct {
	client     *rabbitmq.Client
	outboxRepo ioutboxrepo.IOutboxRepository
	created    amqp.Queue
	cancelled  amqp.Queue
}

func NewAuditRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *AuditRabbitMQRepository {
	created, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueOrderCreated,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	cancelled, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueOrderCancelled,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client:     client,
		outboxRepo: outboxRepo,
		created:    created,
		cancelled:  cancelled,
	}
}

// LogOrderCreated publishes an order-created event.
func (r *AuditRabbitMQRepository) LogOrderCreated(ctx context.Context, o order.Order) error {
	return r.publish(ctx, r.created.Name, o)
}

// LogOrderCancelled publishes an order-cancelled event.
func (r *AuditRabbitMQRepository) LogOrderCancelled(ctx context.Context, o order.Order) error {
	return r.publish(ctx, r.cancelled.Name, o)
}

func (r *AuditRabbitMQRepository) publish(ctx context.Context, queueName string, o order.Order) error {
	payload, err := json.Marshal(event{Order: o, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	err = r.client.Channel().Publish(
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
	if err == nil {
		return nil
	}

	now := time.Now()

	return r.outboxRepo.Insert(ctx, outbox.Message{
		QueueName:   queueName,
		RoutingKey:  queueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxPublishRetries,
		LastError:   err.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}
