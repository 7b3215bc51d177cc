package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"allocation-system/pkg/config"
)

// AllocationCommittedMessage — сообщение для внешних потребителей о
// зафиксированной мутации раскладки оборудования.
type AllocationCommittedMessage struct {
	EquipmentID uint64   `json:"equipment_id"`
	ShowIDs     []uint64 `json:"show_ids,omitempty"`
	OperationID string   `json:"operation_id"`
	OccurredAt  string   `json:"occurred_at"`
}

type PublisherInterface interface {
	PublishAllocationCommitted(ctx context.Context, msg AllocationCommittedMessage) error
}

// Publisher публикует сообщения в RabbitMQ. Ошибки публикации логируются и
// возвращаются, но не должны прерывать основной поток запроса.
type Publisher struct {
	cfg    config.AmqpConfig
	logger *zap.Logger
}

func NewPublisher(cfg config.AmqpConfig, logger *zap.Logger) PublisherInterface {
	return &Publisher{cfg: cfg, logger: logger}
}

func (p *Publisher) PublishAllocationCommitted(ctx context.Context, msg AllocationCommittedMessage) error {
	if p.cfg.URL == "" {
		// Очередь не сконфигурирована — публикация отключена.
		return nil
	}

	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		p.logger.Error("rabbitmq: не удалось подключиться", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error("rabbitmq: не удалось открыть канал", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Объявление идемпотентно; durable — сообщения переживают рестарт брокера.
	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		p.logger.Error("rabbitmq: не удалось объявить очередь", zap.Error(err))
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
		p.logger.Error("rabbitmq: публикация не удалась", zap.Error(err))
		return err
	}

	return nil
}
