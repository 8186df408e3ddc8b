// Package queue publica eventos de dominio en RabbitMQ. Cada publicación abre su
// propia conexión: el volumen es bajo (pagos y suscripciones) y así no hay estado
// compartido que reconectar.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/facturation-api/internal/domain/event"
	"github.com/jhoicas/facturation-api/pkg/config"
	"github.com/jhoicas/facturation-api/pkg/logger"
)

var _ event.Publisher = (*RabbitPublisher)(nil)

// RabbitPublisher publica en una cola durable (exchange por defecto, routing key = cola).
type RabbitPublisher struct {
	url   string
	queue string
	log   *logger.Logger
	dial  func(url string) (*amqp.Connection, error)
}

// NewRabbitPublisher construye el publicador.
func NewRabbitPublisher(cfg config.RabbitMQConfig, log *logger.Logger) *RabbitPublisher {
	queue := cfg.Queue
	if queue == "" {
		queue = "facturation.events"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RabbitPublisher{url: cfg.URL, queue: queue, log: log.WithComponent("rabbitmq"), dial: amqp.Dial}
}

// NewPublisher devuelve el publicador RabbitMQ o event.Nop si no hay URL configurada.
func NewPublisher(cfg config.RabbitMQConfig, log *logger.Logger) event.Publisher {
	if cfg.URL == "" {
		return event.Nop{}
	}
	return NewRabbitPublisher(cfg, log)
}

// Publish serializa el evento y lo publica como mensaje persistente.
// El nombre del evento viaja en Type para que los consumidores enruten.
func (p *RabbitPublisher) Publish(ctx context.Context, e event.Event) error {
	body, err := Encode(e)
	if err != nil {
		return err
	}

	conn, err := p.dial(p.url)
	if err != nil {
		p.log.Warn().Err(err).Msg("dial fallido")
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         e.Name(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	p.log.Debug().Str("event", e.Name()).Msg("evento publicado")
	return nil
}

// Encode serializa el evento como JSON.
func Encode(e event.Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: marshal %s: %w", e.Name(), err)
	}
	return body, nil
}
