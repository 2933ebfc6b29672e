package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultBufferSize     = 256
	defaultPublishTimeout = 5 * time.Second
)

// publisherChannel is the part of *amqp.Channel the publisher needs.
type publisherChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// rabbitMQPublisher hands events to a background goroutine that publishes them
// as persistent messages with publisher confirms. When the buffer is full the
// event is logged and dropped so callers never wait on the broker.
type rabbitMQPublisher struct {
	ch        publisherChannel
	confirms  chan amqp.Confirmation
	queueName string
	timeout   time.Duration
	log       *zap.Logger
	events    chan *models.AuditEvent
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
}

// NewRabbitMQPublisher declares the durable audit queue and starts the
// publishing goroutine. A nil connection yields the no-op publisher.
func NewRabbitMQPublisher(conn *amqp.Connection, queueName string, log *zap.Logger) (contracts.AuditPublisher, error) {
	if conn == nil {
		log.Warn("RabbitMQ is not configured, audit events will only be logged")
		return NewNoopPublisher(log), nil
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return newRabbitMQPublisher(ch, ch.NotifyPublish(make(chan amqp.Confirmation, 1)), queueName, defaultBufferSize, log), nil
}

func newRabbitMQPublisher(ch publisherChannel, confirms chan amqp.Confirmation, queueName string, bufferSize int, log *zap.Logger) *rabbitMQPublisher {
	p := &rabbitMQPublisher{
		ch:        ch,
		confirms:  confirms,
		queueName: queueName,
		timeout:   defaultPublishTimeout,
		log:       log,
		events:    make(chan *models.AuditEvent, bufferSize),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, event *models.AuditEvent) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if event.EventID == "" || event.OccurredAt.IsZero() {
		stamp(event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn("rabbitMQPublisher.Publish called after Close, dropping audit event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAuditEventKey, event.Type),
		)
		return
	}

	select {
	case p.events <- event:
	default:
		p.log.Error("rabbitMQPublisher.Publish buffer full, dropping audit event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAuditEventKey, event.Type),
			zap.String(constvars.LoggingSessionIDKey, event.SessionID),
		)
	}
}

func (p *rabbitMQPublisher) run() {
	defer close(p.done)
	for event := range p.events {
		if err := p.publish(event); err != nil {
			p.log.Error("rabbitMQPublisher failed to publish audit event",
				zap.String(constvars.LoggingAuditEventKey, event.Type),
				zap.String(constvars.LoggingSessionIDKey, event.SessionID),
				zap.String(constvars.LoggingQueueNameKey, p.queueName),
				zap.Error(err),
			)
		}
	}
}

func (p *rabbitMQPublisher) publish(event *models.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.queueName)
	}

	if p.confirms == nil {
		return nil
	}
	select {
	case confirmed, ok := <-p.confirms:
		if !ok || !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), p.queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), p.queueName)
	}
	return nil
}

// Close stops accepting events, flushes what is buffered and closes the channel.
func (p *rabbitMQPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	<-p.done
	return p.ch.Close()
}
