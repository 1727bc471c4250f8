// Package events publishes domain events to RabbitMQ. Publishing is best
// effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys; each is also the name of a durable queue.
const (
	RatingUpserted  = "rating.upserted"
	ReportCreated   = "report.created"
	CampsiteCreated = "campsite.created"
)

var queues = []string{RatingUpserted, ReportCreated, CampsiteCreated}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

// Envelope wraps every message body.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type RatingUpsertedEvent struct {
	RatingID     string   `json:"rating_id"`
	CampsiteID   string   `json:"campsite_id"`
	UserID       string   `json:"user_id"`
	ScoreOverall int      `json:"score_overall"`
	AvgRating    *float64 `json:"avg_rating"`
}

type ReportCreatedEvent struct {
	ReportID   string `json:"report_id"`
	CommentID  string `json:"comment_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
}

type CampsiteCreatedEvent struct {
	CampsiteID string `json:"campsite_id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Source     string `json:"source"`
}

// Encode builds the JSON body published for an event.
func Encode(routingKey string, data any, now time.Time) ([]byte, error) {
	return json.Marshal(Envelope{Type: routingKey, OccurredAt: now.UTC(), Data: data})
}

// RabbitPublisher keeps one connection and channel open for the process.
// amqp channels are not safe for concurrent publishing, hence the mutex.
type RabbitPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ Publisher = (*RabbitPublisher)(nil)

// NewRabbitPublisher dials the broker and declares every event queue.
func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(
			q,     // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("rabbitmq declare %s: %w", q, err)
		}
	}
	return &RabbitPublisher{conn: conn, ch: ch}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	now := time.Now()
	body, err := Encode(routingKey, data, now)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		"",         // default exchange
		routingKey, // routing key = queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    now.UTC(),
			Type:         routingKey,
			Body:         body,
		},
	)
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Noop drops every event. It is used when RABBITMQ_URL is unset.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
