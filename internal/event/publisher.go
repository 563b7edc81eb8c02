// Package event publishes domain events to a RabbitMQ topic exchange.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hirepulse/hirepulse-backend/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Type is the routing key of an event.
type Type string

const SessionCompleted Type = "session.completed"

// SessionCompletedEvent is emitted once a session row is durable.
type SessionCompletedEvent struct {
	EventType     Type                `json:"event_type"`
	SessionID     string              `json:"session_id"`
	UserEmail     string              `json:"user_email"`
	ExamCode      string              `json:"exam_code,omitempty"`
	OwnerEmail    string              `json:"owner_email,omitempty"`
	Category      model.Category      `json:"category"`
	Status        model.SessionStatus `json:"status"`
	AverageScore  int                 `json:"average_score"`
	QuestionCount int                 `json:"question_count"`
	Answered      int                 `json:"answered"`
	Timestamp     time.Time           `json:"timestamp"`
}

// NewSessionCompleted builds the event for a persisted session.
func NewSessionCompleted(s *model.Session) SessionCompletedEvent {
	return SessionCompletedEvent{
		EventType:     SessionCompleted,
		SessionID:     s.ID,
		UserEmail:     s.UserEmail,
		ExamCode:      s.ExamCode,
		OwnerEmail:    s.OwnerEmail,
		Category:      s.Category,
		Status:        s.Status,
		AverageScore:  s.AverageScore,
		QuestionCount: s.QuestionCount,
		Answered:      len(s.Answers),
		Timestamp:     time.Now().UTC(),
	}
}

// Publisher delivers session events.
type Publisher interface {
	PublishSessionCompleted(ctx context.Context, ev SessionCompletedEvent) error
	Close() error
}

// AMQPPublisher publishes to a durable topic exchange. With an empty URL it
// is disabled and every publish is a logged no-op.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
	log      zerolog.Logger
}

func NewAMQPPublisher(url, exchange string, log zerolog.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		exchange: exchange,
		log:      log.With().Str("component", "event_publisher").Logger(),
	}
	if url == "" {
		p.log.Warn().Msg("AMQP_URL is empty, event publishing is disabled")
		return p, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = ch
	p.enabled = true
	p.log.Info().Str("exchange", exchange).Msg("Event publisher initialized")
	return p, nil
}

// Enabled reports whether events leave the process.
func (p *AMQPPublisher) Enabled() bool { return p.enabled }

func (p *AMQPPublisher) PublishSessionCompleted(ctx context.Context, ev SessionCompletedEvent) error {
	if !p.enabled {
		p.log.Debug().Str("session_id", ev.SessionID).Msg("Event publishing disabled, skipping")
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, string(ev.EventType), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.Timestamp,
		Body:         body,
		Headers: amqp.Table{
			"event_type": string(ev.EventType),
			"session_id": ev.SessionID,
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.EventType, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
