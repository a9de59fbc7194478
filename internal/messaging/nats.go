package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/shubh-37/peyza-simulator/internal/simulation"
)

const (
	SubjectNotification = "feed.notification"
	SubjectTick         = "feed.tick"

	flushTimeout = 2 * time.Second
)

// Publisher fans tick results out over NATS
type Publisher struct {
	conn *nats.Conn
	now  func() time.Time
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("peyza-simulator"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Println("✅ NATS connected successfully")

	return &Publisher{conn: conn, now: time.Now}, nil
}

// HandleTick publishes one event per new notification, then the tick summary
func (p *Publisher) HandleTick(_ context.Context, res simulation.Result) error {
	for i := len(res.Notifications) - 1; i >= 0; i-- {
		if err := p.publish(SubjectNotification, newNotificationEvent(res.Notifications[i])); err != nil {
			return err
		}
	}

	if err := p.publish(SubjectTick, newTickEvent(res, p.now())); err != nil {
		return err
	}

	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return nil
}

func (p *Publisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// SubscribeNotifications calls handler for every published notification event
func (p *Publisher) SubscribeNotifications(handler func(NotificationEvent)) (*nats.Subscription, error) {
	return p.conn.Subscribe(SubjectNotification, func(msg *nats.Msg) {
		var event NotificationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("⚠️ Dropping malformed notification event: %v", err)
			return
		}
		handler(event)
	})
}

// Health fails unless the connection is established
func (p *Publisher) Health(_ context.Context) error {
	if status := p.conn.Status(); status != nats.CONNECTED {
		return fmt.Errorf("NATS connection is %s", status)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// Event structures
type NotificationEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	UserName   string `json:"user_name"`
	UserHandle string `json:"user_handle"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}

type TickEvent struct {
	Posts         int    `json:"posts"`
	Injected      bool   `json:"injected"`
	Skipped       int    `json:"skipped"`
	Frozen        int    `json:"frozen"`
	Notifications int    `json:"notifications"`
	Timestamp     string `json:"timestamp"`
}

func newNotificationEvent(n models.Notification) NotificationEvent {
	return NotificationEvent{
		ID:         n.ID,
		Type:       string(n.Type),
		UserName:   n.User.Name,
		UserHandle: n.User.Handle,
		Content:    n.Content,
		Timestamp:  n.Time.UTC().Format(time.RFC3339),
	}
}

func newTickEvent(res simulation.Result, now time.Time) TickEvent {
	return TickEvent{
		Posts:         len(res.Posts),
		Injected:      res.Injected,
		Skipped:       res.Skipped,
		Frozen:        res.Frozen,
		Notifications: len(res.Notifications),
		Timestamp:     now.UTC().Format(time.RFC3339),
	}
}
