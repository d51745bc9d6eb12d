package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"helperhub/internal/core/domain/model/order"
	"helperhub/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the fanout exchange notification consumers bind to.
const DefaultExchange = "helperhub.notifications"

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQNotifier publishes persistent JSON messages to a fanout exchange.
type RabbitMQNotifier struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	mu       sync.Mutex
	now      func() time.Time
}

var _ ports.Notifier = (*RabbitMQNotifier)(nil)

// DialRabbitMQ connects to url and declares the exchange.
func DialRabbitMQ(url, exchange string) (*RabbitMQNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	n, err := newRabbitMQNotifier(ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	n.conn = conn
	return n, nil
}

func newRabbitMQNotifier(ch channel, exchange string) (*RabbitMQNotifier, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &RabbitMQNotifier{
		ch:       ch,
		exchange: exchange,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (n *RabbitMQNotifier) StatusChanged(ctx context.Context, e order.StatusEvent) error {
	return n.publish(ctx, KindStatusChanged, e.ID.String(), newStatusChangedMessage(e))
}

func (n *RabbitMQNotifier) BalanceReminder(ctx context.Context, r ports.BalanceReminder) error {
	return n.publish(ctx, KindBalanceReminder, "", newBalanceReminderMessage(r))
}

func (n *RabbitMQNotifier) publish(ctx context.Context, kind, messageID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	return n.ch.PublishWithContext(ctx, n.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         kind,
		MessageId:    messageID,
		Timestamp:    n.now(),
		Body:         body,
	})
}

// Close releases the channel and, when dialed, the connection.
func (n *RabbitMQNotifier) Close() error {
	err := n.ch.Close()
	if n.conn != nil {
		if cerr := n.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
