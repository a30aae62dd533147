package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"splitledger/internal/models"
)

// AMQPPublisher publishes ledger events to a durable direct exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// ExpenseCreated publishes an expense.created event.
func (p *AMQPPublisher) ExpenseCreated(ctx context.Context, expense *models.Expense) error {
	return p.publish(ctx, newLedgerEvent(TypeExpenseCreated, expense.GroupID, expense.ID, expense.Amount))
}

// ExpenseDeleted publishes an expense.deleted event.
func (p *AMQPPublisher) ExpenseDeleted(ctx context.Context, expense *models.Expense) error {
	return p.publish(ctx, newLedgerEvent(TypeExpenseDeleted, expense.GroupID, expense.ID, expense.Amount))
}

// SettlementRecorded publishes a settlement.recorded event.
func (p *AMQPPublisher) SettlementRecorded(ctx context.Context, settlement *models.Settlement) error {
	return p.publish(ctx, newLedgerEvent(TypeSettlementRecorded, settlement.GroupID, settlement.ID, settlement.Amount))
}

func (p *AMQPPublisher) publish(ctx context.Context, event *LedgerEvent) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.DebugContext(ctx, "Published ledger event",
		"type", event.Type,
		"group_id", event.GroupID,
		"entry_id", event.EntryID,
	)
	return nil
}
