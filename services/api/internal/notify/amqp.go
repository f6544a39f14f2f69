package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/app"
)

const (
	exchangeName = "craftopia_notifications"
	exchangeType = "topic"
	routingKey   = "payment.confirmed"
)

// AMQPNotifier publishes payment confirmations to a topic exchange. The
// notification worker consuming them handles the actual email delivery.
type AMQPNotifier struct {
	ch *amqp.Channel
}

// Dial connects to the broker and declares the notification exchange.
func Dial(url string) (*amqp.Connection, *AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, exchangeType, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, &AMQPNotifier{ch: ch}, nil
}

type confirmationMessage struct {
	Email            string    `json:"email"`
	CustomerName     string    `json:"customer_name"`
	OrderID          string    `json:"order_id"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	EstimatedRelease time.Time `json:"estimated_release"`
}

func (n *AMQPNotifier) SendPaymentConfirmation(ctx context.Context, msg app.PaymentConfirmation) error {
	body, err := json.Marshal(confirmationMessage{
		Email:            msg.Email,
		CustomerName:     msg.CustomerName,
		OrderID:          msg.OrderID,
		Amount:           msg.Amount.StringFixed(2),
		Currency:         msg.Currency,
		EstimatedRelease: msg.EstimatedRelease,
	})
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}

	return n.ch.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
