package notify

import (
	"context"
	"log"

	"github.com/youssefabdellah10/craftopia-sub002/services/api/internal/app"
)

// LogNotifier writes confirmations to the log instead of a broker. Used when
// no AMQP_URL is configured.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendPaymentConfirmation(_ context.Context, msg app.PaymentConfirmation) error {
	n.logger.Printf(
		"payment confirmation to=%s order=%s amount=%s %s release=%s",
		msg.Email,
		msg.OrderID,
		msg.Amount.StringFixed(2),
		msg.Currency,
		msg.EstimatedRelease.Format("2006-01-02"),
	)
	return nil
}
