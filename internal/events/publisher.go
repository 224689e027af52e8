package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Exchange names for downstream consumers (notifications, accounting).
const (
	ExchangePaymentCompleted = "payment_completed"
	ExchangePaymentRefunded  = "payment_refunded"
	ExchangeBookingCancelled = "booking_cancelled"
)

// PaymentEvent is the payload published on payment transitions.
type PaymentEvent struct {
	PaymentID     int64     `json:"payment_id"`
	BookingID     int64     `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher fans payment/booking events out over RabbitMQ. It is optional:
// a nil Publisher is safe to call and publishes nothing. Publish failures are
// logged and swallowed; event delivery must never fail a customer request.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	for _, exchange := range []string{ExchangePaymentCompleted, ExchangePaymentRefunded, ExchangeBookingCancelled} {
		if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Publish(exchange string, event PaymentEvent) {
	if p == nil || p.ch == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[EVENTS] marshal event failed exchange=%s err=%v", exchange, err)
		return
	}
	err = p.ch.Publish(exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		log.Printf("[EVENTS] publish failed exchange=%s booking_id=%d err=%v", exchange, event.BookingID, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
