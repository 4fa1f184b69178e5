// Package notify sends order status emails.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/safar/gymwear-api/internal/logger"
)

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Order notifications dispatched, by transport and result",
	},
	[]string{"transport", "result"},
)

var htmlBody = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #111827;">
  <h2 style="color: #4F46E5;">{{.Shop}}</h2>
  <p>Hello,</p>
  <p>Your order <strong>#{{.OrderID}}</strong> has been processed successfully.</p>
  <p>Current status:
    <span style="background: {{.Color}}; color: #FFFFFF; padding: 4px 10px; border-radius: 4px;">{{.Label}}</span>
  </p>
  <p>Thank you for your purchase.</p>
  <p style="color: #6B7280; font-size: 12px;">The {{.Shop}} team</p>
</body>
</html>
`))

type bodyData struct {
	Shop    string
	OrderID int64
	Label   string
	Color   template.CSS
}

// NotificationError wraps a transport failure with the order it was for.
type NotificationError struct {
	OrderID   int64
	Recipient string
	Transport string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s about order %d via %s: %v", e.Recipient, e.OrderID, e.Transport, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Dispatcher builds order emails and hands them to a single transport.
type Dispatcher struct {
	shop      string
	from      string
	transport Transport
	logger    *slog.Logger
}

func NewDispatcher(cfg Config, transport Transport, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		shop:      cfg.ShopName,
		from:      cfg.FromAddress,
		transport: transport,
		logger:    logger,
	}
}

// TransportName identifies where messages go: "log", "smtp" or "http".
func (d *Dispatcher) TransportName() string {
	return d.transport.Name()
}

// Notify sends one order status email. Transport failures come back as
// *NotificationError; the call is never retried.
func (d *Dispatcher) Notify(ctx context.Context, recipient string, orderID int64, status string) error {
	msg, err := d.Compose(recipient, orderID, ParseStatus(status))
	if err != nil {
		notificationsTotal.WithLabelValues(d.transport.Name(), "error").Inc()
		return &NotificationError{OrderID: orderID, Recipient: recipient, Transport: d.transport.Name(), Err: err}
	}

	log := logger.FromContext(ctx, d.logger)
	if !msg.Status.Known() {
		log.WarnContext(ctx, "unknown order status, sending raw value",
			slog.Int64("order_id", orderID),
			slog.String("status", status),
		)
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		notificationsTotal.WithLabelValues(d.transport.Name(), "error").Inc()
		log.ErrorContext(ctx, "order notification failed",
			slog.Int64("order_id", orderID),
			slog.String("recipient", recipient),
			slog.String("transport", d.transport.Name()),
			slog.String("error", err.Error()),
		)
		return &NotificationError{OrderID: orderID, Recipient: recipient, Transport: d.transport.Name(), Err: err}
	}

	if d.transport.Name() == logTransportName {
		notificationsTotal.WithLabelValues(logTransportName, "skipped").Inc()
		return nil
	}

	notificationsTotal.WithLabelValues(d.transport.Name(), "ok").Inc()
	log.InfoContext(ctx, "order notification sent",
		slog.Int64("order_id", orderID),
		slog.String("recipient", recipient),
		slog.String("transport", d.transport.Name()),
	)
	return nil
}

// Compose renders the message for an order without sending it.
func (d *Dispatcher) Compose(recipient string, orderID int64, status Status) (*Message, error) {
	status = ParseStatus(string(status))
	label := status.Label()

	var html bytes.Buffer
	err := htmlBody.Execute(&html, bodyData{
		Shop:    d.shop,
		OrderID: orderID,
		Label:   label,
		Color:   template.CSS(status.Color()),
	})
	if err != nil {
		return nil, fmt.Errorf("render email body: %w", err)
	}

	return &Message{
		From:    d.from,
		To:      recipient,
		Subject: fmt.Sprintf("%s - Order #%d - %s", d.shop, orderID, label),
		HTML:    html.String(),
		Text:    plainBody(d.shop, orderID, label),
		OrderID: orderID,
		Status:  status,
	}, nil
}

func plainBody(shop string, orderID int64, label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n")
	fmt.Fprintf(&b, "Your order with ID %d has been processed successfully.\n", orderID)
	fmt.Fprintf(&b, "Current status: %s\n\n", label)
	fmt.Fprintf(&b, "Thank you for your purchase.\n")
	fmt.Fprintf(&b, "The %s team\n", shop)
	return b.String()
}
