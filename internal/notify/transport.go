package notify

import (
	"context"
	"log/slog"
	"time"
)

// Message is one outbound email. OrderID and Status are carried for
// logging; transports do not put them on the wire.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string

	OrderID int64
	Status  Status
}

// Transport delivers a message through one channel.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type HTTPAPIConfig struct {
	Endpoint string
	APIKey   string
	// Timeout bounds one API call. Zero means 10s.
	Timeout time.Duration
}

// Config is everything the dispatcher needs; nothing is read from the
// environment at send time.
type Config struct {
	ShopName    string
	FromAddress string
	SMTP        SMTPConfig
	HTTPAPI     HTTPAPIConfig
}

// NewTransport picks the transport once, from the credentials present: an
// email API key wins over SMTP, and no credentials at all means log-only.
func NewTransport(cfg Config, logger *slog.Logger) (Transport, error) {
	switch {
	case cfg.HTTPAPI.APIKey != "":
		return NewHTTPTransport(cfg.HTTPAPI, nil, logger), nil
	case cfg.SMTP.Host != "" && cfg.SMTP.Password != "":
		return NewSMTPTransport(cfg.SMTP)
	default:
		return NewLogTransport(logger), nil
	}
}
