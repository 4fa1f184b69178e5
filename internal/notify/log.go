package notify

import (
	"context"
	"log/slog"
)

const logTransportName = "log"

// LogTransport records messages without sending them. It backs degraded
// mode, where outbound mail is not configured or not reachable.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Name() string {
	return logTransportName
}

func (t *LogTransport) Send(ctx context.Context, msg *Message) error {
	t.logger.InfoContext(ctx, "email not sent: no transport configured",
		slog.String("recipient", msg.To),
		slog.Int64("order_id", msg.OrderID),
		slog.String("status", string(msg.Status)),
	)
	return nil
}
