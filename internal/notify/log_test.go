package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/gymwear-api/internal/logger"
)

func TestLogTransport_RecordsAttempt(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("api", "info", &buf)

	d := NewDispatcher(newTestConfig(), NewLogTransport(l), logger.Discard())
	require.NoError(t, d.Notify(context.Background(), "ana@example.com", 12, "processing"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ana@example.com", entry["recipient"])
	assert.Equal(t, float64(12), entry["order_id"])
	assert.Equal(t, "processing", entry["status"])
	assert.Equal(t, "log", d.TransportName())
}

func TestLogTransport_DispatcherDoesNotClaimDelivery(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("api", "info", &buf)

	d := NewDispatcher(newTestConfig(), NewLogTransport(l), l)
	require.NoError(t, d.Notify(context.Background(), "ana@example.com", 12, "shipped"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "email not sent: no transport configured")
	assert.NotContains(t, buf.String(), "order notification sent")
}
