package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Label(t *testing.T) {
	tests := map[Status]string{
		StatusPending:    "Pending",
		StatusProcessing: "Processing",
		StatusShipped:    "Shipped",
		StatusDelivered:  "Delivered",
		StatusCancelled:  "Cancelled",
		"unknown_value":  "unknown_value",
		"":               "N/A",
		"  ":             "N/A",
	}

	for status, want := range tests {
		assert.Equal(t, want, status.Label(), "status %q", status)
	}
}

func TestStatus_Color(t *testing.T) {
	colors := map[string]bool{}
	for _, s := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Known())
		assert.NotEqual(t, defaultColor, s.Color())
		colors[s.Color()] = true
	}
	assert.Len(t, colors, 5, "each known status has its own color")

	assert.False(t, Status("on_hold").Known())
	assert.Equal(t, defaultColor, Status("on_hold").Color())
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusShipped, ParseStatus(" shipped "))
	assert.True(t, ParseStatus("delivered\n").Known())
	assert.Equal(t, Status(""), ParseStatus("  "))
}
