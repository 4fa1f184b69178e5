package notify

import (
	"strings"

	"github.com/safar/gymwear-api/internal/models"
)

// Status is an order status as stored on the order row. Values outside the
// known set are kept verbatim so new statuses still render.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

const defaultColor = "#6B7280"

// ParseStatus drops the surrounding whitespace a stored status may carry.
func ParseStatus(s string) Status {
	return Status(strings.TrimSpace(s))
}

// Known reports whether s is one of the modeled statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Label returns the customer-facing name for s.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	default:
		return models.DisplayStatus(string(s))
	}
}

// Color is the badge color used in the HTML email.
func (s Status) Color() string {
	switch s {
	case StatusPending:
		return "#F59E0B"
	case StatusProcessing:
		return "#3B82F6"
	case StatusShipped:
		return "#8B5CF6"
	case StatusDelivered:
		return "#10B981"
	case StatusCancelled:
		return "#EF4444"
	default:
		return defaultColor
	}
}
