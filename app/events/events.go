// Package events names the domain events fired on pkg/event.
package events

const (
	OrderPlaced          = "order.placed"
	OrderStatusChanged   = "order.status_changed"
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	ReportCreated        = "report.created"
)
