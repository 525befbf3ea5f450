// Package listeners wires domain events to the admin live feed and to
// queued customer and moderator notifications.
package listeners

import (
	"context"
	"fmt"

	"github.com/PascalSeth/trendiwear/app/events"
	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/app/notifications"
	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/event"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/notification"
	"github.com/PascalSeth/trendiwear/pkg/orm"
)

// Publisher receives live-feed events. *ws.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, data any)
}

// Notify is swapped in tests.
var Notify = notification.Queue

// Register subscribes every listener. pub may be nil when the live feed
// is disabled.
func Register(pub Publisher) {
	publish := func(name string, data any) {
		if pub != nil {
			pub.Publish(name, data)
		}
	}

	event.Listen(events.OrderPlaced, func(ctx context.Context, p any) {
		o, ok := p.(*models.Order)
		if !ok {
			return
		}
		publish(events.OrderPlaced, map[string]any{
			"id": o.ID, "orderNumber": o.OrderNumber, "userId": o.UserID, "total": o.Total,
		})
		send(ctx, userEmail(ctx, o.UserID), notifications.OrderPlaced{Order: o})
	})

	event.Listen(events.OrderStatusChanged, func(ctx context.Context, p any) {
		ch, ok := p.(services.OrderStatusChange)
		if !ok {
			return
		}
		publish(events.OrderStatusChanged, map[string]any{
			"id": ch.Order.ID, "from": ch.From, "to": ch.Order.Status,
		})
		send(ctx, userEmail(ctx, ch.Order.UserID), notifications.OrderStatus{Order: ch.Order})
	})

	event.Listen(events.BookingCreated, func(ctx context.Context, p any) {
		b, ok := p.(*models.Booking)
		if !ok {
			return
		}
		publish(events.BookingCreated, map[string]any{
			"id": b.ID, "serviceId": b.ServiceID, "professionalId": b.ProfessionalID, "scheduledAt": b.ScheduledAt,
		})
		send(ctx, professionalEmail(ctx, b.ProfessionalID), notifications.BookingRequested{Booking: b})
	})

	event.Listen(events.BookingStatusChanged, func(ctx context.Context, p any) {
		ch, ok := p.(services.BookingStatusChange)
		if !ok {
			return
		}
		publish(events.BookingStatusChanged, map[string]any{
			"id": ch.Booking.ID, "from": ch.From, "to": ch.Booking.Status,
		})
		send(ctx, userEmail(ctx, ch.Booking.CustomerID), notifications.BookingStatus{Booking: ch.Booking})
	})

	event.Listen(events.ReportCreated, func(ctx context.Context, p any) {
		r, ok := p.(*models.ReportedContent)
		if !ok {
			return
		}
		publish(events.ReportCreated, map[string]any{
			"id": r.ID, "contentType": r.ContentType, "contentId": r.ContentID, "reason": r.Reason,
		})
		send(ctx, "", notifications.ReportFiled{Report: r})
	})
}

func send(ctx context.Context, address string, n notification.Notification) {
	if err := Notify(ctx, address, n); err != nil {
		logger.WithCtx(ctx).Warn("notification not queued", "type", fmt.Sprintf("%T", n), "error", err)
	}
}

func userEmail(ctx context.Context, id uint) string {
	var u models.User
	if err := orm.WithContext(ctx).Select("id", "email").First(&u, id); err != nil {
		return ""
	}
	return u.Email
}

func professionalEmail(ctx context.Context, profileID uint) string {
	var p models.ProfessionalProfile
	if err := orm.WithContext(ctx).Select("id", "user_id").First(&p, profileID); err != nil {
		return ""
	}
	return userEmail(ctx, p.UserID)
}
