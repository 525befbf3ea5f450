// Package notifications renders the marketplace's outgoing mail and
// webhook messages.
package notifications

import (
	"fmt"
	"html/template"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/notification"
)

func esc(s string) string { return template.HTMLEscapeString(s) }

// OrderPlaced confirms a checkout to the customer.
type OrderPlaced struct {
	Order *models.Order
}

func (OrderPlaced) Via() []string { return []string{notification.Mail} }

func (n OrderPlaced) ToMail() notification.MailData {
	o := n.Order
	rows := ""
	for _, it := range o.Items {
		rows += fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			esc(it.ProductName), it.Quantity, it.Subtotal.StringFixed(2))
	}
	return notification.MailData{
		Subject: "Order " + o.OrderNumber + " received",
		HTML: fmt.Sprintf("<p>Thanks for your order <b>%s</b>.</p><table>%s</table><p>Total: %s</p>",
			esc(o.OrderNumber), rows, o.Total.StringFixed(2)),
		Text: fmt.Sprintf("Thanks for your order %s. Total: %s", o.OrderNumber, o.Total.StringFixed(2)),
	}
}

// OrderStatus tells the customer their order moved.
type OrderStatus struct {
	Order *models.Order
}

func (OrderStatus) Via() []string { return []string{notification.Mail} }

func (n OrderStatus) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Order %s is now %s", n.Order.OrderNumber, n.Order.Status),
		Text:    fmt.Sprintf("Your order %s is now %s.", n.Order.OrderNumber, n.Order.Status),
	}
}

// BookingRequested tells a professional about a new booking.
type BookingRequested struct {
	Booking *models.Booking
}

func (BookingRequested) Via() []string { return []string{notification.Mail} }

func (n BookingRequested) ToMail() notification.MailData {
	b := n.Booking
	name := "a service"
	if b.Service != nil {
		name = b.Service.Name
	}
	when := b.ScheduledAt.UTC().Format("Mon 2 Jan 2006 15:04 MST")
	return notification.MailData{
		Subject: "New booking request",
		Text:    fmt.Sprintf("You have a new booking for %s on %s.", name, when),
	}
}

// BookingStatus tells the customer their booking moved.
type BookingStatus struct {
	Booking *models.Booking
}

func (BookingStatus) Via() []string { return []string{notification.Mail} }

func (n BookingStatus) ToMail() notification.MailData {
	return notification.MailData{
		Subject: "Booking " + n.Booking.Status,
		Text: fmt.Sprintf("Your booking #%d scheduled for %s is now %s.",
			n.Booking.ID, n.Booking.ScheduledAt.UTC().Format("2006-01-02 15:04 MST"), n.Booking.Status),
	}
}

// ReportFiled alerts moderators through the admin webhook and, when
// ADMIN_EMAIL is set, by mail.
type ReportFiled struct {
	Report *models.ReportedContent
}

func (ReportFiled) Via() []string { return []string{notification.Webhook, notification.Mail} }

func (n ReportFiled) ToWebhook() notification.WebhookData {
	r := n.Report
	return notification.WebhookData{
		Event: "report.created",
		Payload: map[string]any{
			"id":          r.ID,
			"contentType": r.ContentType,
			"contentId":   r.ContentID,
			"reason":      r.Reason,
			"reporterId":  r.ReporterID,
		},
	}
}

func (n ReportFiled) ToMail() notification.MailData {
	r := n.Report
	return notification.MailData{
		To:      config.Get("ADMIN_EMAIL", ""),
		Subject: fmt.Sprintf("New %s report #%d", r.ContentType, r.ID),
		Text:    fmt.Sprintf("%s #%d was reported: %s", r.ContentType, r.ContentID, r.Reason),
	}
}
