// Package notification fans a message out over mail and webhook channels,
// either inline (Send) or through the job queue (Queue).
//
//	type BookingConfirmed struct{ Booking models.Booking }
//	func (n BookingConfirmed) Via() []string { return []string{notification.Mail} }
//	func (n BookingConfirmed) ToMail() notification.MailData { ... }
//
//	_ = notification.Queue(ctx, customer.Email, BookingConfirmed{b})
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PascalSeth/trendiwear/config"
	outbound "github.com/PascalSeth/trendiwear/pkg/http"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/mail"
	"github.com/PascalSeth/trendiwear/pkg/queue"
)

const (
	Mail    = "mail"
	Webhook = "webhook"
)

type MailData struct {
	To      string // overrides the notifiable address
	Subject string
	HTML    string
	Text    string
}

type WebhookData struct {
	URL     string // defaults to ADMIN_WEBHOOK_URL
	Event   string
	Payload any
}

type Notification interface {
	Via() []string
}

type Mailable interface {
	ToMail() MailData
}

type Webhookable interface {
	ToWebhook() WebhookData
}

// Send delivers n on every channel it names. Channel failures are joined.
func Send(ctx context.Context, address string, n Notification) error {
	jobs, err := render(address, n)
	if err != nil {
		return err
	}
	var errs []error
	for _, j := range jobs {
		if err := j.Handle(ctx); err != nil {
			logger.WithCtx(ctx).Error("notification channel failed", "channel", j.Channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Queue renders n now and dispatches one job per channel.
func Queue(ctx context.Context, address string, n Notification) error {
	jobs, err := render(address, n)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if err := queue.Dispatch(ctx, j); err != nil {
			return fmt.Errorf("notification: queue %s: %w", j.Channel, err)
		}
	}
	return nil
}

func render(address string, n Notification) ([]*DeliverJob, error) {
	var jobs []*DeliverJob
	for _, ch := range n.Via() {
		switch ch {
		case Mail:
			m, ok := n.(Mailable)
			if !ok {
				return nil, fmt.Errorf("notification: %T is not Mailable", n)
			}
			d := m.ToMail()
			to := d.To
			if to == "" {
				to = address
			}
			if to == "" {
				continue
			}
			jobs = append(jobs, &DeliverJob{Channel: Mail, To: to, Subject: d.Subject, HTML: d.HTML, Text: d.Text})

		case Webhook:
			w, ok := n.(Webhookable)
			if !ok {
				return nil, fmt.Errorf("notification: %T is not Webhookable", n)
			}
			d := w.ToWebhook()
			url := d.URL
			if url == "" {
				url = config.Get("ADMIN_WEBHOOK_URL", "")
			}
			if url == "" {
				continue
			}
			body, err := json.Marshal(map[string]any{"event": d.Event, "data": d.Payload})
			if err != nil {
				return nil, fmt.Errorf("notification: webhook payload: %w", err)
			}
			jobs = append(jobs, &DeliverJob{Channel: Webhook, URL: url, Payload: body})

		default:
			return nil, fmt.Errorf("notification: unknown channel %q", ch)
		}
	}
	return jobs, nil
}

// DeliverJob is one rendered channel delivery.
type DeliverJob struct {
	Channel string          `json:"channel"`
	To      string          `json:"to,omitempty"`
	Subject string          `json:"subject,omitempty"`
	HTML    string          `json:"html,omitempty"`
	Text    string          `json:"text,omitempty"`
	URL     string          `json:"url,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const JobName = "notification.deliver"

func (j *DeliverJob) Name() string { return JobName }

func (j *DeliverJob) Handle(ctx context.Context) error {
	switch j.Channel {
	case Mail:
		m := mail.To(j.To).Subject(j.Subject)
		if j.HTML != "" {
			m.Body(j.HTML)
		} else {
			m.Text(j.Text)
		}
		return m.Send(ctx)
	case Webhook:
		resp, err := outbound.Post(j.URL).Body([]byte(j.Payload)).
			Header("Content-Type", "application/json").
			Retry(3, 500*time.Millisecond).
			Send(ctx)
		if err != nil {
			return err
		}
		return resp.Throw()
	default:
		return fmt.Errorf("notification: unknown channel %q", j.Channel)
	}
}

// RegisterJobs makes DeliverJob decodable by queue workers.
func RegisterJobs(m *queue.Manager) {
	m.Register(JobName, func() queue.Job { return &DeliverJob{} })
}
