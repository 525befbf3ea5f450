// Package mail sends transactional e-mail over SMTP.
//
//	mail.To(user.Email).
//	    Subject("Your booking was confirmed").
//	    Body(html).
//	    Send(ctx)
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/PascalSeth/trendiwear/config"
)

// ErrNotConfigured is returned by the SMTP transport when MAIL_HOST is empty.
var ErrNotConfigured = errors.New("mail: MAIL_HOST not configured")

type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func FromConfig() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", ""),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "no-reply@trendiwear.app"),
		FromName: config.Get("MAIL_FROM_NAME", "Trendiwear"),
	}
}

// Transport delivers a built message.
type Transport interface {
	Deliver(ctx context.Context, m *Message) error
}

var (
	mu        sync.RWMutex
	transport Transport = smtpTransport{}
)

// SetTransport swaps the global transport and returns the previous one.
func SetTransport(t Transport) Transport {
	mu.Lock()
	defer mu.Unlock()
	prev := transport
	transport = t
	return prev
}

func current() Transport {
	mu.RLock()
	defer mu.RUnlock()
	return transport
}

type Message struct {
	To      []string
	Cc      []string
	Subj    string
	Content string
	HTML    bool
}

func To(addresses ...string) *Message {
	return &Message{To: addresses, HTML: true}
}

func (m *Message) CC(addresses ...string) *Message {
	m.Cc = append(m.Cc, addresses...)
	return m
}

func (m *Message) Subject(s string) *Message {
	m.Subj = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.Content = html
	m.HTML = true
	return m
}

func (m *Message) Text(text string) *Message {
	m.Content = text
	m.HTML = false
	return m
}

// Send delivers through the current transport.
func (m *Message) Send(ctx context.Context) error {
	if len(m.To) == 0 {
		return errors.New("mail: no recipients")
	}
	return current().Deliver(ctx, m)
}

// Raw renders RFC 5322 headers and body.
func (m *Message) Raw(from string) []byte {
	contentType := "text/plain"
	if m.HTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	if len(m.Cc) > 0 {
		b.WriteString("Cc: " + strings.Join(m.Cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + sanitizeHeader(m.Subj) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType)
	b.WriteString(m.Content)
	return []byte(b.String())
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

type smtpTransport struct{}

func (smtpTransport) Deliver(ctx context.Context, m *Message) error {
	cfg := FromConfig()
	if cfg.Host == "" {
		return ErrNotConfigured
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	rcpt := append(append([]string{}, m.To...), m.Cc...)

	d := net.Dialer{Timeout: 10 * time.Second}
	var conn net.Conn
	var err error
	if cfg.Port == "465" {
		conn, err = (&tls.Dialer{NetDialer: &d, Config: &tls.Config{ServerName: cfg.Host}}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && cfg.Port != "465" {
		if err := c.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}
	if cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(cfg.From); err != nil {
		return err
	}
	for _, a := range rcpt {
		if err := c.Rcpt(a); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", a, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.Raw(from)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// Recorder keeps messages in memory instead of sending them.
type Recorder struct {
	mu   sync.Mutex
	Sent []*Message
}

func (r *Recorder) Deliver(_ context.Context, m *Message) error {
	r.mu.Lock()
	r.Sent = append(r.Sent, m)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Messages() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Message(nil), r.Sent...)
}
