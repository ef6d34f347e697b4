// Package mail provides a fluent mailer with pluggable transports.
//
// Usage:
//
//	mail.To("user@example.com").
//	    Subject("Order Confirmation - Order #9F2C41AB").
//	    Text(body).
//	    Send()
//
// The transport is picked from MAIL_DRIVER: "smtp" delivers for real,
// "log" (the default) renders the message to the application log. The log
// transport is the mock email service — checkout flows run against it in
// development and tests without any SMTP server.
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/yasithJay/online-bookstore-final-assessment/config"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/logger"
)

// ------------------- Transport -------------------

// Transport delivers a built message. Implementations must be safe for
// concurrent use; the queue workers share one.
type Transport interface {
	Deliver(from string, to []string, raw []byte) error
}

var transport Transport = pickTransport()

// SetTransport swaps the delivery mechanism. Tests install a capture
// transport here; production code never needs to call it.
func SetTransport(t Transport) { transport = t }

func pickTransport() Transport {
	if config.MailDriver() == "smtp" {
		return &SMTPTransport{cfg: defaultSMTP()}
	}
	return &LogTransport{}
}

// ------------------- Config -------------------

// SMTP holds connection credentials (populated from env/config).
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
}

func defaultSMTP() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "smtp.mailtrap.io"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
	}
}

// ------------------- Message -------------------

// Message is a fluent builder for an email.
type Message struct {
	to      []string
	cc      []string
	bcc     []string
	from    string
	subject string
	body    string
	isHTML  bool
}

// To sets the primary recipients.
func To(addresses ...string) *Message {
	return &Message{
		to:   addresses,
		from: config.MailFrom(),
	}
}

// From overrides the configured sender address for this message.
func (m *Message) From(address string) *Message {
	m.from = address
	return m
}

// CC adds CC recipients.
func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

// BCC adds BCC recipients.
func (m *Message) BCC(addresses ...string) *Message {
	m.bcc = append(m.bcc, addresses...)
	return m
}

// Subject sets the email subject.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// ------------------- Sending -------------------

// Send builds the RFC 822 message and hands it to the active transport.
func (m *Message) Send() error {
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	allTo := append(append(append([]string(nil), m.to...), m.cc...), m.bcc...)
	raw := m.buildRaw()

	return transport.Deliver(m.from, allTo, raw)
}

func (m *Message) buildRaw() []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	if len(m.cc) > 0 {
		b.WriteString("Cc: " + strings.Join(m.cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}

// ------------------- Log transport -------------------

// LogTransport renders the message to the application log instead of
// delivering it. This is the console-mock email service: the full message
// is visible in the log output, nothing leaves the process.
type LogTransport struct{}

func (t *LogTransport) Deliver(from string, to []string, raw []byte) error {
	logger.Info("mail: message delivered to log",
		"from", from,
		"to", strings.Join(to, ", "),
		"message", string(raw),
	)
	return nil
}

// ------------------- SMTP transport -------------------

// SMTPTransport delivers via a real SMTP server.
// Uses implicit TLS for port 465, STARTTLS/plain for 587/25.
type SMTPTransport struct {
	cfg SMTP
}

// NewSMTPTransport creates an SMTPTransport with explicit credentials.
func NewSMTPTransport(cfg SMTP) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Deliver(from string, to []string, raw []byte) error {
	cfg := t.cfg
	if cfg.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	if cfg.Port == "465" {
		return t.deliverTLS(addr, auth, from, to, raw)
	}
	return smtp.SendMail(addr, auth, from, to, raw)
}

func (t *SMTPTransport) deliverTLS(addr string, auth smtp.Auth, from string, to []string, raw []byte) error {
	tlsCfg := &tls.Config{ServerName: t.cfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}
