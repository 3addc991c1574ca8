package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Sender delivers one HTML mail.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type SMTPSender struct {
	opts        SMTPOptions
	dialTimeout time.Duration
	ioTimeout   time.Duration
}

func NewSMTPSender(opts SMTPOptions) *SMTPSender {
	if opts.Port == 0 {
		opts.Port = 587
	}
	return &SMTPSender{opts: opts, dialTimeout: 8 * time.Second, ioTimeout: 15 * time.Second}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	return s.deliver(ctx, to, buildMessage(s.fromHeader(), to, subject, htmlBody))
}

func (s *SMTPSender) fromHeader() string {
	if s.opts.FromName == "" {
		return s.opts.From
	}
	return fmt.Sprintf("%s <%s>", s.opts.FromName, s.opts.From)
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n"))
}

// deliver speaks SMTP with STARTTLS and a hard deadline on the whole exchange.
func (s *SMTPSender) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))

	dialer := net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(s.ioTimeout))

	c, err := smtp.NewClient(conn, s.opts.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.opts.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if s.opts.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.opts.Username, s.opts.Password, s.opts.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(s.opts.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
