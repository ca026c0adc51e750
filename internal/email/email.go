// Package email formats visit notices and sends them over SMTP.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"math"
	"net/smtp"
	"strings"

	"github.com/evcraddock/realty/internal/property"
	"github.com/evcraddock/realty/internal/visit"
)

// SMTPConfig holds SMTP connection settings. config.SMTP converts to it.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// NoticeSubject returns the subject line for a visit status notice.
func NoticeSubject(v *visit.Visit, status string) string {
	return fmt.Sprintf("Visit #%d: %s", v.ID, strings.ToLower(status))
}

// FormatVisitNotice builds a plain-text email body telling the requester
// about the state of their visit.
func FormatVisitNotice(v *visit.Visit, p *property.Property, status string) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Hi,\n\nYour visit #%d is now %s.\n\n", v.ID, strings.ToLower(status))

	fmt.Fprintf(&buf, "When: %s\n", v.ScheduledAt.UTC().Format("Mon, 02 Jan 2006 15:04 MST"))
	fmt.Fprintf(&buf, "Property: %s\n", p.Name)
	if p.Address != "" {
		fmt.Fprintf(&buf, "   %s\n", p.Address)
	}

	var details []string
	if p.Price > 0 {
		details = append(details, fmt.Sprintf("$%s", formatWithCommas(int64(math.Round(p.Price)))))
	}
	if p.Rooms > 0 {
		details = append(details, fmt.Sprintf("%d rooms", p.Rooms))
	}
	if p.Bathrooms > 0 {
		details = append(details, fmt.Sprintf("%d bath", p.Bathrooms))
	}
	if p.AreaM2 > 0 {
		details = append(details, fmt.Sprintf("%s m2", formatWithCommas(p.AreaM2)))
	}
	if len(details) > 0 {
		fmt.Fprintf(&buf, "   %s\n", strings.Join(details, " | "))
	}

	if !v.HasAgent() {
		fmt.Fprintf(&buf, "\nAn agent has not been assigned yet.\n")
	}

	fmt.Fprintf(&buf, "\nThanks!\n")

	return buf.String()
}

// Send sends an email via SMTP.
// Supports both port 465 (implicit TLS) and port 587 (STARTTLS).
func Send(cfg SMTPConfig, to []string, subject, body string) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		cfg.From,
		strings.Join(to, ", "),
		subject,
		body,
	)

	addr := cfg.Host + ":" + cfg.Port

	if cfg.Port == "465" {
		return sendImplicitTLS(cfg, addr, to, msg)
	}
	return sendSTARTTLS(cfg, addr, to, msg)
}

// sendImplicitTLS connects over TLS directly (port 465/SMTPS).
func sendImplicitTLS(cfg SMTPConfig, addr string, to []string, msg string) error {
	tlsCfg := &tls.Config{ServerName: cfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if cfg.User != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// sendSTARTTLS connects plain then upgrades to TLS (port 587).
func sendSTARTTLS(cfg SMTPConfig, addr string, to []string, msg string) error {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.From, to, []byte(msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

func formatWithCommas(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
