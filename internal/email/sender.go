// Package email implements the notification dispatcher: formatted
// messages, optionally with attachments, delivered to fixed HR and
// Finance mailboxes over SMTP.
package email

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Config holds mail transport configuration
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
}

// Sender delivers notifications over SMTP. When credentials are absent it
// runs in simulation mode: the would-be message is logged and delivery is
// reported as failed. Send never returns an error to the caller.
type Sender struct {
	cfg    Config
	dial   func(m *gomail.Message) error
	logger *zap.Logger
}

// NewSender creates a new notification sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}

	if s.simulated() {
		logger.Warn("SMTP credentials not configured, notifications run in simulation mode")
	} else {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		s.dial = func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		}
	}

	return s
}

// Send delivers a message to a single recipient, optionally with
// attachments. Returns true only on confirmed hand-off to the transport.
// Attachments that do not exist on disk are skipped with a warning; the
// transport guesses the content type from the file extension, defaulting
// to application/octet-stream.
func (s *Sender) Send(to, subject, body string, attachments ...string) bool {
	if s.simulated() {
		s.logger.Info("Simulated notification (not sent)",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Int("attachments", len(attachments)),
			zap.String("body", body))
		return false
	}

	from := s.cfg.FromAddress
	if from == "" {
		from = s.cfg.Username
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	for _, path := range attachments {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			s.logger.Warn("Attachment not found, sending without it",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		m.Attach(path)
	}

	if err := s.dial(m); err != nil {
		s.logger.Error("Failed to send notification",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return false
	}

	s.logger.Info("Notification sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("attachments", len(attachments)))
	return true
}

func (s *Sender) simulated() bool {
	return s.cfg.Username == "" || s.cfg.Password == ""
}

// BuildRequestBody formats a structured-flow submission into a mail body
func BuildRequestBody(title string, fields map[string]string, order []string) string {
	body := title + "\n\n"
	for _, key := range order {
		if v, ok := fields[key]; ok {
			body += fmt.Sprintf("%s: %s\n", key, v)
		}
	}
	body += "\nThis request was submitted through the HR policy assistant.\n"
	return body
}

// AttachmentName returns the base name of an attachment path for display
func AttachmentName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
